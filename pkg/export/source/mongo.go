// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"google.golang.org/api/iterator"
)

// MongoSource reads collections from a MongoDB database.
type MongoSource struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo connects to the MongoDB deployment at uri and returns a source
// over the named database. The connection is verified with a ping so a bad
// URI fails the run up front rather than on the first collection.
func ConnectMongo(ctx context.Context, uri, db string) (*MongoSource, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, errors.Wrap(err, "pinging mongodb")
	}
	return &MongoSource{client: client, db: client.Database(db)}, nil
}

// Collection returns an iterator over every document in the named collection.
func (s *MongoSource) Collection(ctx context.Context, name string) (Iterator, error) {
	cur, err := s.db.Collection(name).Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrapf(err, "querying collection %q", name)
	}
	return &mongoIterator{ctx: ctx, cur: cur}, nil
}

func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Source = &MongoSource{}

type mongoIterator struct {
	ctx context.Context
	cur *mongo.Cursor
}

func (it *mongoIterator) Next() (map[string]any, error) {
	if !it.cur.Next(it.ctx) {
		if err := it.cur.Err(); err != nil {
			return nil, errors.Wrap(err, "advancing cursor")
		}
		return nil, iterator.Done
	}
	var doc bson.M
	if err := it.cur.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding document")
	}
	return normalizeMap(doc), nil
}

func (it *mongoIterator) Close() error {
	return it.cur.Close(it.ctx)
}

// normalizeMap converts BSON driver types into the plain Go values the rest
// of the pipeline understands (time.Time, string, int64, float64).
func normalizeMap(m bson.M) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Decimal128:
		return t.String()
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case bson.M:
		return normalizeMap(t)
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	default:
		return v
	}
}
