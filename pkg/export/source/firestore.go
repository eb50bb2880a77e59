// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
)

// FirestoreSource reads collections from a Firestore database, for
// deployments that keep the metrics there instead of MongoDB.
type FirestoreSource struct {
	client *firestore.Client
}

// NewFirestoreSource returns a source over the given project's default
// Firestore database.
func NewFirestoreSource(ctx context.Context, project string) (*FirestoreSource, error) {
	client, err := firestore.NewClient(ctx, project)
	if err != nil {
		return nil, errors.Wrap(err, "creating firestore client")
	}
	return &FirestoreSource{client: client}, nil
}

// Collection returns an iterator over every document in the named collection.
func (s *FirestoreSource) Collection(ctx context.Context, name string) (Iterator, error) {
	return &firestoreIterator{it: s.client.Collection(name).Documents(ctx)}, nil
}

func (s *FirestoreSource) Close(ctx context.Context) error {
	return s.client.Close()
}

var _ Source = &FirestoreSource{}

type firestoreIterator struct {
	it *firestore.DocumentIterator
}

func (it *firestoreIterator) Next() (map[string]any, error) {
	doc, err := it.it.Next()
	if err == iterator.Done {
		return nil, iterator.Done
	}
	if err != nil {
		return nil, errors.Wrap(err, "advancing document iterator")
	}
	return doc.Data(), nil
}

func (it *firestoreIterator) Close() error {
	it.it.Stop()
	return nil
}
