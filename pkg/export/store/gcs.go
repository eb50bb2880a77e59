// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// GCSStore writes export objects to a GCS bucket.
type GCSStore struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSStore creates a store for a "gs://bucket/prefix" destination.
func NewGCSStore(ctx context.Context, dest string, opts ...option.ClientOption) (*GCSStore, error) {
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating GCS client")
	}
	bucket, prefix := bucketParts(dest, "gs")
	if bucket == "" {
		return nil, errors.Errorf("no bucket in destination %q", dest)
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSStore) URL(key string) *url.URL {
	return &url.URL{Scheme: "gs", Host: s.bucket, Path: "/" + s.prefix + key}
}

// Writer returns a writer for the object at key. GCS commits the object when
// the writer is closed.
func (s *GCSStore) Writer(ctx context.Context, key string) (io.WriteCloser, error) {
	obj := s.client.Bucket(s.bucket).Object(s.prefix + key)
	return obj.NewWriter(ctx), nil
}

var _ Store = &GCSStore{}
