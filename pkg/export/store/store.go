// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

// Package store writes export objects to the configured destination.
//
// Destinations are addressed by URI: "s3://bucket/prefix" for S3-compatible
// object storage, "gs://bucket/prefix" for GCS, and "file:///dir" for the
// local filesystem. Object keys are relative to the destination prefix.
package store

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
)

// ErrNoDestination indicates that no destination URI was provided.
var ErrNoDestination = errors.New("no export destination provided")

// Store is a write-only object store for export output.
type Store interface {
	// Writer returns a writer for the object at key. The object is
	// committed on Close; abandoning the writer abandons the object.
	Writer(ctx context.Context, key string) (io.WriteCloser, error)
	// URL returns the full destination URL of the object at key.
	URL(key string) *url.URL
}

// NewStore constructs a Store for the destination URI.
func NewStore(ctx context.Context, dest string) (Store, error) {
	if dest == "" {
		return nil, ErrNoDestination
	}
	u, err := url.Parse(dest)
	if err != nil {
		return nil, errors.Wrap(err, "parsing destination")
	}
	switch u.Scheme {
	case "s3":
		s, err := NewS3Store(ctx, dest)
		return s, errors.Wrap(err, "creating S3 store")
	case "gs":
		s, err := NewGCSStore(ctx, dest)
		return s, errors.Wrap(err, "creating GCS store")
	case "file":
		return NewFilesystemStore(osfs.New(u.Path)), nil
	default:
		return nil, errors.Errorf("unsupported destination scheme: %q", u.Scheme)
	}
}

// bucketParts splits a "scheme://bucket/prefix" destination into its bucket
// and prefix. The prefix keeps no leading slash and, when non-empty, is
// normalized to end with one so keys join cleanly.
func bucketParts(dest, scheme string) (bucket, prefix string) {
	rest := strings.TrimLeft(strings.TrimPrefix(dest, scheme+"://"), "/")
	bucket, prefix, _ = strings.Cut(rest, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return bucket, prefix
}
