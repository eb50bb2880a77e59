// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// PutObjectAPI is the slice of the S3 client the store needs. It exists so
// tests can substitute a fake.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ PutObjectAPI = (*s3.Client)(nil)

// S3Store writes export objects to an S3 (or S3-compatible) bucket.
type S3Store struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Store creates a store for an "s3://bucket/prefix" destination using
// the ambient AWS credential chain. AWS_ENDPOINT_URL redirects the client to
// an S3-compatible service (MinIO, LocalStack), which also requires
// path-style addressing.
func NewS3Store(ctx context.Context, dest string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS config")
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := os.Getenv("AWS_ENDPOINT_URL"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	bucket, prefix := bucketParts(dest, "s3")
	if bucket == "" {
		return nil, errors.Errorf("no bucket in destination %q", dest)
	}
	return NewS3StoreWithClient(client, bucket, prefix), nil
}

// NewS3StoreWithClient creates an S3Store over an existing client.
func NewS3StoreWithClient(client PutObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) URL(key string) *url.URL {
	return &url.URL{Scheme: "s3", Host: s.bucket, Path: "/" + s.prefix + key}
}

// Writer returns a writer for the object at key. The object body is buffered
// and uploaded in a single PutObject when the writer is closed.
func (s *S3Store) Writer(ctx context.Context, key string) (io.WriteCloser, error) {
	return &s3Writer{ctx: ctx, store: s, key: s.prefix + key}, nil
}

var _ Store = &S3Store{}

type s3Writer struct {
	ctx    context.Context
	store  *S3Store
	key    string
	buf    bytes.Buffer
	closed bool
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *s3Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_, err := w.store.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.store.bucket),
		Key:    aws.String(path.Clean(w.key)),
		Body:   bytes.NewReader(w.buf.Bytes()),
	})
	return errors.Wrapf(err, "uploading s3://%s/%s", w.store.bucket, w.key)
}
