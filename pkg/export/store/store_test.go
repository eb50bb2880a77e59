// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-git/go-billy/v5/memfs"
)

func TestBucketParts(t *testing.T) {
	tests := []struct {
		name       string
		dest       string
		scheme     string
		wantBucket string
		wantPrefix string
	}{
		{name: "bucket only", dest: "s3://my-bucket", scheme: "s3", wantBucket: "my-bucket", wantPrefix: ""},
		{name: "bucket with prefix", dest: "s3://my-bucket/exports", scheme: "s3", wantBucket: "my-bucket", wantPrefix: "exports/"},
		{name: "trailing slash preserved once", dest: "s3://my-bucket/exports/", scheme: "s3", wantBucket: "my-bucket", wantPrefix: "exports/"},
		{name: "nested prefix", dest: "gs://b/a/b/c", scheme: "gs", wantBucket: "b", wantPrefix: "a/b/c/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, prefix := bucketParts(tt.dest, tt.scheme)
			if bucket != tt.wantBucket || prefix != tt.wantPrefix {
				t.Errorf("bucketParts(%q) = (%q, %q), want (%q, %q)", tt.dest, bucket, prefix, tt.wantBucket, tt.wantPrefix)
			}
		})
	}
}

func TestNewStoreUnsupportedScheme(t *testing.T) {
	if _, err := NewStore(context.Background(), "ftp://host/dir"); err == nil {
		t.Error("NewStore() error = nil, want error")
	}
}

func TestNewStoreEmptyDestination(t *testing.T) {
	if _, err := NewStore(context.Background(), ""); err != ErrNoDestination {
		t.Errorf("NewStore() error = %v, want ErrNoDestination", err)
	}
}

func TestFilesystemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := memfs.New()
	s := NewFilesystemStore(fs)

	w, err := s.Writer(ctx, "user_tiktok_metrics/UserTiktokMetrics.json")
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := w.Write([]byte("{\"a\":1}\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := fs.Open("user_tiktok_metrics/UserTiktokMetrics.json")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()
	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{\"a\":1}\n" {
		t.Errorf("object content = %q, want %q", got, "{\"a\":1}\n")
	}
}

type fakePutObjectClient struct {
	puts []*s3.PutObjectInput
	body []byte
}

func (c *fakePutObjectClient) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	c.puts = append(c.puts, params)
	c.body = b
	return &s3.PutObjectOutput{}, nil
}

func TestS3StoreUploadsOnClose(t *testing.T) {
	ctx := context.Background()
	client := &fakePutObjectClient{}
	s := NewS3StoreWithClient(client, "my-bucket", "exports/")

	w, err := s.Writer(ctx, "user_tiktok_metrics/UserTiktokMetrics.json")
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := w.Write([]byte("{\"a\":1}\n")); err != nil {
		t.Fatal(err)
	}
	if len(client.puts) != 0 {
		t.Fatalf("PutObject called before Close: %d calls", len(client.puts))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(client.puts) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", len(client.puts))
	}
	put := client.puts[0]
	if got, want := *put.Bucket, "my-bucket"; got != want {
		t.Errorf("bucket = %q, want %q", got, want)
	}
	if got, want := *put.Key, "exports/user_tiktok_metrics/UserTiktokMetrics.json"; got != want {
		t.Errorf("key = %q, want %q", got, want)
	}
	if got, want := string(client.body), "{\"a\":1}\n"; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}

	// Closing again must not re-upload.
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if len(client.puts) != 1 {
		t.Errorf("PutObject calls after double close = %d, want 1", len(client.puts))
	}
}

func TestS3StoreURL(t *testing.T) {
	s := NewS3StoreWithClient(&fakePutObjectClient{}, "my-bucket", "exports/")
	if got, want := s.URL("a/b.json").String(), "s3://my-bucket/exports/a/b.json"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}
