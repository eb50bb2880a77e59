// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"io"
	"net/url"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
)

// FilesystemStore writes export objects into a billy.Filesystem, used for
// "file://" destinations and for tests (via memfs).
type FilesystemStore struct {
	fs billy.Filesystem
}

// NewFilesystemStore creates a store rooted at the given filesystem.
func NewFilesystemStore(fs billy.Filesystem) *FilesystemStore {
	return &FilesystemStore{fs: fs}
}

func (s *FilesystemStore) URL(key string) *url.URL {
	return &url.URL{Scheme: "file", Path: filepath.Join(s.fs.Root(), key)}
}

// Writer returns a writer for the file at key, creating parent directories
// as needed.
func (s *FilesystemStore) Writer(ctx context.Context, key string) (io.WriteCloser, error) {
	if dir := filepath.Dir(key); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %q", key)
		}
	}
	f, err := s.fs.Create(key)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %q", key)
	}
	return f, nil
}

var _ Store = &FilesystemStore{}
