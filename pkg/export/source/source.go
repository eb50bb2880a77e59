// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

// Package source provides document iteration over the databases the export
// job can read from.
package source

import (
	"context"

	"google.golang.org/api/iterator"
)

// Iterator streams the documents of one collection.
//
// Next returns iterator.Done after the final document.
type Iterator interface {
	Next() (map[string]any, error)
	Close() error
}

// Source reads collections of documents from a backing database.
type Source interface {
	// Collection returns an iterator over every document in the named
	// collection.
	Collection(ctx context.Context, name string) (Iterator, error)
	Close(ctx context.Context) error
}

// FuncSource serves in-memory documents, keyed by collection name. Missing
// collections iterate as empty. Intended for tests.
type FuncSource struct {
	Docs map[string][]map[string]any
}

func (s *FuncSource) Collection(ctx context.Context, name string) (Iterator, error) {
	return &sliceIterator{docs: s.Docs[name]}, nil
}

func (s *FuncSource) Close(ctx context.Context) error { return nil }

var _ Source = &FuncSource{}

type sliceIterator struct {
	docs []map[string]any
	next int
}

func (it *sliceIterator) Next() (map[string]any, error) {
	if it.next >= len(it.docs) {
		return nil, iterator.Done
	}
	doc := it.docs[it.next]
	it.next++
	// Copy so pipeline mutation doesn't touch the caller's fixture.
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, nil
}

func (it *sliceIterator) Close() error { return nil }
