// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

// Package export runs the collection export job: read every document of each
// configured collection, sanitize and cast it per the collection schema, and
// upload the result as one NDJSON object per collection.
package export

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"

	"github.com/Alessandromg18/ingesta-m3/internal/pipe"
	"github.com/Alessandromg18/ingesta-m3/pkg/export/schema"
	"github.com/Alessandromg18/ingesta-m3/pkg/export/source"
	"github.com/Alessandromg18/ingesta-m3/pkg/export/store"
)

// Job is one export run over a document source into an object store.
type Job struct {
	Source source.Source
	Store  store.Store
	Config schema.Config
	// RunID identifies the run in logs. Defaults to a fresh UUID.
	RunID string
	// Progress, when set, is invoked once per exported document.
	Progress func()
}

// CollectionResult is the outcome of exporting one collection.
type CollectionResult struct {
	Collection string
	Documents  int
	URL        string
	Err        error
}

// RunReport is the outcome of a full run.
type RunReport struct {
	RunID   string
	Results []CollectionResult
}

// Err returns a non-nil error only when no collection was exported
// successfully. Partial failure is reported per collection but does not fail
// the run, matching the job's fault isolation: one bad collection must not
// block the others from landing.
func (r *RunReport) Err() error {
	var firstErr error
	for _, res := range r.Results {
		if res.Err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = res.Err
		}
	}
	if firstErr == nil {
		return nil
	}
	return errors.Wrap(firstErr, "all collections failed")
}

// Run exports every configured collection in declared order. A collection
// failure is logged and recorded but does not abort the remaining
// collections.
func (j *Job) Run(ctx context.Context) *RunReport {
	if j.RunID == "" {
		j.RunID = uuid.New().String()
	}
	report := &RunReport{RunID: j.RunID}
	for _, c := range j.Config.Collections {
		log.Printf("exporting collection %s [run=%s]", c.Name, j.RunID)
		res := CollectionResult{Collection: c.Name}
		res.Documents, res.Err = j.exportCollection(ctx, c)
		switch {
		case res.Err != nil:
			log.Printf("collection %s failed: %v", c.Name, res.Err)
		case res.Documents == 0:
			log.Printf("collection %s is empty, skipping upload", c.Name)
		default:
			res.URL = j.Store.URL(c.Object()).String()
			log.Printf("uploaded %d documents to %s", res.Documents, res.URL)
		}
		report.Results = append(report.Results, res)
	}
	return report
}

// exportCollection streams one collection through the transform pipeline into
// the store. Returns the number of documents exported; an empty collection
// writes nothing.
func (j *Job) exportCollection(ctx context.Context, c schema.Collection) (int, error) {
	it, err := j.Source.Collection(ctx, c.Name)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	in := make(chan map[string]any, 16)
	readErr := make(chan error, 1)
	go func() {
		defer close(in)
		for {
			doc, err := it.Next()
			if err == iterator.Done {
				readErr <- nil
				return
			}
			if err != nil {
				readErr <- err
				return
			}
			select {
			case in <- doc:
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			}
		}
	}()

	docs := pipe.From(in).
		Do(func(doc map[string]any, out chan<- map[string]any) {
			delete(doc, "_id")
			out <- doc
		}).
		Do(func(doc map[string]any, out chan<- map[string]any) {
			for k, v := range doc {
				doc[k] = schema.SanitizeValue(v)
			}
			out <- doc
		}).
		Do(func(doc map[string]any, out chan<- map[string]any) {
			out <- schema.Cast(doc, c.Columns)
		})
	lines := pipe.Into(docs, encodeNDJSON).Out()

	count, err := j.upload(ctx, c, lines, readErr)
	drain(lines)
	return count, err
}

// upload writes the encoded lines to the collection's object. The store
// writer is only closed (committing the object) after every line has been
// written and the reader has reported clean exhaustion, so a failed export
// never lands a partial object.
//
// readErr carries the reader's terminal status. The reader sends it before
// closing the document channel, so once lines is closed the status is
// guaranteed to be available.
func (j *Job) upload(ctx context.Context, c schema.Collection, lines <-chan encodedDoc, readErr <-chan error) (int, error) {
	readStatus := func() error {
		return errors.Wrapf(<-readErr, "reading collection %q", c.Name)
	}
	first, ok := <-lines
	if !ok {
		return 0, readStatus()
	}
	if first.err != nil {
		return 0, first.err
	}
	w, err := j.Store.Writer(ctx, c.Object())
	if err != nil {
		return 0, err
	}
	count := 0
	for line := first; ; {
		if line.err != nil {
			return count, line.err
		}
		if _, err := w.Write(line.data); err != nil {
			return count, errors.Wrap(err, "writing object")
		}
		count++
		if j.Progress != nil {
			j.Progress()
		}
		var ok bool
		if line, ok = <-lines; !ok {
			break
		}
	}
	if err := readStatus(); err != nil {
		return count, err
	}
	if err := w.Close(); err != nil {
		return count, errors.Wrap(err, "committing object")
	}
	return count, nil
}

func drain[T any](ch <-chan T) {
	for range ch {
	}
}
