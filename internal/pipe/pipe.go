// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipe applies staged transforms to a channel of values.
//
// The export job uses it to stream documents through the drop/sanitize/cast
// stages without materializing a collection in memory.
package pipe

// Pipe is a series of channel-connected stages rooted at an input channel.
type Pipe[T any] struct {
	width int
	last  <-chan T
}

// From creates a Pipe reading from the given input channel.
//
// The channel's capacity is reused for every downstream stage.
func From[T any](in <-chan T) Pipe[T] {
	return Pipe[T]{last: in, width: cap(in)}
}

// Do adds a stage applying fn to each item.
//
// fn may emit zero or more items to out for every input. The stage's output
// channel is closed once the input is exhausted.
func (p Pipe[T]) Do(fn func(in T, out chan<- T)) Pipe[T] {
	prev := p.last
	next := make(chan T, p.width)
	go func() {
		defer close(next)
		for t := range prev {
			fn(t, next)
		}
	}()
	p.last = next
	return p
}

// Out returns the output channel of the final stage.
func (p Pipe[T]) Out() <-chan T {
	return p.last
}

// Into adds a stage transforming the pipe to another item type.
func Into[T, S any](p Pipe[T], fn func(in T, out chan<- S)) Pipe[S] {
	next := make(chan S, p.width)
	go func() {
		defer close(next)
		for t := range p.last {
			fn(t, next)
		}
	}()
	return From(next)
}
