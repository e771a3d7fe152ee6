// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagtree

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
)

// An Observer receives progress events from BuildParallel. Its
// methods may be called concurrently.
type Observer interface {
	// RecordAdded is called once per input record. ok is false if the
	// record was rejected.
	RecordAdded(ok bool)
	// Merged is called after each partial index is merged.
	Merged(d time.Duration)
	// Built is called once with the leaf count of the result.
	Built(leaves int)
}

// BuildOptions are optional hooks for BuildParallel.
type BuildOptions struct {
	Observer Observer
	// Logger receives per-chunk progress at V(1). The zero Logger
	// discards everything.
	Logger logr.Logger
}

type nopObserver struct{}

func (nopObserver) RecordAdded(bool)     {}
func (nopObserver) Merged(time.Duration) {}
func (nopObserver) Built(int)            {}

// Build returns an Index holding one path per record, keyed by the
// record's values for the tags in order. It fails with a
// *ValidationError if any record lacks a tag.
func Build(recs []Record, order []string, levels Levels) (*Index, error) {
	return build(context.Background(), recs, order, levels, nopObserver{})
}

func build(ctx context.Context, recs []Record, order []string, levels Levels, obs Observer) (*Index, error) {
	x, err := New(nil, levels)
	if err != nil {
		return nil, err
	}
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, ok := PathFromRecord(rec, order, nil)
		obs.RecordAdded(ok)
		if !ok {
			return nil, validationf("build", "record %d (%s) is missing one of the tags %q", i, rec.Payload, order)
		}
		if err := x.Append(path, true); err != nil {
			return nil, err
		}
	}
	x.Relist()
	if len(recs) > 0 {
		if err := x.SetLevels(levels); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Split partitions recs into n chunks of nearly equal size, in order.
// The last chunk may be smaller than the others, and fewer than n
// chunks are returned if recs is short. An empty recs yields a single
// empty chunk.
func Split(recs []Record, n int) ([][]Record, error) {
	if n < 1 {
		return nil, validationf("split", "cannot split into %d chunks", n)
	}
	size := (len(recs) + n - 1) / n
	if size == 0 {
		size = 1
	}
	return SplitSize(recs, size)
}

// SplitSize partitions recs into chunks of size records, in order. An
// empty recs yields a single empty chunk.
func SplitSize(recs []Record, size int) ([][]Record, error) {
	if size < 1 {
		return nil, validationf("split", "cannot split into chunks of size %d", size)
	}
	if len(recs) == 0 {
		return [][]Record{{}}, nil
	}
	chunks := make([][]Record, 0, (len(recs)+size-1)/size)
	for len(recs) > 0 {
		n := min(size, len(recs))
		chunks = append(chunks, recs[:n:n])
		recs = recs[n:]
	}
	return chunks, nil
}

// BuildParallel is like Build, but builds partial indexes of up to
// workers chunks of recs concurrently and merges them in chunk order.
// The result is the same as Build's for any number of workers.
//
// The partial indexes are never relisted. Each is owned by the merge
// once its worker finishes, and dropped after it is merged.
func BuildParallel(ctx context.Context, recs []Record, order []string, levels Levels, workers int, opts BuildOptions) (*Index, error) {
	if workers < 1 {
		return nil, validationf("build", "need at least one worker, not %d", workers)
	}
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	chunks, err := Split(recs, workers)
	if err != nil {
		return nil, err
	}
	parts := make([]*Index, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			part, err := buildPartial(ctx, chunk, order, obs)
			if err != nil {
				return err
			}
			log.V(1).Info("built partial index", "chunk", i, "records", len(chunk), "leaves", part.Len())
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	x, err := New(nil, levels)
	if err != nil {
		return nil, err
	}
	for i, part := range parts {
		start := time.Now()
		if err := x.AppendIndex(part, true); err != nil {
			return nil, err
		}
		parts[i] = nil
		obs.Merged(time.Since(start))
	}
	x.Relist()
	if len(recs) > 0 {
		if err := x.SetLevels(levels); err != nil {
			return nil, err
		}
	}
	obs.Built(x.Len())
	log.V(1).Info("merged partial indexes", "chunks", len(parts), "leaves", x.Len())
	return x, nil
}

// buildPartial appends every record of chunk without relisting.
func buildPartial(ctx context.Context, chunk []Record, order []string, obs Observer) (*Index, error) {
	part := &Index{root: make(Node)}
	for _, rec := range chunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, ok := PathFromRecord(rec, order, nil)
		obs.RecordAdded(ok)
		if !ok {
			return nil, validationf("build", "record %s is missing one of the tags %q", rec.Payload, order)
		}
		mergeInto(part.root, path)
	}
	return part, nil
}
