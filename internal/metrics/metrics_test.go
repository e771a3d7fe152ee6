// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tagindex/tagtree"
)

func TestBuild(t *testing.T) {
	b := NewBuild()
	b.RecordAdded(true)
	b.RecordAdded(true)
	b.RecordAdded(false)
	b.Merged(3 * time.Millisecond)
	b.Built(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(b.records.WithLabelValues("added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.records.WithLabelValues("skipped")))
	assert.Equal(t, 7.0, testutil.ToFloat64(b.leaves))
	assert.Equal(t, 1, testutil.CollectAndCount(b.merge))

	path := filepath.Join(t.TempDir(), "imtree.prom")
	require.NoError(t, b.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `imtree_records_total{outcome="added"} 2`)
	assert.Contains(t, string(data), "imtree_leaves 7")
	assert.Contains(t, string(data), "imtree_merge_seconds_count 1")
}

func TestBuildObservesParallelBuild(t *testing.T) {
	var recs []tagtree.Record
	for _, a := range []string{"x", "y", "z"} {
		for _, b := range []string{"1", "2"} {
			recs = append(recs, tagtree.Record{Payload: a + b, Tags: map[string]string{"a": a, "b": b}})
		}
	}
	recs = append(recs, tagtree.Record{Payload: "untagged", Tags: map[string]string{"a": "x"}})

	// A record without every tag fails the build and is counted.
	_, err := tagtree.BuildParallel(context.Background(), recs, []string{"a", "b"}, tagtree.Levels{}, 1, tagtree.BuildOptions{Observer: NewBuild()})
	assert.ErrorIs(t, err, tagtree.ErrValidation)

	m := NewBuild()
	_, err = tagtree.BuildParallel(context.Background(), recs[:6], []string{"a", "b"}, tagtree.Levels{}, 3, tagtree.BuildOptions{Observer: m})
	require.NoError(t, err)
	assert.Equal(t, 6.0, testutil.ToFloat64(m.records.WithLabelValues("added")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.leaves))
}
