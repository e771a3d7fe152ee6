// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tagindex/storage/db"
	. "golang.org/x/tagindex/storage/db/sqlite"
	"golang.org/x/tagindex/tagtree"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	d, err := db.OpenSQL("sqlite", filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	defer d.Close()

	rec := tagtree.Record{Payload: "a.png", Tags: map[string]string{"model": "global", "lead": "T+0"}}
	ok, err := d.WriteRecord(ctx, rec, false)
	require.NoError(t, err)
	require.True(t, ok)

	_, recs, err := d.Read(ctx, db.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, rec, recs["a.png"])

	n, err := d.Delete(ctx, "a.png")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	count, err := d.CountRecords(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIsBusy(t *testing.T) {
	assert.False(t, IsBusy(nil))
	assert.False(t, IsBusy(errors.New("database is locked")))
}
