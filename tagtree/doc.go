// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tagtree organizes tagged items into a hierarchical index
// keyed by an ordered sequence of tags.
//
// Each level of the tree corresponds to one tag. Walking from the root
// and choosing one key per level leads to a leaf holding one or more
// payload references. This is the data model behind cascading
// selectors: pick a value for the first tag, then for the second, and
// so on, until a payload is reached.
//
// The typical steps for building an index are:
//
// 1. Obtain flat tag records, one per item, from a metadata store.
//
// 2. Convert each record into a single-path tree using PathFromRecord
// and append it to an Index. When appending many records, pass
// skipRelist=true and call Relist once at the end. Build and
// BuildParallel do this for a whole record set.
//
// 3. Reorder the keys of each level with SortKeys.
//
// 4. Flatten the tree into per-leaf index vectors with BuildIndex and
// hand the key lists and vectors to a renderer.
//
// An Index is not safe for concurrent mutation. BuildParallel builds
// independent partial indexes concurrently and merges them
// sequentially.
package tagtree
