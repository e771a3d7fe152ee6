// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagtree

import (
	"slices"
	"sort"
)

// A Vector identifies a path through an Index by the position of each
// key in its level's key list. Levels below the end of a short path
// hold -1.
type Vector []int

// Path returns the keys that v selects from keys.
func (v Vector) Path(keys [][]string) []string {
	path := make([]string, 0, len(v))
	for level, i := range v {
		if i < 0 || level >= len(keys) || i >= len(keys[level]) {
			break
		}
		path = append(path, keys[level][i])
	}
	return path
}

// BuildIndex returns the key lists of x and one Vector for every leaf,
// sorted by index tuple.
//
// If maxDepth is positive, the walk stops at that depth and emits one
// Vector per Node reached there, which indexes a prefix of a larger
// tree. Otherwise the tree must have uniform depth.
func (x *Index) BuildIndex(maxDepth int) ([][]string, []Vector, error) {
	if !x.keysValid {
		return nil, nil, ErrStaleKeys
	}
	depth := maxDepth
	if depth <= 0 {
		d, err := x.Depth(true)
		if err != nil {
			return nil, nil, err
		}
		depth = d
	} else if depth > len(x.keys) {
		return nil, nil, validationf("index", "depth %d is deeper than the tree (%d)", depth, len(x.keys))
	}

	b := &indexBuilder{kidx: newKeyIndex(x.keys), depth: depth}
	if depth > 0 {
		vec := make(Vector, depth)
		for i := range vec {
			vec[i] = -1
		}
		if err := b.walk(x.root, 0, vec); err != nil {
			return nil, nil, err
		}
	}
	sort.Slice(b.out, func(i, j int) bool {
		return slices.Compare(b.out[i], b.out[j]) < 0
	})

	keys, _ := x.Keys()
	return keys, b.out, nil
}

type indexBuilder struct {
	kidx  keyIndex
	depth int
	out   []Vector
}

// walk visits n, whose keys are expected at level. vec holds the
// indexes chosen above n and is never modified; every branch works on
// its own copy.
func (b *indexBuilder) walk(n Node, level int, vec Vector) error {
	for k, v := range n {
		if isNull(v) || isEmptyNode(v) {
			continue
		}
		if i := b.kidx.find(level, k); i >= 0 {
			// Descent to the expected level.
			next := slices.Clone(vec)
			next[level] = i
			sub, isNode := v.(Node)
			if !isNode || level+1 >= b.depth {
				b.out = append(b.out, next)
				continue
			}
			if err := b.walk(sub, level+1, next); err != nil {
				return err
			}
		} else if i := b.kidx.find(level-1, k); i >= 0 {
			// A sibling of the Node we came from. Replace the
			// previous level's choice on a copy and stay at this
			// level.
			sub, isNode := v.(Node)
			if !isNode {
				// A leaf here would leave this level unset.
				return &ConsistencyError{Key: k, Level: level}
			}
			next := slices.Clone(vec)
			next[level-1] = i
			if err := b.walk(sub, level, next); err != nil {
				return err
			}
		} else {
			return &ConsistencyError{Key: k, Level: level}
		}
	}
	return nil
}

// A Shard is the part of an index whose paths share a prefix.
type Shard struct {
	Prefix  []string
	Vectors []Vector
}

// Shards groups the full index of x by the first depth keys of each
// path, in key-list order.
func (x *Index) Shards(depth int) ([]Shard, error) {
	keys, vecs, err := x.BuildIndex(0)
	if err != nil {
		return nil, err
	}
	if depth < 0 || depth > len(keys) {
		return nil, validationf("shard", "shard depth %d out of range of tree depth %d", depth, len(keys))
	}
	var shards []Shard
	for _, v := range vecs {
		if len(shards) > 0 {
			last := &shards[len(shards)-1]
			if slices.Compare(last.Vectors[0][:depth], v[:depth]) == 0 {
				last.Vectors = append(last.Vectors, v)
				continue
			}
		}
		shards = append(shards, Shard{Prefix: v[:depth].Path(keys), Vectors: []Vector{v}})
	}
	return shards, nil
}

// Payloads returns every payload reference in x, visiting keys in
// key-list order. A Payloads leaf contributes all of its references.
func (x *Index) Payloads() ([]string, error) {
	if !x.keysValid {
		return nil, ErrStaleKeys
	}
	kidx := newKeyIndex(x.keys)
	var out []string
	var walk func(n Node, level int)
	walk = func(n Node, level int) {
		keys := n.SortedKeys()
		sort.SliceStable(keys, func(i, j int) bool {
			return kidx.find(level, keys[i]) < kidx.find(level, keys[j])
		})
		for _, k := range keys {
			switch v := n[k].(type) {
			case Node:
				walk(v, level+1)
			case Payload:
				out = append(out, string(v))
			case Payloads:
				out = append(out, v...)
			}
		}
	}
	walk(x.root, 0)
	return out, nil
}
