// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagtree

import "sort"

// listKeys returns, for each level of the tree rooted at root, the
// distinct keys that occur at that level in lexical order.
//
// Descent stops at leaves and null markers, so a non-uniform tree
// yields key lists only as deep as its deepest path.
func listKeys(root Node) [][]string {
	var sets []map[string]struct{}
	var walk func(n Node, level int)
	walk = func(n Node, level int) {
		if len(n) == 0 {
			return
		}
		if level == len(sets) {
			sets = append(sets, make(map[string]struct{}))
		}
		set := sets[level]
		for k, v := range n {
			set[k] = struct{}{}
			if sub, ok := v.(Node); ok {
				walk(sub, level+1)
			}
		}
	}
	walk(root, 0)

	keys := make([][]string, len(sets))
	for level, set := range sets {
		list := make([]string, 0, len(set))
		for k := range set {
			list = append(list, k)
		}
		sort.Strings(list)
		keys[level] = list
	}
	return keys
}

// keyIndex maps each key of a level to its position in the level's
// key list.
type keyIndex []map[string]int

func newKeyIndex(keys [][]string) keyIndex {
	idx := make(keyIndex, len(keys))
	for level, list := range keys {
		m := make(map[string]int, len(list))
		for i, k := range list {
			m[k] = i
		}
		idx[level] = m
	}
	return idx
}

// find returns the position of key in level, or -1.
func (x keyIndex) find(level int, key string) int {
	if level < 0 || level >= len(x) {
		return -1
	}
	if i, ok := x[level][key]; ok {
		return i
	}
	return -1
}
