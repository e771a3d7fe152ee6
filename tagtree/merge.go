// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagtree

// Merge returns the deep union of a and b.
//
// For a key present in both trees, two Nodes are merged recursively;
// otherwise the value from b wins. No error is reported for such
// collisions. Use MergeStrict to detect them.
//
// The returned Node is newly allocated at every level where a and b
// overlap. Subtrees present in only one input are shared with that
// input, so callers should treat a and b as owned by the result.
func Merge(a, b Node) Node {
	out := make(Node, len(a)+len(b))
	for k, av := range a {
		out[k] = av
	}
	for k, bv := range b {
		an, aNode := out[k].(Node)
		bn, bNode := bv.(Node)
		if aNode && bNode {
			out[k] = Merge(an, bn)
			continue
		}
		// Last writer wins.
		out[k] = bv
	}
	return out
}

// MergeStrict is like Merge, but returns a *ConflictError instead of
// letting b override a leaf or null marker of a (or vice versa) with a
// different value.
func MergeStrict(a, b Node) (Node, error) {
	if path := findConflict(a, b, nil); path != nil {
		return nil, &ConflictError{path}
	}
	return Merge(a, b), nil
}

// mergeInto merges b into a in place with the same collision rule as
// Merge. Subtrees of b are moved into a, so b must not be used
// afterwards.
func mergeInto(a, b Node) {
	for k, bv := range b {
		if an, ok := a[k].(Node); ok && an != nil {
			if bn, ok := bv.(Node); ok {
				mergeInto(an, bn)
				continue
			}
		}
		a[k] = bv
	}
}

// findConflict returns the path of the first value of a that merging b
// would override with a different value, or nil.
func findConflict(a, b Node, path []string) []string {
	for k, bv := range b {
		av, ok := a[k]
		if !ok {
			continue
		}
		an, aNode := av.(Node)
		bn, bNode := bv.(Node)
		if aNode && bNode {
			if p := findConflict(an, bn, append(path, k)); p != nil {
				return p
			}
			continue
		}
		if !Equal(av, bv) {
			return append(append([]string(nil), path...), k)
		}
	}
	return nil
}

// Subtract deletes from tree every leaf that pattern marks.
//
// pattern mirrors the paths to delete: where pattern holds a Node,
// Subtract descends into the corresponding Node of tree; where it
// holds anything else, the key is deleted from tree if present.
// Subtract may leave empty Nodes behind; use PruneAll to remove them.
func Subtract(tree, pattern Node) {
	for k, pv := range pattern {
		sub, ok := pv.(Node)
		if !ok {
			delete(tree, k)
			continue
		}
		tv, present := tree[k]
		if !present {
			// Left empty; the prune pass removes it.
			tv = make(Node)
			tree[k] = tv
		}
		if tn, ok := tv.(Node); ok {
			Subtract(tn, sub)
		}
	}
}

// Prune removes empty Nodes and null markers from tree, descending
// into non-empty Nodes first. It reports whether anything was
// removed.
//
// A single call may leave a Node that became empty only because its
// children were pruned in the same call. PruneAll repeats Prune until
// nothing changes.
func Prune(tree Node) bool {
	pruned := false
	for k, v := range tree {
		if sub, ok := v.(Node); ok && len(sub) > 0 {
			if Prune(sub) {
				pruned = true
			}
			continue
		}
		if isNull(v) || isEmptyNode(v) {
			delete(tree, k)
			pruned = true
		}
	}
	return pruned
}

// PruneAll calls Prune until it reports no change.
func PruneAll(tree Node) {
	for Prune(tree) {
	}
}

func isEmptyNode(v Value) bool {
	n, ok := v.(Node)
	return ok && len(n) == 0
}
