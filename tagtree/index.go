// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagtree

import (
	"slices"
	"sort"
	"strings"
)

// Levels describes the levels of an Index for presentation.
type Levels struct {
	// Names are the display names of each level, usually the full
	// tag names. If non-nil, there must be exactly one per level.
	Names []string

	// Widths are the display widths of each level's selector. If
	// non-nil, there must be exactly one per level.
	Widths []string

	// Animate, if non-nil, selects the one level that a stepping UI
	// animates.
	Animate *Animation
}

// An Animation selects an animated level and its stepping direction.
type Animation struct {
	Level int
	// Direction is +1 to step forwards through the level's keys or
	// -1 to step backwards. Zero is treated as +1.
	Direction int
}

func (l Levels) validate(op string, depth int) error {
	if l.Names != nil && len(l.Names) != depth {
		return validationf(op, "%d level names for a tree of depth %d", len(l.Names), depth)
	}
	if l.Widths != nil && len(l.Widths) != depth {
		return validationf(op, "%d selector widths for a tree of depth %d", len(l.Widths), depth)
	}
	if a := l.Animate; a != nil {
		if a.Level < 0 || a.Level >= depth {
			return validationf(op, "animated level %d out of range of tree depth %d", a.Level, depth)
		}
		if a.Direction != 0 && a.Direction != 1 && a.Direction != -1 {
			return validationf(op, "animation direction must be +1 or -1, not %d", a.Direction)
		}
	}
	return nil
}

func (l Levels) clone() Levels {
	out := Levels{
		Names:  slices.Clone(l.Names),
		Widths: slices.Clone(l.Widths),
	}
	if l.Animate != nil {
		a := *l.Animate
		if a.Direction == 0 {
			a.Direction = 1
		}
		out.Animate = &a
	}
	return out
}

// An Index is a tree of tagged payloads together with the distinct
// keys at each of its levels.
//
// The key lists are derived from the tree. Mutations that pass
// skipRelist=true leave them stale, and operations that depend on
// them return ErrStaleKeys until Relist is called.
type Index struct {
	// Strict, if set, makes Append fail with a *ConflictError
	// instead of overriding existing leaves.
	Strict bool

	root      Node
	levels    Levels
	keys      [][]string
	keysValid bool
}

// New returns an Index over root. If root is non-empty, levels must
// match its depth. New takes ownership of root.
func New(root Node, levels Levels) (*Index, error) {
	if root == nil {
		root = make(Node)
	}
	x := &Index{root: root, levels: levels.clone()}
	if len(root) > 0 {
		depth, _ := x.Depth(false)
		if err := levels.validate("new", depth); err != nil {
			return nil, err
		}
	}
	x.Relist()
	return x, nil
}

// EmptyLike returns a new, empty Index with the same level metadata
// and strictness as x.
func (x *Index) EmptyLike() *Index {
	return &Index{
		Strict:    x.Strict,
		root:      make(Node),
		levels:    x.levels.clone(),
		keysValid: true,
	}
}

// Root returns the tree of x. The caller must not modify it.
func (x *Index) Root() Node {
	return x.root
}

// Levels returns the level metadata of x.
func (x *Index) Levels() Levels {
	return x.levels.clone()
}

// SetLevels replaces the level metadata of x after checking it
// against the current depth of the tree.
func (x *Index) SetLevels(levels Levels) error {
	depth, err := x.Depth(false)
	if err != nil {
		return err
	}
	if err := levels.validate("set levels", depth); err != nil {
		return err
	}
	x.levels = levels.clone()
	return nil
}

// Len returns the number of leaves in x.
func (x *Index) Len() int {
	return x.root.Leaves()
}

// Append merges t into x. For keys where both trees hold a leaf, t's
// value wins unless x.Strict is set. Append takes ownership of t.
//
// If skipRelist is true, the key lists are left stale. This avoids
// quadratic cost when appending many trees one at a time; call Relist
// once afterwards.
func (x *Index) Append(t Node, skipRelist bool) error {
	if x.Strict {
		if path := findConflict(x.root, t, nil); path != nil {
			return &ConflictError{path}
		}
	}
	mergeInto(x.root, t)
	x.invalidate(skipRelist)
	return nil
}

// AppendPath appends the single path through keys to leaf.
func (x *Index) AppendPath(keys []string, leaf Value, skipRelist bool) error {
	if len(keys) == 0 {
		return validationf("append", "empty path")
	}
	return x.Append(FromPath(keys, leaf), skipRelist)
}

// AppendIndex merges the tree of other into x. It fails if both
// indexes carry level names and they differ. other must not be used
// after a successful call.
func (x *Index) AppendIndex(other *Index, skipRelist bool) error {
	if x.levels.Names != nil && other.levels.Names != nil {
		if !slices.Equal(x.levels.Names, other.levels.Names) {
			return validationf("append", "indexes have different level names")
		}
	}
	if err := x.Append(other.root, skipRelist); err != nil {
		return err
	}
	other.root = nil
	other.keysValid = false
	return nil
}

// Remove deletes the leaves marked by pattern (see Subtract) and
// prunes any branches left empty.
//
// When removing many leaves, it is faster to collect them into one
// pattern tree and call Remove once.
func (x *Index) Remove(pattern Node, skipRelist bool) {
	Subtract(x.root, pattern)
	PruneAll(x.root)
	x.invalidate(skipRelist)
}

// RemovePath removes the leaf at the end of keys, if any.
func (x *Index) RemovePath(keys []string, skipRelist bool) {
	if len(keys) == 0 {
		return
	}
	x.Remove(FromPath(keys, nil), skipRelist)
}

func (x *Index) invalidate(skipRelist bool) {
	x.keysValid = false
	if !skipRelist {
		x.Relist()
	}
}

// Relist recomputes the key lists from the tree, in lexical order.
// Any order applied by SortKeys is discarded.
func (x *Index) Relist() {
	x.keys = listKeys(x.root)
	x.keysValid = true
}

// KeysValid reports whether the key lists describe the current tree.
func (x *Index) KeysValid() bool {
	return x.keysValid
}

// Keys returns a copy of the key lists of x, one list per level.
func (x *Index) Keys() ([][]string, error) {
	if !x.keysValid {
		return nil, ErrStaleKeys
	}
	out := make([][]string, len(x.keys))
	for i, list := range x.keys {
		out[i] = append([]string(nil), list...)
	}
	return out, nil
}

// Depth returns the depth of the deepest path in x. If
// requireUniform is true, it fails if any two paths differ in depth.
func (x *Index) Depth(requireUniform bool) (int, error) {
	depths := x.root.depths(0, nil)
	max := 0
	for _, d := range depths {
		if d > max {
			max = d
		}
	}
	if requireUniform {
		for _, d := range depths {
			if d != max {
				return 0, validationf("depth", "tree has non-uniform depth (%d and %d)", d, max)
			}
		}
	}
	return max, nil
}

// Lookup walks x using one key per level and returns the Node or leaf
// reached. ok is false if any key is absent at its level or the path
// ends at a null marker. This is distinct from a leaf that holds an
// empty payload.
func (x *Index) Lookup(keys []string) (v Value, ok bool, err error) {
	if !x.keysValid {
		return nil, false, ErrStaleKeys
	}
	if len(keys) > len(x.keys) {
		return nil, false, validationf("lookup", "path of length %d is deeper than the tree (%d)", len(keys), len(x.keys))
	}
	var cur Value = x.root
	for _, k := range keys {
		n, isNode := cur.(Node)
		if !isNode {
			return nil, false, nil
		}
		if cur, ok = n[k]; !ok {
			return nil, false, nil
		}
	}
	if isNull(cur) {
		return nil, false, nil
	}
	return cur, true, nil
}

// String returns an indented listing of the tree of x. Keys are
// listed in key-list order when the key lists are valid and lexical
// order otherwise.
func (x *Index) String() string {
	var kidx keyIndex
	if x.keysValid {
		kidx = newKeyIndex(x.keys)
	}
	buf := new(strings.Builder)
	var walk func(n Node, level int)
	walk = func(n Node, level int) {
		keys := n.SortedKeys()
		if kidx != nil {
			sort.SliceStable(keys, func(i, j int) bool {
				return kidx.find(level, keys[i]) < kidx.find(level, keys[j])
			})
		}
		indent := strings.Repeat("  ", level)
		for _, k := range keys {
			buf.WriteString(indent + k + ":\n")
			switch v := n[k].(type) {
			case Node:
				walk(v, level+1)
			case Payload:
				buf.WriteString(indent + "  " + string(v) + "\n")
			case Payloads:
				buf.WriteString(indent + "  [" + strings.Join(v, ", ") + "]\n")
			case nil:
				buf.WriteString(indent + "  <null>\n")
			}
		}
	}
	walk(x.root, 0)
	return buf.String()
}
