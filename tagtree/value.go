// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagtree

import "sort"

// A Value is an element stored under a key of a Node. It is one of
// Node, Payload, or Payloads.
//
// A nil Value stored in a Node is an explicit null marker. Prune
// removes null markers.
type Value interface {
	isValue()
}

// A Node is an internal tree vertex mapping keys to Values.
// Iteration order of a Node is not meaningful; ordered views come
// from the key lists of an Index.
type Node map[string]Value

// A Payload is a leaf holding a single payload reference, typically
// the relative path of an image.
type Payload string

// Payloads is a leaf holding an ordered sequence of payload
// references that are presented together. An empty Payloads is
// treated as a null marker.
type Payloads []string

func (Node) isValue()     {}
func (Payload) isValue()  {}
func (Payloads) isValue() {}

// IsLeaf reports whether v is a Payload or Payloads.
func IsLeaf(v Value) bool {
	switch v.(type) {
	case Payload, Payloads:
		return true
	}
	return false
}

// isNull reports whether v is a null marker.
func isNull(v Value) bool {
	switch v := v.(type) {
	case nil:
		return true
	case Payloads:
		return len(v) == 0
	case Node:
		return v == nil
	}
	return false
}

// SortedKeys returns the keys of n in lexical order.
func (n Node) SortedKeys() []string {
	keys := make([]string, 0, len(n))
	for k := range n {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	if n == nil {
		return nil
	}
	out := make(Node, len(n))
	for k, v := range n {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v Value) Value {
	switch v := v.(type) {
	case Node:
		return v.Clone()
	case Payloads:
		return append(Payloads(nil), v...)
	}
	return v
}

// Leaves returns the number of leaves reachable from n. Null markers
// are not counted.
func (n Node) Leaves() int {
	count := 0
	for _, v := range n {
		switch v := v.(type) {
		case Node:
			count += v.Leaves()
		case Payload:
			count++
		case Payloads:
			if len(v) > 0 {
				count++
			}
		}
	}
	return count
}

// depths appends the depth of every path below n to out. A path ends
// at a leaf, a null marker, or an empty Node.
func (n Node) depths(depth int, out []int) []int {
	if len(n) == 0 {
		return append(out, depth)
	}
	for _, v := range n {
		if sub, ok := v.(Node); ok {
			out = sub.depths(depth+1, out)
		} else {
			out = append(out, depth+1)
		}
	}
	return out
}

// Equal reports whether a and b hold the same structure and payloads.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case Payload:
		b, ok := b.(Payload)
		return ok && a == b
	case Payloads:
		b, ok := b.(Payloads)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case Node:
		b, ok := b.(Node)
		if !ok || len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// FromPath returns a single-path tree that leads through keys to
// leaf. It returns nil if keys is empty.
func FromPath(keys []string, leaf Value) Node {
	if len(keys) == 0 {
		return nil
	}
	var v Value = leaf
	for i := len(keys) - 1; i >= 0; i-- {
		v = Node{keys[i]: v}
	}
	return v.(Node)
}
