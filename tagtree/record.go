// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagtree

// A Record is the flat metadata of one item: a payload reference and
// its tags.
type Record struct {
	Payload string
	Tags    map[string]string
}

// HasTags reports whether rec carries every tag in required.
func HasTags(rec Record, required []string) bool {
	for _, tag := range required {
		if _, ok := rec.Tags[tag]; !ok {
			return false
		}
	}
	return true
}

// PathFromRecord returns the single-path tree that places leaf under
// rec's values for the tags in order. If leaf is nil, the record's
// Payload is used.
//
// It returns false if rec lacks any tag in order, or if order is
// empty.
func PathFromRecord(rec Record, order []string, leaf Value) (Node, bool) {
	if len(order) == 0 || !HasTags(rec, order) {
		return nil, false
	}
	if leaf == nil {
		leaf = Payload(rec.Payload)
	}
	keys := make([]string, len(order))
	for i, tag := range order {
		keys[i] = rec.Tags[tag]
	}
	return FromPath(keys, leaf), true
}
