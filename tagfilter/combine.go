// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagfilter

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/tagindex/tagtree"
)

// Combine builds an index of recs in which the groups of the rule for
// order[level] appear as keys of that level alongside the single
// values. src must be an up to date index of the same records under
// the same order; the payloads of a group are looked up in it.
//
// Records that pass the plain filter are indexed as they are. Each
// group-first record adds one Payloads leaf under the group's name
// holding the payload of every member found in src. If requireAll is
// set, a group with any member missing from src is left out.
//
// A group named like a real key of src at level is an error, since
// selecting it would be ambiguous.
func Combine(src *tagtree.Index, recs []tagtree.Record, order []string, rules Rules, level int, requireAll bool) (*tagtree.Index, error) {
	if level < 0 || level >= len(order) {
		return nil, &tagtree.ValidationError{Op: "combine", Msg: fmt.Sprintf("level %d out of range of %d tags", level, len(order))}
	}
	tag := order[level]
	groups := rules[tag].Groups()
	if len(groups) == 0 {
		return nil, &tagtree.ValidationError{Op: "combine", Msg: fmt.Sprintf("rule for %q has no groups", tag)}
	}
	srcKeys, err := src.Keys()
	if err != nil {
		return nil, err
	}
	if level < len(srcKeys) {
		for _, g := range groups {
			if slices.Contains(srcKeys[level], g.Name) {
				return nil, &tagtree.ValidationError{Op: "combine", Msg: fmt.Sprintf("group %q has the same name as a value of %q", g.Name, tag)}
			}
		}
	}

	out := src.EmptyLike()
	added := make(map[string]bool)
	for _, rec := range recs {
		res, err := Evaluate(rec, rules, true)
		if err != nil {
			return nil, err
		}
		if res.Simple {
			if path, ok := tagtree.PathFromRecord(rec, order, nil); ok {
				if err := out.Append(path, true); err != nil {
					return nil, err
				}
			}
		}
		if !res.GroupFirst || !tagtree.HasTags(rec, order) {
			continue
		}

		keys := make([]string, len(order))
		for i, t := range order {
			keys[i] = rec.Tags[t]
		}
		for _, g := range groups {
			if g.Members[0] != rec.Tags[tag] {
				continue
			}
			keys[level] = g.Name
			id := strings.Join(keys, "\x00")
			if added[id] {
				continue
			}
			added[id] = true

			leaf, complete, err := gather(src, keys, level, g.Members)
			if err != nil {
				return nil, err
			}
			if len(leaf) == 0 || (requireAll && !complete) {
				continue
			}
			if err := out.AppendPath(slices.Clone(keys), leaf, true); err != nil {
				return nil, err
			}
		}
	}
	out.Relist()
	return out, nil
}

// gather looks up the payload of each member at keys[level] in src.
func gather(src *tagtree.Index, keys []string, level int, members []string) (leaf tagtree.Payloads, complete bool, err error) {
	path := slices.Clone(keys)
	complete = true
	for _, m := range members {
		path[level] = m
		v, ok, err := src.Lookup(path)
		if err != nil {
			return nil, false, err
		}
		switch v := v.(type) {
		case tagtree.Payload:
			leaf = append(leaf, string(v))
		case tagtree.Payloads:
			leaf = append(leaf, v...)
		default:
			ok = false
		}
		if !ok {
			complete = false
		}
	}
	return leaf, complete, nil
}
