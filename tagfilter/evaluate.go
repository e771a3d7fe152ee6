// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagfilter

import (
	"fmt"

	"golang.org/x/tagindex/tagtree"
)

// A Result is the outcome of evaluating a record against Rules.
type Result struct {
	// Simple is set if every tag's value is one of its rule's plain
	// values.
	Simple bool

	// Group is set if the rules have at least one group, the record
	// passes every ungrouped rule, and for every grouped rule its
	// value is a member of one of the groups.
	Group bool

	// GroupFirst is set if Group is set and, for every grouped rule,
	// the value is the representative of one of the groups. Combined
	// presentations are built only from such records, so each group
	// is assembled once.
	GroupFirst bool
}

// A MissingTagError reports that a record lacks a tag that a rule
// filters on.
type MissingTagError struct {
	Payload string
	Tag     string
}

func (e *MissingTagError) Error() string {
	return fmt.Sprintf("record %s has no tag %q", e.Payload, e.Tag)
}

// Evaluate tests rec against rules.
//
// If rec lacks a tag that has a non-nil rule, Evaluate returns a
// *MissingTagError, or, if permissive is set, a Result with every
// field false.
func Evaluate(rec tagtree.Record, rules Rules, permissive bool) (Result, error) {
	simple := true
	grouped := false
	passes, first := true, true

	for _, tag := range rules.tags() {
		rule := rules[tag]
		if rule == nil {
			continue
		}
		value, ok := rec.Tags[tag]
		if !ok {
			if permissive {
				return Result{}, nil
			}
			return Result{}, &MissingTagError{rec.Payload, tag}
		}

		if !rule.Grouped() {
			if !rule.accepts(value) {
				simple = false
				passes, first = false, false
			}
			continue
		}

		grouped = true
		inGroup, isFirst := false, false
		for _, g := range rule.Groups() {
			for _, m := range g.Members {
				if m == value {
					inGroup = true
					break
				}
			}
			if len(g.Members) > 0 && g.Members[0] == value {
				isFirst = true
			}
		}
		if !inGroup {
			passes, first = false, false
		} else if !isFirst {
			first = false
		}
		if !rule.accepts(value) {
			simple = false
		}
	}

	if !grouped {
		return Result{Simple: simple}, nil
	}
	return Result{Simple: simple, Group: passes, GroupFirst: first}, nil
}
