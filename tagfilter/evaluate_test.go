// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tagindex/tagtree"
)

func record(payload string, tags ...string) tagtree.Record {
	rec := tagtree.Record{Payload: payload, Tags: make(map[string]string)}
	for i := 0; i+1 < len(tags); i += 2 {
		rec.Tags[tags[i]] = tags[i+1]
	}
	return rec
}

func TestEvaluate(t *testing.T) {
	colors := Rules{
		"color": Rule{
			{Value: "red"},
			{Group: &Group{Name: "primary", Members: []string{"red", "blue", "green"}}},
		},
		"shape": nil,
	}
	check := func(rules Rules, rec tagtree.Record, want Result) {
		t.Helper()
		got, err := Evaluate(rec, rules, false)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%v", rec.Tags)
	}

	check(colors, record("r", "color", "red"), Result{Simple: true, Group: true, GroupFirst: true})
	check(colors, record("b", "color", "blue"), Result{Simple: false, Group: true, GroupFirst: false})
	check(colors, record("p", "color", "purple"), Result{})

	plain := Rules{"color": Rule{{Value: "red"}, {Value: "blue"}}}
	check(plain, record("r", "color", "red"), Result{Simple: true})
	check(plain, record("g", "color", "green"), Result{})
	check(Rules{}, record("x", "color", "green"), Result{Simple: true})

	// A failing plain rule fails the group too.
	both := Rules{
		"color": colors["color"],
		"size":  Rule{{Value: "big"}},
	}
	check(both, record("a", "color", "red", "size", "big"), Result{Simple: true, Group: true, GroupFirst: true})
	check(both, record("b", "color", "red", "size", "small"), Result{})
	check(both, record("c", "color", "green", "size", "big"), Result{Group: true})
}

func TestEvaluateMissingTag(t *testing.T) {
	rules := Rules{"color": Rule{{Value: "red"}}, "shape": nil}
	rec := record("x.png", "shape", "round")

	_, err := Evaluate(rec, rules, false)
	var merr *MissingTagError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "color", merr.Tag)
	assert.Equal(t, "x.png", merr.Payload)

	res, err := Evaluate(rec, rules, true)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	// A nil rule does not need the tag.
	res, err = Evaluate(record("y", "color", "red"), rules, false)
	require.NoError(t, err)
	assert.True(t, res.Simple)
}
