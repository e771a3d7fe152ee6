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

var diceOrder = []string{"rolls", "color"}

func diceRecords() []tagtree.Record {
	return []tagtree.Record{
		record("6-red.png", "rolls", "6", "color", "red"),
		record("6-blue.png", "rolls", "6", "color", "blue"),
		record("6-green.png", "rolls", "6", "color", "green"),
		record("36-red.png", "rolls", "36", "color", "red"),
		record("36-blue.png", "rolls", "36", "color", "blue"),
	}
}

func TestCombine(t *testing.T) {
	recs := diceRecords()
	src, err := tagtree.Build(recs, diceOrder, tagtree.Levels{})
	require.NoError(t, err)

	rules := Rules{
		"rolls": nil,
		"color": Rule{
			{Value: "red"},
			{Group: &Group{Name: "primary", Members: []string{"red", "blue", "green"}}},
			{Group: &Group{Name: "warm", Members: []string{"red"}}},
		},
	}
	check := func(requireAll bool, want tagtree.Node) {
		t.Helper()
		out, err := Combine(src, recs, diceOrder, rules, 1, requireAll)
		require.NoError(t, err)
		assert.True(t, tagtree.Equal(want, out.Root()), "got:\n%v", out)
		assert.True(t, out.KeysValid())
	}

	check(false, tagtree.Node{
		"6": tagtree.Node{
			"red":     tagtree.Payload("6-red.png"),
			"primary": tagtree.Payloads{"6-red.png", "6-blue.png", "6-green.png"},
			"warm":    tagtree.Payloads{"6-red.png"},
		},
		"36": tagtree.Node{
			"red":     tagtree.Payload("36-red.png"),
			"primary": tagtree.Payloads{"36-red.png", "36-blue.png"},
			"warm":    tagtree.Payloads{"36-red.png"},
		},
	})
	check(true, tagtree.Node{
		"6": tagtree.Node{
			"red":     tagtree.Payload("6-red.png"),
			"primary": tagtree.Payloads{"6-red.png", "6-blue.png", "6-green.png"},
			"warm":    tagtree.Payloads{"6-red.png"},
		},
		"36": tagtree.Node{
			"red":  tagtree.Payload("36-red.png"),
			"warm": tagtree.Payloads{"36-red.png"},
		},
	})

	out, err := Combine(src, recs, diceOrder, rules, 1, false)
	require.NoError(t, err)
	require.NoError(t, out.SortKeys([]tagtree.Strategy{tagtree.Numeric, tagtree.Priority(rules["color"].Order()...)}))
	keys, _ := out.Keys()
	assert.Equal(t, [][]string{{"6", "36"}, {"red", "primary", "warm"}}, keys)
}

func TestCombineErrors(t *testing.T) {
	recs := diceRecords()
	src, err := tagtree.Build(recs, diceOrder, tagtree.Levels{})
	require.NoError(t, err)

	clash := Rules{"color": Rule{{Group: &Group{Name: "blue", Members: []string{"red", "green"}}}}}
	_, err = Combine(src, recs, diceOrder, clash, 1, false)
	assert.ErrorIs(t, err, tagtree.ErrValidation)

	plain := Rules{"color": Rule{{Value: "red"}}}
	_, err = Combine(src, recs, diceOrder, plain, 1, false)
	assert.ErrorIs(t, err, tagtree.ErrValidation)

	_, err = Combine(src, recs, diceOrder, plain, 2, false)
	assert.ErrorIs(t, err, tagtree.ErrValidation)

	require.NoError(t, src.AppendPath([]string{"6", "white"}, tagtree.Payload("w"), true))
	groups := Rules{"color": Rule{{Group: &Group{Name: "all", Members: []string{"red", "white"}}}}}
	_, err = Combine(src, recs, diceOrder, groups, 1, false)
	assert.ErrorIs(t, err, tagtree.ErrStaleKeys)
}
