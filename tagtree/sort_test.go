// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagtree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortKeyList(t *testing.T) {
	check := func(s Strategy, in []string, want ...string) {
		t.Helper()
		orig := append([]string(nil), in...)
		got, err := SortKeyList(in, s)
		require.NoError(t, err, "strategy %s", s)
		if len(want) == 0 {
			assert.Empty(t, got, "strategy %s", s)
		} else {
			assert.Equal(t, want, got, "strategy %s", s)
		}
		assert.Equal(t, orig, in, "strategy %s modified its input", s)
	}

	words := []string{"aaa", "zaa", "aba", "257", "bob"}
	check(Plain, words, "257", "aaa", "aba", "bob", "zaa")
	check(Strategy{}, words, "257", "aaa", "aba", "bob", "zaa")
	check(ReversePlain, words, "zaa", "bob", "aba", "aaa", "257")
	check(Priority("aaa", "zaa"), words, "aaa", "zaa", "257", "aba", "bob")
	// Absent values are skipped and repeats ignored.
	check(Priority("nope", "bob", "bob", "aaa"), words, "bob", "aaa", "257", "aba", "zaa")
	check(Priority(), words, "257", "aaa", "aba", "bob", "zaa")

	check(LeadTime, []string{"T+0", "T+1", "t+10", "T+2", "t-3", "T+None"},
		"t-3", "T+0", "T+1", "T+2", "t+10", "T+None")
	check(LeadTime, []string{"T+0", "T+1", "t+10", "T+2", "t-3", "T+None", "t-None", "None"},
		"t-3", "T+0", "T+1", "T+2", "t+10", "None", "T+None", "t-None")
	check(ReverseLeadTime, []string{"T+0", "T+1", "t+10", "T+2", "t-3", "T+None", "None"},
		"T+None", "None", "t+10", "T+2", "T+1", "T+0", "t-3")
	// Zero is a lead time, not a missing one.
	check(LeadTime, []string{"analysis", "T+0", "T-0.5"}, "T-0.5", "T+0", "analysis")
	check(LeadTime, []string{"T12", "T3"}, "T3", "T12")
	check(LeadTime, nil)

	levels := []string{"10m", "50m", "4mm", "62 hPa", "2m", "16 km", "Model level 7",
		"Surface", "12mb", "341.434646", "Eastern England", "3.344E, 16.7N",
		"2.344E, 18.7N", "16.0 nm"}
	check(Numeric, levels,
		"Surface", "16.0 nm", "4mm", "2m", "10m", "50m", "16 km", "62 hPa", "12mb",
		"Model level 7", "2.344E, 18.7N", "3.344E, 16.7N", "341.434646", "Eastern England")
	check(ReverseNumeric, levels,
		"Surface", "16 km", "50m", "10m", "2m", "4mm", "16.0 nm", "12mb", "62 hPa",
		"Model level 7", "3.344E, 16.7N", "2.344E, 18.7N", "341.434646", "Eastern England")
	check(Numeric, []string{"ML12", "model level 3", "Model lev 5", "1.5W, 2N", "0.5E 2N"},
		"model level 3", "Model lev 5", "ML12", "1.5W, 2N", "0.5E 2N")
	check(Numeric, []string{"850 mbar", "1000hPa", "5 µm", "20 um", "3 microns"},
		"3 microns", "5 µm", "20 um", "1000hPa", "850 mbar")
	check(Numeric, []string{"Cross section", "Zonal mean"}, "Cross section", "Zonal mean")
}

func TestSortNumericMalformed(t *testing.T) {
	_, err := SortKeyList([]string{"1.2.3"}, Numeric)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sort", verr.Op)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseStrategy(t *testing.T) {
	for name, want := range map[string]Strategy{
		"sort":            Plain,
		"alphabetical":    Plain,
		"reverse sort":    ReversePlain,
		"reverse_sort":    ReversePlain,
		"T+":              LeadTime,
		"reverse T+":      ReverseLeadTime,
		"reversed_T+":     ReverseLeadTime,
		"level":           Numeric,
		"numeric":         Numeric,
		"reverse_level":   ReverseNumeric,
		"reverse_numeric": ReverseNumeric,
	} {
		got, err := ParseStrategy(name)
		if assert.NoError(t, err, name) {
			assert.Equal(t, want.String(), got.String(), name)
		}
	}

	_, err := ParseStrategy("shuffle")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSortKeys(t *testing.T) {
	x, err := New(Node{
		"T+12": Node{"850hPa": Payload("a"), "Surface": Payload("b")},
		"T+6":  Node{"500hPa": Payload("c")},
	}, Levels{})
	require.NoError(t, err)

	err = x.SortKeys([]Strategy{LeadTime})
	assert.ErrorIs(t, err, ErrValidation, "too few strategies")

	require.NoError(t, x.SortKeys([]Strategy{LeadTime, Numeric}))
	keys, err := x.Keys()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"T+6", "T+12"}, {"Surface", "850hPa", "500hPa"}}, keys)

	// Relist restores the lexical order.
	x.Relist()
	keys, _ = x.Keys()
	assert.Equal(t, [][]string{{"T+12", "T+6"}, {"500hPa", "850hPa", "Surface"}}, keys)

	require.NoError(t, x.AppendPath([]string{"T+0", "Surface"}, Payload("d"), true))
	err = x.SortKeys([]Strategy{LeadTime, Numeric})
	assert.True(t, errors.Is(err, ErrStaleKeys))
}
