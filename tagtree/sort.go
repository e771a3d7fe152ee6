// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagtree

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
)

// A Strategy orders the key list of one level.
//
// The zero Strategy is Plain.
type Strategy struct {
	name     string
	priority []string
	sort     func(keys []string) ([]string, error)
}

// String returns the name of s as accepted by ParseStrategy, or a
// description of a priority list.
func (s Strategy) String() string {
	if s.sort == nil {
		return "sort"
	}
	if s.priority != nil {
		return fmt.Sprintf("priority%q", s.priority)
	}
	return s.name
}

// apply returns keys reordered by s. It does not modify keys.
func (s Strategy) apply(keys []string) ([]string, error) {
	if s.sort == nil {
		return Plain.apply(keys)
	}
	return s.sort(keys)
}

var (
	// Plain sorts keys lexically.
	Plain = Strategy{name: "sort", sort: func(keys []string) ([]string, error) {
		out := append([]string(nil), keys...)
		sort.Strings(out)
		return out, nil
	}}

	// ReversePlain sorts keys in reverse lexical order.
	ReversePlain = Strategy{name: "reverse_sort", sort: func(keys []string) ([]string, error) {
		out := append([]string(nil), keys...)
		sort.Sort(sort.Reverse(sort.StringSlice(out)))
		return out, nil
	}}

	// LeadTime sorts forecast lead times such as "T+3" or "t-1" by
	// their signed value. Keys without a lead time, including ones
	// marked "None", follow in lexical order.
	LeadTime = Strategy{name: "T+", sort: func(keys []string) ([]string, error) {
		return sortLeadTime(keys, false), nil
	}}

	// ReverseLeadTime is the exact reverse of LeadTime: keys without
	// a lead time come first, then lead times in descending order.
	ReverseLeadTime = Strategy{name: "reverse_T+", sort: func(keys []string) ([]string, error) {
		return sortLeadTime(keys, true), nil
	}}

	// Numeric sorts vertical levels and other quantities: "Surface"
	// first, then lengths ascending, pressures descending, model
	// levels, coordinates, and plain numbers ascending. Anything else
	// follows in lexical order.
	Numeric = Strategy{name: "numeric", sort: func(keys []string) ([]string, error) {
		return sortNumeric(keys, false)
	}}

	// ReverseNumeric is Numeric with the direction of every category
	// flipped. "Surface" stays first and unrecognized keys stay
	// lexical.
	ReverseNumeric = Strategy{name: "reverse_numeric", sort: func(keys []string) ([]string, error) {
		return sortNumeric(keys, true)
	}}
)

// Priority returns a Strategy that places the given values first, in
// the given order, followed by all other keys in lexical order. Values
// that do not occur at the level are skipped.
func Priority(values ...string) Strategy {
	values = slice.Nub(append([]string{}, values...)).([]string)
	return Strategy{
		name:     "priority",
		priority: values,
		sort: func(keys []string) ([]string, error) {
			present := make(map[string]bool, len(keys))
			for _, k := range keys {
				present[k] = true
			}
			out := make([]string, 0, len(keys))
			for _, v := range values {
				if present[v] {
					out = append(out, v)
					delete(present, v)
				}
			}
			rest := make([]string, 0, len(present))
			for _, k := range keys {
				if present[k] {
					rest = append(rest, k)
				}
			}
			sort.Strings(rest)
			return append(out, rest...), nil
		},
	}
}

// builtinStrategies maps every accepted spelling to its Strategy.
var builtinStrategies = map[string]Strategy{
	"sort":            Plain,
	"alphabetical":    Plain,
	"reverse sort":    ReversePlain,
	"reverse_sort":    ReversePlain,
	"T+":              LeadTime,
	"reverse T+":      ReverseLeadTime,
	"reversed_T+":     ReverseLeadTime,
	"reverse_T+":      ReverseLeadTime,
	"level":           Numeric,
	"numeric":         Numeric,
	"reverse_level":   ReverseNumeric,
	"reverse_numeric": ReverseNumeric,
}

// ParseStrategy returns the named built-in Strategy.
func ParseStrategy(name string) (Strategy, error) {
	if s, ok := builtinStrategies[name]; ok {
		return s, nil
	}
	return Strategy{}, validationf("sort", "unknown sort strategy %q", name)
}

// SortKeyList returns keys reordered by s. It does not modify keys.
func SortKeyList(keys []string, s Strategy) ([]string, error) {
	return s.apply(keys)
}

// SortKeys reorders the key list of each level by the corresponding
// strategy. It fails if the number of strategies differs from the
// number of levels. On error, the key lists are left unchanged.
func (x *Index) SortKeys(strategies []Strategy) error {
	if !x.keysValid {
		return ErrStaleKeys
	}
	if len(strategies) != len(x.keys) {
		return validationf("sort", "%d strategies for %d levels", len(strategies), len(x.keys))
	}
	sorted := make([][]string, len(x.keys))
	for level, s := range strategies {
		out, err := s.apply(x.keys[level])
		if err != nil {
			return fmt.Errorf("level %d: %w", level, err)
		}
		sorted[level] = out
	}
	x.keys = sorted
	return nil
}

var leadTimeRe = regexp.MustCompile(`^[tT]([-+]?[0-9.]+)`)

// parseLeadTime returns the signed lead time of key.
func parseLeadTime(key string) (float64, bool) {
	if strings.Contains(key, "None") {
		return 0, false
	}
	m := leadTimeRe.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func sortLeadTime(keys []string, reverse bool) []string {
	type leadTime struct {
		key string
		v   float64
	}
	var timed []leadTime
	var other []string
	for _, k := range keys {
		if v, ok := parseLeadTime(k); ok {
			timed = append(timed, leadTime{k, v})
		} else {
			other = append(other, k)
		}
	}
	sort.Slice(timed, func(i, j int) bool {
		if timed[i].v != timed[j].v {
			return timed[i].v < timed[j].v
		}
		return timed[i].key < timed[j].key
	})
	sort.Strings(other)

	out := make([]string, 0, len(keys))
	for _, t := range timed {
		out = append(out, t.key)
	}
	out = append(out, other...)
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
