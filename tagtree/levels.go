// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagtree

import (
	"regexp"
	"sort"
	"strconv"
)

// A unitPattern recognizes one spelling of a quantity. The first
// submatch is the number, which is multiplied by scale.
type unitPattern struct {
	re    *regexp.Regexp
	scale float64
}

func unit(expr string, scale float64) unitPattern {
	return unitPattern{regexp.MustCompile(expr), scale}
}

// A numericPass is one category of the domain-numeric order.
type numericPass struct {
	name     string
	patterns []unitPattern
	// descending is the direction of this pass under Numeric.
	// ReverseNumeric flips it.
	descending bool
}

// surfaceKeys are pulled to the front before any pass runs.
var surfaceKeys = []string{"Surface"}

const numPrefix = `^([0-9.eE+-]+)\s*`

// numericPasses are applied in order. Each pass removes the keys it
// matches from the pool, so a key that would match several categories
// is placed by the earliest one.
var numericPasses = []numericPass{
	{
		name: "length",
		patterns: []unitPattern{
			unit(numPrefix+`m$`, 1),
			unit(numPrefix+`mm$`, 1e-3),
			unit(numPrefix+`microns$`, 1e-6),
			unit(numPrefix+`(?:µm|um)$`, 1e-6),
			unit(numPrefix+`nm$`, 1e-9),
			unit(numPrefix+`km$`, 1e3),
		},
	},
	{
		// Pressure decreases with altitude.
		name: "pressure",
		patterns: []unitPattern{
			unit(numPrefix+`Pa$`, 1),
			unit(numPrefix+`mb$`, 100),
			unit(numPrefix+`mbar$`, 100),
			unit(numPrefix+`hPa$`, 100),
		},
		descending: true,
	},
	{
		name: "model level",
		patterns: []unitPattern{
			unit(`^[Mm]odel level ([0-9]+)`, 1),
			unit(`^[Mm]odel lev ([0-9]+)`, 1),
			unit(`^(?:ML|ml)([0-9]+)`, 1),
		},
	},
	{
		name: "coordinate",
		patterns: []unitPattern{
			unit(`^([0-9.]+)E[,\s]*[0-9.]+[NS]`, 1),
			unit(`^([0-9.]+)W[,\s]*[0-9.]+[NS]`, -1),
		},
	},
	{
		name: "number",
		patterns: []unitPattern{
			unit(`^([+-]?[0-9.]+[Ee]?[-+]?[0-9]*)`, 1),
		},
	},
}

// match returns the scaled value of key under the first pattern of p
// that matches it.
func (p *numericPass) match(key string) (v float64, ok bool, err error) {
	for _, u := range p.patterns {
		m := u.re.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false, validationf("sort", "%s key %q: malformed number %q", p.name, key, m[1])
		}
		return f * u.scale, true, nil
	}
	return 0, false, nil
}

// sortNumeric implements the Numeric and ReverseNumeric strategies.
func sortNumeric(keys []string, reverse bool) ([]string, error) {
	out := make([]string, 0, len(keys))
	pool := append([]string(nil), keys...)

	for _, s := range surfaceKeys {
		for i, k := range pool {
			if k == s {
				out = append(out, k)
				pool = append(pool[:i], pool[i+1:]...)
				break
			}
		}
	}

	type valued struct {
		key string
		v   float64
	}
	for i := range numericPasses {
		pass := &numericPasses[i]
		var matched []valued
		rest := pool[:0:0]
		for _, k := range pool {
			v, ok, err := pass.match(k)
			if err != nil {
				return nil, err
			}
			if ok {
				matched = append(matched, valued{k, v})
			} else {
				rest = append(rest, k)
			}
		}
		desc := pass.descending != reverse
		sort.SliceStable(matched, func(i, j int) bool {
			if desc {
				return matched[i].v > matched[j].v
			}
			return matched[i].v < matched[j].v
		})
		for _, m := range matched {
			out = append(out, m.key)
		}
		pool = rest
	}

	sort.Strings(pool)
	return append(out, pool...), nil
}
