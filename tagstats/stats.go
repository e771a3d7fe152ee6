// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tagstats summarizes the shape of an index: how many keys
// each level has, how widely each level fans out, and where the
// leaves are concentrated.
package tagstats

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-moremath/stats"
	"golang.org/x/tagindex/tagtree"
)

// A Summary describes a set of counts.
type Summary struct {
	N                    int
	Min, Max             float64
	Mean, StdDev, Median float64
}

func summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	sort.Float64s(xs)
	s := stats.Sample{Xs: xs, Sorted: true}
	lo, hi := s.Bounds()
	sum := Summary{
		N:      len(xs),
		Min:    lo,
		Max:    hi,
		Mean:   s.Mean(),
		Median: s.Quantile(0.5),
	}
	if len(xs) > 1 {
		sum.StdDev = s.StdDev()
	}
	return sum
}

func (s Summary) String() string {
	if s.N == 0 {
		return "-"
	}
	return fmt.Sprintf("%.4g ±%.2g (%g–%g)", s.Mean, s.StdDev, s.Min, s.Max)
}

// A Level describes one level of an index.
type Level struct {
	Name string
	// Keys is the number of distinct keys at this level.
	Keys int
	// Fanout summarizes the number of children of each Node at this
	// level.
	Fanout Summary
	// Heaviest is the key with the most leaves below it, and
	// HeaviestLeaves that number.
	Heaviest       string
	HeaviestLeaves int
}

// Stats describes an index.
type Stats struct {
	Leaves  int
	Depth   int
	Uniform bool
	Levels  []Level
	// Payloads summarizes the number of references per leaf.
	Payloads Summary
}

// Compute returns statistics for x. The key lists of x must be up to
// date.
func Compute(x *tagtree.Index) (*Stats, error) {
	keys, err := x.Keys()
	if err != nil {
		return nil, err
	}
	depth, err := x.Depth(false)
	if err != nil {
		return nil, err
	}
	_, uerr := x.Depth(true)

	st := &Stats{
		Leaves:  x.Len(),
		Depth:   depth,
		Uniform: uerr == nil,
		Levels:  make([]Level, len(keys)),
	}
	names := x.Levels().Names

	fanout := make([][]float64, len(keys))
	weight := make([]map[string]int, len(keys))
	for i := range weight {
		weight[i] = make(map[string]int)
	}
	var perLeaf []float64
	var walk func(n tagtree.Node, level int)
	walk = func(n tagtree.Node, level int) {
		fanout[level] = append(fanout[level], float64(len(n)))
		for k, v := range n {
			switch v := v.(type) {
			case tagtree.Node:
				weight[level][k] += v.Leaves()
				if len(v) > 0 {
					walk(v, level+1)
				}
			case tagtree.Payload:
				weight[level][k]++
				perLeaf = append(perLeaf, 1)
			case tagtree.Payloads:
				if len(v) > 0 {
					weight[level][k]++
					perLeaf = append(perLeaf, float64(len(v)))
				}
			}
		}
	}
	if len(x.Root()) > 0 {
		walk(x.Root(), 0)
	}

	for level, list := range keys {
		l := Level{
			Name:   fmt.Sprintf("level %d", level),
			Keys:   len(list),
			Fanout: summarize(fanout[level]),
		}
		if level < len(names) {
			l.Name = names[level]
		}
		if len(list) > 0 {
			counts := make([]int, len(list))
			for i, k := range list {
				counts[i] = weight[level][k]
			}
			i := slice.ArgMax(counts)
			l.Heaviest, l.HeaviestLeaves = list[i], counts[i]
		}
		st.Levels[level] = l
	}
	st.Payloads = summarize(perLeaf)
	return st, nil
}

// Balance returns the ratio of the mean fanout of level to its
// maximum, in (0, 1]. A level whose Nodes all have the same number of
// children has balance 1. It returns NaN for a level with no Nodes.
func (s *Stats) Balance(level int) float64 {
	if level < 0 || level >= len(s.Levels) {
		return math.NaN()
	}
	f := s.Levels[level].Fanout
	if f.N == 0 || f.Max == 0 {
		return math.NaN()
	}
	return f.Mean / f.Max
}
