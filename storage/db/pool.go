// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"sort"
	"sync"
)

// A StringPool interns strings so that records read from a large
// database share storage for repeated tag names and values. The zero
// value is ready to use, and a nil *StringPool interns nothing.
type StringPool struct {
	mu sync.Mutex
	m  map[string]string
}

// Intern returns a string equal to s, shared with every earlier call
// that passed an equal string.
func (p *StringPool) Intern(s string) string {
	if p == nil {
		return s
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.m[s]; ok {
		return v
	}
	if p.m == nil {
		p.m = make(map[string]string)
	}
	p.m[s] = s
	return s
}

// Len returns the number of distinct strings in p.
func (p *StringPool) Len() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
