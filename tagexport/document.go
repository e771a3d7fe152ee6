// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tagexport serializes an index for a browser-side selector.
//
// A Document flattens a tagtree.Index into its key lists and one
// vector per leaf, which is all a selector page needs to map the
// chosen key at each level back to a payload.
package tagexport

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"golang.org/x/tagindex/tagfilter"
	"golang.org/x/tagindex/tagtree"
)

// A Document is the serialized form of an Index.
type Document struct {
	Levels  []Level            `json:"levels"`
	Animate *tagtree.Animation `json:"animate,omitempty"`
	// Vectors holds one entry per leaf, sorted. Vectors[i] selects
	// Leaves[i].
	Vectors []tagtree.Vector `json:"vectors"`
	Leaves  []Leaf           `json:"leaves"`
}

// A Level describes one selector.
type Level struct {
	Name      string               `json:"name,omitempty"`
	Width     string               `json:"width,omitempty"`
	Keys      []string             `json:"keys"`
	Optgroups []tagfilter.Optgroup `json:"optgroups,omitempty"`
}

// A Leaf holds the payload references of one leaf. It encodes as a
// JSON string for a single tagtree.Payload and as an array for
// tagtree.Payloads.
type Leaf struct {
	Refs  []string
	Multi bool
}

func (l Leaf) MarshalJSON() ([]byte, error) {
	if !l.Multi && len(l.Refs) == 1 {
		return json.Marshal(l.Refs[0])
	}
	refs := l.Refs
	if refs == nil {
		refs = []string{}
	}
	return json.Marshal(refs)
}

func (l *Leaf) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Leaf{Refs: []string{s}}
		return nil
	}
	var refs []string
	if err := json.Unmarshal(data, &refs); err != nil {
		return fmt.Errorf("leaf must be a string or an array of strings: %w", err)
	}
	*l = Leaf{Refs: refs, Multi: true}
	return nil
}

func (l Leaf) value() tagtree.Value {
	if l.Multi {
		return tagtree.Payloads(append([]string(nil), l.Refs...))
	}
	return tagtree.Payload(l.Refs[0])
}

// NewDocument flattens x, which must have up to date key lists and
// uniform depth. If rules is non-nil, levels whose name has a grouped
// rule carry that rule's option groups.
func NewDocument(x *tagtree.Index, rules tagfilter.Rules) (*Document, error) {
	keys, vecs, err := x.BuildIndex(0)
	if err != nil {
		return nil, err
	}
	lv := x.Levels()
	doc := &Document{
		Levels:  make([]Level, len(keys)),
		Animate: lv.Animate,
		Vectors: vecs,
		Leaves:  make([]Leaf, len(vecs)),
	}
	for i := range doc.Levels {
		l := Level{Keys: keys[i]}
		if lv.Names != nil {
			l.Name = lv.Names[i]
			if r := rules[l.Name]; r.Grouped() {
				l.Optgroups = r.Optgroups()
			}
		}
		if lv.Widths != nil {
			l.Width = lv.Widths[i]
		}
		doc.Levels[i] = l
	}
	for i, v := range vecs {
		leaf, ok, err := x.Lookup(v.Path(keys))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("vector %v does not select a leaf", v)
		}
		switch leaf := leaf.(type) {
		case tagtree.Payload:
			doc.Leaves[i] = Leaf{Refs: []string{string(leaf)}}
		case tagtree.Payloads:
			doc.Leaves[i] = Leaf{Refs: append([]string(nil), leaf...), Multi: true}
		default:
			return nil, fmt.Errorf("vector %v selects a %T, not a leaf", v, leaf)
		}
	}
	return doc, nil
}

// Index rebuilds the Index that doc was made from, including the
// order of its key lists.
func (doc *Document) Index() (*tagtree.Index, error) {
	if len(doc.Vectors) != len(doc.Leaves) {
		return nil, fmt.Errorf("document has %d vectors but %d leaves", len(doc.Vectors), len(doc.Leaves))
	}
	keys := make([][]string, len(doc.Levels))
	for i, l := range doc.Levels {
		keys[i] = l.Keys
	}
	x, err := tagtree.New(nil, tagtree.Levels{})
	if err != nil {
		return nil, err
	}
	for i, v := range doc.Vectors {
		if len(v) != len(keys) {
			return nil, fmt.Errorf("vector %v has length %d, want %d", v, len(v), len(keys))
		}
		path := v.Path(keys)
		if len(path) != len(keys) {
			return nil, fmt.Errorf("vector %v is out of range", v)
		}
		leaf := doc.Leaves[i]
		if len(leaf.Refs) == 0 {
			return nil, fmt.Errorf("leaf %d is empty", i)
		}
		if err := x.AppendPath(path, leaf.value(), true); err != nil {
			return nil, err
		}
	}
	x.Relist()
	if len(doc.Vectors) == 0 {
		return x, nil
	}

	order := make([]tagtree.Strategy, len(keys))
	for i, k := range keys {
		order[i] = tagtree.Priority(k...)
	}
	if err := x.SortKeys(order); err != nil {
		return nil, err
	}
	lv := tagtree.Levels{Animate: doc.Animate}
	var named, sized int
	for _, l := range doc.Levels {
		lv.Names = append(lv.Names, l.Name)
		lv.Widths = append(lv.Widths, l.Width)
		if l.Name != "" {
			named++
		}
		if l.Width != "" {
			sized++
		}
	}
	if named == 0 {
		lv.Names = nil
	}
	if sized == 0 {
		lv.Widths = nil
	}
	if err := x.SetLevels(lv); err != nil {
		return nil, err
	}
	return x, nil
}
