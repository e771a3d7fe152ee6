// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagfilter

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// A Group is a named set of tag values that are presented together.
// The first member is the group's representative.
type Group struct {
	Name    string   `yaml:"group"`
	Members []string `yaml:"members"`
}

// An Entry is one element of a Rule: either a plain value or, if Group
// is non-nil, a Group.
type Entry struct {
	Value string
	Group *Group
}

// UnmarshalYAML accepts a scalar value or a mapping with "group" and
// "members" keys.
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*e = Entry{Value: value.Value}
		return nil
	case yaml.MappingNode:
		var g Group
		if err := value.Decode(&g); err != nil {
			return err
		}
		if err := g.check(); err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*e = Entry{Group: &g}
		return nil
	}
	return fmt.Errorf("line %d: rule entry must be a value or a group", value.Line)
}

func (g *Group) check() error {
	if g.Name == "" {
		return fmt.Errorf("group has no name")
	}
	if len(g.Members) == 0 {
		return fmt.Errorf("group %q has no members", g.Name)
	}
	return nil
}

// A Rule lists the values accepted for one tag, in presentation order.
// A nil Rule accepts every value.
type Rule []Entry

// Values returns the plain values of r.
func (r Rule) Values() []string {
	var out []string
	for _, e := range r {
		if e.Group == nil {
			out = append(out, e.Value)
		}
	}
	return out
}

// Groups returns the groups of r.
func (r Rule) Groups() []Group {
	var out []Group
	for _, e := range r {
		if e.Group != nil {
			out = append(out, *e.Group)
		}
	}
	return out
}

// Grouped reports whether r has at least one group.
func (r Rule) Grouped() bool {
	for _, e := range r {
		if e.Group != nil {
			return true
		}
	}
	return false
}

// Order returns the entries of r as keys, with each group replaced by
// its name. It is the natural priority order for a level that mixes
// single values and groups.
func (r Rule) Order() []string {
	out := make([]string, len(r))
	for i, e := range r {
		if e.Group != nil {
			out[i] = e.Group.Name
		} else {
			out[i] = e.Value
		}
	}
	return out
}

// An Optgroup is a labeled run of selector options.
type Optgroup struct {
	Label   string
	Options []string
}

// Optgroups returns the options of r for a grouped selector: the plain
// values under an empty label, followed by one Optgroup per group.
func (r Rule) Optgroups() []Optgroup {
	var out []Optgroup
	if vals := r.Values(); len(vals) > 0 {
		out = append(out, Optgroup{Options: vals})
	}
	for _, g := range r.Groups() {
		out = append(out, Optgroup{Label: g.Name, Options: append([]string(nil), g.Members...)})
	}
	return out
}

func (r Rule) accepts(value string) bool {
	for _, e := range r {
		if e.Group == nil && e.Value == value {
			return true
		}
	}
	return false
}

// ParseRule converts a generically decoded rule, such as one read by
// a configuration library, into a Rule. v may be nil (no filter) or a
// list whose items are strings or maps with "group" and "members".
func ParseRule(v any) (Rule, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("rule must be a list, not %T", v)
	}
	r := make(Rule, 0, len(items))
	for i, item := range items {
		switch item := item.(type) {
		case string:
			r = append(r, Entry{Value: item})
		case map[string]any:
			g, err := parseGroup(item)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			r = append(r, Entry{Group: g})
		default:
			r = append(r, Entry{Value: fmt.Sprint(item)})
		}
	}
	return r, nil
}

func parseGroup(m map[string]any) (*Group, error) {
	g := new(Group)
	name, ok := m["group"].(string)
	if !ok {
		return nil, fmt.Errorf("group has no name")
	}
	g.Name = name
	members, ok := m["members"].([]any)
	if !ok {
		return nil, fmt.Errorf("group %q: members must be a list", name)
	}
	for _, x := range members {
		g.Members = append(g.Members, fmt.Sprint(x))
	}
	if err := g.check(); err != nil {
		return nil, err
	}
	return g, nil
}

// Rules maps tag names to their Rules.
type Rules map[string]Rule

// ParseRules decodes a YAML document mapping tag names to rules.
func ParseRules(data []byte) (Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return rules, nil
}

// tags returns the tags of rs in lexical order.
func (rs Rules) tags() []string {
	tags := make([]string, 0, len(rs))
	for tag := range rs {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// GroupLookup returns the group named value in the rule for tag.
func (rs Rules) GroupLookup(tag, value string) (Group, bool) {
	for _, e := range rs[tag] {
		if e.Group != nil && e.Group.Name == value {
			return *e.Group, true
		}
	}
	return Group{}, false
}
