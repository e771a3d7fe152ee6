// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parse implements the record query syntax.
package parse

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// An Expr is a node of a parsed query. It is either a *Match or an
// *Op.
type Expr interface {
	isExpr()
	String() string
}

// A Match tests one tag of a record.
type Match struct {
	Tag string
	// Regexp, if non-nil, must match the tag value. Otherwise the
	// value must equal Lit.
	Regexp *regexp.Regexp
	Lit    string
	Off    int // Byte offset of Tag in the query
}

func (m *Match) isExpr() {}

func (m *Match) String() string {
	if m.Regexp != nil {
		return quote(m.Tag) + ":/" + m.Regexp.String() + "/"
	}
	return quote(m.Tag) + ":" + quote(m.Lit)
}

// Test reports whether value satisfies m.
func (m *Match) Test(value string) bool {
	if m.Regexp != nil {
		return m.Regexp.MatchString(value)
	}
	return value == m.Lit
}

// OpKind is the kind of a boolean operator.
type OpKind int

const (
	And OpKind = iota + 1
	Or
	Not
)

// An Op combines sub-expressions. A Not has exactly one argument. An
// And with no arguments matches everything and an Or with none
// matches nothing.
type Op struct {
	Kind OpKind
	Args []Expr
}

func (o *Op) isExpr() {}

func (o *Op) String() string {
	if o.Kind == Not {
		return "-" + o.Args[0].String()
	}
	if len(o.Args) == 0 {
		if o.Kind == And {
			return "*"
		}
		return "-*"
	}
	sep := " AND "
	if o.Kind == Or {
		sep = " OR "
	}
	parts := make([]string, len(o.Args))
	for i, a := range o.Args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// quote returns s, quoted if it would not scan back as one word.
func quote(s string) string {
	if s == "" || s == "AND" || s == "OR" {
		return strconv.Quote(s)
	}
	for i, r := range s {
		if r == '"' || unicode.IsSpace(r) || !unicode.IsPrint(r) || isPunct(r) || (i == 0 && isPrefixPunct(r)) {
			return strconv.Quote(s)
		}
	}
	return s
}
