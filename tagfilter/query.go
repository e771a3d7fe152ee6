// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagfilter

import (
	"fmt"

	"golang.org/x/tagindex/tagfilter/internal/parse"
	"golang.org/x/tagindex/tagtree"
)

// A SyntaxError reports a malformed query.
type SyntaxError = parse.SyntaxError

// PayloadTag is the pseudo-tag that matches a record's payload
// reference.
const PayloadTag = ".payload"

// A Query selects records by their tags.
type Query struct {
	expr  parse.Expr
	match func(rec tagtree.Record) bool
}

// NewQuery parses a boolean query such as
//
//	field:Temperature lead:(T+0 OR T+6) -level:/hPa$/
//
// A term tag:value matches records whose tag equals value; the value
// may be quoted, or a /regexp/ that must match somewhere in the tag
// value. A record without the tag matches no term on it. Terms are
// combined with AND (the default between adjacent terms), OR, "-" for
// negation, and parentheses. "*" matches every record.
func NewQuery(query string) (*Query, error) {
	e, err := parse.Parse(query)
	if err != nil {
		return nil, err
	}
	return &Query{e, compile(e)}, nil
}

// Match reports whether rec satisfies q.
func (q *Query) Match(rec tagtree.Record) bool {
	return q.match(rec)
}

// String returns q in a normalized form.
func (q *Query) String() string {
	return q.expr.String()
}

// Filter returns the records of recs that satisfy q.
func (q *Query) Filter(recs []tagtree.Record) []tagtree.Record {
	var out []tagtree.Record
	for _, rec := range recs {
		if q.match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func compile(e parse.Expr) func(tagtree.Record) bool {
	switch e := e.(type) {
	case *parse.Match:
		if e.Tag == PayloadTag {
			return func(rec tagtree.Record) bool {
				return e.Test(rec.Payload)
			}
		}
		return func(rec tagtree.Record) bool {
			v, ok := rec.Tags[e.Tag]
			return ok && e.Test(v)
		}

	case *parse.Op:
		args := make([]func(tagtree.Record) bool, len(e.Args))
		for i, a := range e.Args {
			args[i] = compile(a)
		}
		switch e.Kind {
		case parse.Not:
			arg := args[0]
			return func(rec tagtree.Record) bool { return !arg(rec) }
		case parse.And:
			return func(rec tagtree.Record) bool {
				for _, arg := range args {
					if !arg(rec) {
						return false
					}
				}
				return true
			}
		case parse.Or:
			return func(rec tagtree.Record) bool {
				for _, arg := range args {
					if arg(rec) {
						return true
					}
				}
				return false
			}
		}
	}
	panic(fmt.Sprintf("unknown query node %T", e))
}
