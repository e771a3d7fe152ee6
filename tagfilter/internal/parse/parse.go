// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

// Parse parses a query.
//
// The grammar is
//
//	expr  = and { "OR" and }
//	and   = unary { ["AND"] unary }
//	unary = "-" unary | "*" | "(" expr ")" | match
//	match = word ":" value | word ":" "(" value { "OR" value } ")"
//	value = word | quoted | "/" regexp "/"
func Parse(query string) (Expr, error) {
	p := &parser{s: scanner{src: query}}
	e := p.expr()
	if t := p.s.next(false); t.kind != tokEOF {
		p.s.fail(t.off, "unexpected %q", t.text)
	}
	if p.s.err != nil {
		return nil, p.s.err
	}
	return e, nil
}

type parser struct {
	s scanner
}

func (p *parser) expr() Expr {
	terms := []Expr{p.and()}
	for p.s.peek(false).kind == tokOr {
		p.s.next(false)
		terms = append(terms, p.and())
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return &Op{Or, terms}
}

func (p *parser) and() Expr {
	terms := []Expr{p.unary()}
	for {
		switch t := p.s.peek(false); t.kind {
		case tokAnd:
			p.s.next(false)
			terms = append(terms, p.unary())
			continue
		case tokWord, tokNot, tokAll, tokLParen:
			terms = append(terms, p.unary())
			continue
		}
		break
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return &Op{And, terms}
}

func (p *parser) unary() Expr {
	t := p.s.next(false)
	switch t.kind {
	case tokNot:
		return &Op{Not, []Expr{p.unary()}}
	case tokAll:
		return &Op{Kind: And}
	case tokLParen:
		e := p.expr()
		if c := p.s.next(false); c.kind != tokRParen {
			p.s.fail(c.off, "missing \")\"")
		}
		return e
	case tokWord:
		return p.match(t)
	case tokEOF:
		p.s.fail(t.off, "expected tag:value or subexpression")
	default:
		p.s.fail(t.off, "unexpected %q", t.text)
	}
	return &Op{Kind: Or}
}

func (p *parser) match(tag token) Expr {
	if c := p.s.next(false); c.kind != tokColon {
		p.s.fail(tag.off, "expected tag:value")
		return &Op{Kind: Or}
	}
	v := p.s.next(true)
	switch v.kind {
	case tokWord, tokRegexp:
		return mkMatch(tag, v)
	case tokLParen:
	default:
		p.s.fail(v.off, "expected value after %q", tag.text+":")
		return &Op{Kind: Or}
	}

	// A parenthesized list of alternatives.
	var alts []Expr
	for {
		v := p.s.next(true)
		if v.kind != tokWord && v.kind != tokRegexp {
			p.s.fail(v.off, "expected value")
			return &Op{Kind: Or}
		}
		alts = append(alts, mkMatch(tag, v))
		switch sep := p.s.next(true); sep.kind {
		case tokRParen:
			if len(alts) == 1 {
				return alts[0]
			}
			return &Op{Or, alts}
		case tokOr:
		default:
			p.s.fail(sep.off, "values must be separated by OR")
			return &Op{Kind: Or}
		}
	}
}

func mkMatch(tag, v token) *Match {
	if v.kind == tokRegexp {
		return &Match{Tag: tag.text, Regexp: v.re, Off: tag.off}
	}
	return &Match{Tag: tag.text, Lit: v.text, Off: tag.off}
}
