// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// A SyntaxError reports a malformed query.
type SyntaxError struct {
	Query string
	Off   int // Byte offset of the error in Query
	Msg   string
}

func (e *SyntaxError) Error() string {
	col := utf8.RuneCountInString(e.Query[:min(e.Off, len(e.Query))])
	return fmt.Sprintf("syntax error at column %d: %s\n\t%s\n\t%*s^", col+1, e.Msg, e.Query, col, "")
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokWord
	tokRegexp
	tokAnd
	tokOr
	tokNot
	tokAll
	tokColon
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	off  int
	text string // Unquoted word, or regexp source
	re   *regexp.Regexp
}

// isPunct reports whether r always ends a bare word.
func isPunct(r rune) bool {
	return r == '(' || r == ')' || r == ':'
}

// isPrefixPunct reports whether r is an operator at the start of a
// word. Inside a word it is literal, so "T-6" is one word.
func isPrefixPunct(r rune) bool {
	return r == '-' || r == '*'
}

// A scanner splits a query into tokens. The first error is recorded in
// err and every later token is EOF.
type scanner struct {
	src string
	pos int
	err *SyntaxError
}

func (s *scanner) fail(off int, format string, args ...any) {
	if s.err == nil {
		s.err = &SyntaxError{s.src, off, fmt.Sprintf(format, args...)}
	}
	s.pos = len(s.src)
}

// peek returns the next token without consuming it.
func (s *scanner) peek(value bool) token {
	pos, err := s.pos, s.err
	t := s.next(value)
	s.pos, s.err = pos, err
	return t
}

// next consumes the next token. If value is set, a token starting with
// "/" is scanned as a regexp.
func (s *scanner) next(value bool) token {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		s.pos += size
	}
	if s.err != nil || s.pos == len(s.src) {
		return token{kind: tokEOF, off: len(s.src)}
	}

	start := s.pos
	switch c := s.src[start]; {
	case c == '(':
		s.pos++
		return token{kind: tokLParen, off: start, text: "("}
	case c == ')':
		s.pos++
		return token{kind: tokRParen, off: start, text: ")"}
	case c == ':':
		s.pos++
		return token{kind: tokColon, off: start, text: ":"}
	case c == '-':
		s.pos++
		return token{kind: tokNot, off: start, text: "-"}
	case c == '*':
		s.pos++
		return token{kind: tokAll, off: start, text: "*"}
	case c == '"':
		return s.quoted()
	case c == '/' && value:
		return s.regexp()
	}
	return s.word()
}

func (s *scanner) word() token {
	start := s.pos
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if unicode.IsSpace(r) || isPunct(r) {
			break
		}
		s.pos += size
	}
	text := s.src[start:s.pos]
	switch text {
	case "AND":
		return token{kind: tokAnd, off: start, text: text}
	case "OR":
		return token{kind: tokOr, off: start, text: text}
	}
	return token{kind: tokWord, off: start, text: text}
}

func (s *scanner) quoted() token {
	start := s.pos
	i := start + 1
	for ; i < len(s.src); i++ {
		if s.src[i] == '\\' {
			i++
			continue
		}
		if s.src[i] == '"' {
			break
		}
	}
	if i >= len(s.src) {
		s.fail(start, "missing end quote")
		return token{kind: tokEOF, off: len(s.src)}
	}
	text, err := strconv.Unquote(s.src[start : i+1])
	if err != nil {
		s.fail(start, "bad escape sequence")
		return token{kind: tokEOF, off: len(s.src)}
	}
	s.pos = i + 1
	return token{kind: tokWord, off: start, text: text}
}

// regexp scans a /-delimited regexp. A "/" inside a character class
// or after a backslash does not end it.
func (s *scanner) regexp() token {
	start := s.pos
	inClass := false
	i := start + 1
	for ; i < len(s.src); i++ {
		switch s.src[i] {
		case '\\':
			i++
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		}
		if s.src[i] == '/' && !inClass {
			break
		}
	}
	if i >= len(s.src) {
		s.fail(start, "missing close \"/\"")
		return token{kind: tokEOF, off: len(s.src)}
	}
	expr := s.src[start+1 : i]
	re, err := regexp.Compile(expr)
	if err != nil {
		s.fail(start, "%s", err)
		return token{kind: tokEOF, off: len(s.src)}
	}
	s.pos = i + 1
	if s.pos < len(s.src) {
		r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
		if !unicode.IsSpace(r) && r != ')' {
			s.fail(s.pos, "regexp must be followed by space or \")\"")
			return token{kind: tokEOF, off: len(s.src)}
		}
	}
	return token{kind: tokRegexp, off: start, text: expr, re: re}
}
