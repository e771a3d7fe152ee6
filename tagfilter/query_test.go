// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagfilter

import (
	"errors"
	"testing"
)

func TestQuery(t *testing.T) {
	recs := diceRecords()
	recs = append(recs, record("untagged.png"))

	check := func(query string, want ...string) {
		t.Helper()
		q, err := NewQuery(query)
		if err != nil {
			t.Errorf("%s: %v", query, err)
			return
		}
		var got []string
		for _, rec := range q.Filter(recs) {
			got = append(got, rec.Payload)
		}
		if len(got) != len(want) {
			t.Errorf("%s: got %v, want %v", query, got, want)
			return
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("%s: got %v, want %v", query, got, want)
				return
			}
		}
	}

	check("*", "6-red.png", "6-blue.png", "6-green.png", "36-red.png", "36-blue.png", "untagged.png")
	check("-*")
	check("color:red", "6-red.png", "36-red.png")
	check("color:red rolls:36", "36-red.png")
	check("color:(red OR green)", "6-red.png", "6-green.png", "36-red.png")
	check("rolls:6 -color:red", "6-blue.png", "6-green.png")
	check("-rolls:6", "36-red.png", "36-blue.png", "untagged.png")
	check("color:/^b/ OR rolls:/3/", "6-blue.png", "36-red.png", "36-blue.png")
	check(".payload:/^36-/", "36-red.png", "36-blue.png")
	check(`rolls:""`)
}

func TestQueryString(t *testing.T) {
	q, err := NewQuery("color:red rolls:(6 OR 36)")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := q.String(), "(color:red AND (rolls:6 OR rolls:36))"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	_, err = NewQuery("color:")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Errorf("want *SyntaxError, got %v", err)
	}
}
