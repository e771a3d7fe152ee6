// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	assert.Empty(t, Diff("a\nb\n", "a\nb\n"))

	d := Diff("a\nb\n", "a\nc\n")
	assert.NotEmpty(t, d)
	if !strings.HasPrefix(d, "line") {
		assert.Contains(t, d, "-b")
		assert.Contains(t, d, "+c")
	}
}

func TestLines(t *testing.T) {
	assert.Equal(t, "line 2:\n-b\n+c\n", lines("a\nb\n", "a\nc\n"))
	assert.Equal(t, "line 3:\n-\n+x\n", lines("a\nb", "a\nb\nx"))
}
