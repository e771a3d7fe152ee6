// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff reports line differences between rendered trees and
// documents in tests.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Diff returns a unified diff of want and got, or "" if they are equal.
// It falls back to a line-by-line comparison when no diff command is
// installed.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	cmd := "diff"
	if runtime.GOOS == "plan9" {
		cmd = "/bin/ape/diff"
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return lines(want, got)
	}

	dir, err := os.MkdirTemp("", "tagindex_diff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(dir)
	wantFile, gotFile := dir+"/want", dir+"/got"
	if err := os.WriteFile(wantFile, []byte(want), 0o644); err != nil {
		return err.Error()
	}
	if err := os.WriteFile(gotFile, []byte(got), 0o644); err != nil {
		return err.Error()
	}

	data, err := exec.Command(cmd, "-u", wantFile, gotFile).CombinedOutput()
	if len(data) > 0 {
		// diff exits non-zero when the inputs differ.
		err = nil
	}
	if err != nil {
		data = append(data, err.Error()...)
	}
	return string(data)
}

// lines reports the first differing line of want and got.
func lines(want, got string) string {
	w := strings.Split(want, "\n")
	g := strings.Split(got, "\n")
	for i, n := 0, max(len(w), len(g)); i < n; i++ {
		var wl, gl string
		if i < len(w) {
			wl = w[i]
		}
		if i < len(g) {
			gl = g[i]
		}
		if wl != gl {
			return fmt.Sprintf("line %d:\n-%s\n+%s\n", i+1, wl, gl)
		}
	}
	return fmt.Sprintf("want %q\ngot  %q", want, got)
}
