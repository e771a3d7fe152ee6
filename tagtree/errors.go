// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagtree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is matched by errors.Is for every *ValidationError.
var ErrValidation = errors.New("validation error")

// ErrStaleKeys is returned by key-dependent operations when the tree
// was mutated with skipRelist set and Relist has not been called
// since.
var ErrStaleKeys = errors.New("key lists are stale; call Relist")

// A ValidationError reports invalid input to an Index operation, such
// as level metadata that does not match the tree depth.
type ValidationError struct {
	Op  string // Operation that failed, e.g. "new" or "sort"
	Msg string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tagtree: %s: %s", e.Op, e.Msg)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationf(op, format string, args ...interface{}) error {
	return &ValidationError{op, fmt.Sprintf(format, args...)}
}

// A ConsistencyError is returned by BuildIndex when a key is found in
// neither the expected level nor the level above it, or when a leaf
// is reached before its level is set. It indicates a malformed tree or
// key lists that do not describe the tree.
type ConsistencyError struct {
	Key   string
	Level int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("tagtree: key %q not found at level %d or the level below it", e.Key, e.Level)
}

// A ConflictError is returned by strict merges when both trees hold a
// value at the same key and at least one of them is a leaf.
type ConflictError struct {
	Path []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("tagtree: conflicting values at %s", strings.Join(e.Path, "/"))
}
