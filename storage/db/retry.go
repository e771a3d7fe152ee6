// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// A RetryPolicy controls how operations that fail because the
// database is busy are retried. The wait between attempts starts at
// Delay and doubles up to MaxDelay.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultRetryPolicy tolerates another writer holding the database
// for a few minutes.
var DefaultRetryPolicy = RetryPolicy{
	Attempts: 20,
	Delay:    50 * time.Millisecond,
	MaxDelay: 6 * time.Second,
}

var retryable = make(map[string]func(error) bool)

// RegisterRetryable registers a function that reports whether an
// error returned by driverName means the database is temporarily
// busy. It must be called from an init function.
func RegisterRetryable(driverName string, busy func(error) bool) {
	retryable[driverName] = busy
}

// A RetryError is returned when every attempt of an operation found
// the database busy.
type RetryError struct {
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("database busy after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error { return e.Err }

// do calls f until it succeeds, fails with an error that is not a
// busy error for driver, or the attempts are exhausted.
func (p RetryPolicy) do(ctx context.Context, log logr.Logger, driver string, f func() error) error {
	busy := retryable[driver]
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil || busy == nil || !busy(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		log.V(1).Info("database busy, retrying", "attempt", i+1, "delay", delay, "err", err.Error())
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return &RetryError{Attempts: attempts, Err: err}
}
