// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mysql registers the mysql driver for
// golang.org/x/tagindex/storage/db and classifies its lock errors as
// retryable.
package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"golang.org/x/tagindex/storage/db"
)

// Server error numbers for a lock wait timeout and a deadlock.
const (
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

func init() {
	db.RegisterRetryable("mysql", IsBusy)
}

// IsBusy reports whether err is a lock wait timeout or a deadlock,
// after which the transaction can be retried.
func IsBusy(err error) bool {
	var merr *mysql.MySQLError
	if !errors.As(err, &merr) {
		return false
	}
	return merr.Number == errLockWaitTimeout || merr.Number == errDeadlock
}
