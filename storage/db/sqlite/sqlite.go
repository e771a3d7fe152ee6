// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite provides the pure Go "sqlite" driver for
// golang.org/x/tagindex/storage/db, for builds without cgo. Like
// package sqlite3, it must be imported instead of the driver itself
// so that foreign keys are honored.
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/tagindex/storage/db"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

func init() {
	sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, _ string) error {
		_, err := conn.ExecContext(context.Background(), "PRAGMA foreign_keys = ON;", nil)
		return err
	})
	db.RegisterOpenHook("sqlite", func(db *sql.DB) error {
		db.SetMaxOpenConns(1)
		return nil
	})
	db.RegisterRetryable("sqlite", IsBusy)
}

// IsBusy reports whether err means another connection holds a lock
// on the database.
func IsBusy(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	// Extended result codes keep the primary code in the low byte.
	switch serr.Code() & 0xff {
	case sqlitelib.SQLITE_BUSY, sqlitelib.SQLITE_LOCKED:
		return true
	}
	return false
}
