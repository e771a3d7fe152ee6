// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for
// golang.org/x/tagindex/storage/db. It must be imported instead of go-sqlite3
// to ensure foreign keys are properly honored.
package sqlite3

import (
	"database/sql"
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"
	"golang.org/x/tagindex/storage/db"
)

func init() {
	db.RegisterOpenHook("sqlite3", func(db *sql.DB) error {
		db.Driver().(*sqlite3.SQLiteDriver).ConnectHook = func(c *sqlite3.SQLiteConn) error {
			_, err := c.Exec("PRAGMA foreign_keys = ON;", nil)
			return err
		}
		// A second connection in the same process would only
		// contend for the file lock with the first.
		db.SetMaxOpenConns(1)
		return nil
	})
	db.RegisterRetryable("sqlite3", IsBusy)
}

// IsBusy reports whether err means another connection holds a lock
// on the database.
func IsBusy(err error) bool {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
}
