// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens scratch record databases for tests.
package dbtest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"flag"
	"fmt"
	"testing"

	"golang.org/x/tagindex/storage/db"
	_ "golang.org/x/tagindex/storage/db/mysql"
	_ "golang.org/x/tagindex/storage/db/sqlite3"
)

var mysqlDSN = flag.String("mysql", "", "run database tests against a fresh database on the MySQL server at this `DSN` (for example root:@tcp(localhost:3306)/) instead of in-memory SQLite")

// createEmptyMySQLDB makes a new, empty database for the test.
func createEmptyMySQLDB(t *testing.T) (dsn string, cleanup func()) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		t.Fatal(err)
	}
	name := "tagindex_test_" + hex.EncodeToString(buf)

	conn, err := sql.Open("mysql", *mysqlDSN)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(fmt.Sprintf("CREATE DATABASE `%s`", name)); err != nil {
		conn.Close()
		t.Fatal(err)
	}
	t.Logf("Using database %q", name)

	return *mysqlDSN + name, func() {
		if _, err := conn.Exec(fmt.Sprintf("DROP DATABASE `%s`", name)); err != nil {
			t.Error(err)
		}
		conn.Close()
	}
}

// NewDB makes a connection to a testing database, either in-memory
// sqlite3 or MySQL depending on the -mysql flag. The database is
// closed when the test finishes.
func NewDB(t *testing.T) *db.DB {
	t.Helper()
	driverName, dataSourceName := "sqlite3", ":memory:"
	var dropDB func()
	if *mysqlDSN != "" {
		driverName = "mysql"
		dataSourceName, dropDB = createEmptyMySQLDB(t)
	}
	d, err := db.OpenSQL(driverName, dataSourceName)
	if err != nil {
		if dropDB != nil {
			dropDB()
		}
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
		if dropDB != nil {
			dropDB()
		}
	})

	// Make sure the database really is empty.
	n, err := d.CountRecords(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("found %d row(s) in Records, want 0", n)
	}
	return d
}
