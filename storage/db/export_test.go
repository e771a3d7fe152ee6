// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"context"
	"database/sql"

	"github.com/go-logr/logr"
)

func DBSQL(db *DB) *sql.DB {
	return db.sql
}

func Retry(ctx context.Context, p RetryPolicy, driver string, f func() error) error {
	return p.do(ctx, logr.Discard(), driver, f)
}
