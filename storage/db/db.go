// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db stores tagged payload records in a SQL database.
//
// Each record is a payload reference and a set of tag name/value
// pairs. The database is the persistent source from which indexes are
// built, and it may be written by many processes at once; writes that
// fail because the database is busy are retried.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"

	"github.com/go-logr/logr"
	"golang.org/x/tagindex/tagtree"
)

// DB is a high-level interface to a record database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql    *sql.DB
	driver string
	retry  RetryPolicy
	log    logr.Logger

	// prepared statements
	selectID     *sql.Stmt
	insertRecord *sql.Stmt
	insertTag    *sql.Stmt
	deleteTags   *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql, sqlite and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db, driver: driverName, retry: DefaultRetryPolicy, log: logr.Discard()}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// SetRetryPolicy sets the policy for retrying busy writes. It must
// be called before db is used.
func (db *DB) SetRetryPolicy(p RetryPolicy) {
	db.retry = p
}

// SetLogger sets the logger that reports retried operations. It must
// be called before db is used.
func (db *DB) SetLogger(l logr.Logger) {
	if l.GetSink() == nil {
		l = logr.Discard()
	}
	db.log = l
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the SQL dialect.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Records (
	RecordID {{if .sqlite}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Payload VARCHAR(700) NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS RecordTags (
	RecordID BIGINT UNSIGNED,
	Name VARCHAR(255),
	Value VARCHAR(8192),
	PRIMARY KEY (RecordID, Name),
{{if not .sqlite}}
	Index (Name(100), Value(100)),
{{end}}
	FOREIGN KEY (RecordID) REFERENCES Records(RecordID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite}}
CREATE INDEX IF NOT EXISTS RecordTagsNameValue ON RecordTags(Name, Value);
{{end}}
`))

// dialect returns the SQL dialect spoken through driverName.
func dialect(driverName string) string {
	switch driverName {
	case "sqlite3", "sqlite":
		return "sqlite"
	}
	return driverName
}

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{dialect(driverName): true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	prepare := func(q string) *sql.Stmt {
		if err != nil {
			return nil
		}
		var st *sql.Stmt
		st, err = db.sql.Prepare(q)
		return st
	}
	db.selectID = prepare("SELECT RecordID FROM Records WHERE Payload = ?")
	db.insertRecord = prepare("INSERT INTO Records(Payload) VALUES (?)")
	db.insertTag = prepare("INSERT INTO RecordTags(RecordID, Name, Value) VALUES (?, ?, ?)")
	db.deleteTags = prepare("DELETE FROM RecordTags WHERE RecordID = ?")
	return err
}

// inTx runs f in a transaction, retrying the whole transaction if it
// fails because the database is busy.
func (db *DB) inTx(ctx context.Context, op string, f func(tx *sql.Tx) error) error {
	return db.retry.do(ctx, db.log.WithValues("op", op), db.driver, func() (err error) {
		tx, err := db.sql.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				tx.Rollback()
			} else {
				err = tx.Commit()
			}
		}()
		return f(tx)
	})
}

// WriteRecord stores rec. If a record with the same payload exists,
// WriteRecord replaces its tags if replace is set and otherwise
// leaves it unchanged. It reports whether rec was written.
func (db *DB) WriteRecord(ctx context.Context, rec tagtree.Record, replace bool) (written bool, err error) {
	if rec.Payload == "" {
		return false, fmt.Errorf("record has no payload")
	}
	err = db.inTx(ctx, "write", func(tx *sql.Tx) error {
		written, err = writeRecord(ctx, tx, db, rec, replace)
		return err
	})
	return written, err
}

func writeRecord(ctx context.Context, tx *sql.Tx, db *DB, rec tagtree.Record, replace bool) (bool, error) {
	var id int64
	switch err := tx.StmtContext(ctx, db.selectID).QueryRowContext(ctx, rec.Payload).Scan(&id); err {
	case nil:
		if !replace {
			return false, nil
		}
		if _, err := tx.StmtContext(ctx, db.deleteTags).ExecContext(ctx, id); err != nil {
			return false, err
		}
	case sql.ErrNoRows:
		res, err := tx.StmtContext(ctx, db.insertRecord).ExecContext(ctx, rec.Payload)
		if err != nil {
			return false, err
		}
		if id, err = res.LastInsertId(); err != nil {
			return false, err
		}
	default:
		return false, err
	}
	insert := tx.StmtContext(ctx, db.insertTag)
	for _, name := range sortedNames(rec.Tags) {
		if _, err := insert.ExecContext(ctx, id, name, rec.Tags[name]); err != nil {
			return false, err
		}
	}
	return true, nil
}

// ReadOptions controls Read.
type ReadOptions struct {
	// RequiredTags, if non-nil, restricts each returned record to
	// these tags. Read fails if a record lacks any of them.
	RequiredTags []string

	// Pool, if non-nil, interns every tag value read.
	Pool *StringPool
}

// Read returns every record in db. The payloads are returned in
// insertion order, along with a map from payload to record.
func (db *DB) Read(ctx context.Context, opts ReadOptions) ([]string, map[string]tagtree.Record, error) {
	var payloads []string
	var recs map[string]tagtree.Record
	err := db.retry.do(ctx, db.log.WithValues("op", "read"), db.driver, func() error {
		var err error
		payloads, recs, err = db.load(ctx, "", nil, opts.Pool)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	if opts.RequiredTags != nil {
		for _, p := range payloads {
			rec := recs[p]
			if !tagtree.HasTags(rec, opts.RequiredTags) {
				return nil, nil, &MissingTagsError{Payload: p, Required: opts.RequiredTags}
			}
			tags := make(map[string]string, len(opts.RequiredTags))
			for _, name := range opts.RequiredTags {
				tags[name] = rec.Tags[name]
			}
			recs[p] = tagtree.Record{Payload: p, Tags: tags}
		}
	}
	return payloads, recs, nil
}

// A MissingTagsError reports a stored record that lacks a tag
// required by Read.
type MissingTagsError struct {
	Payload  string
	Required []string
}

func (e *MissingTagsError) Error() string {
	return fmt.Sprintf("record %q does not have all of the required tags %q", e.Payload, e.Required)
}

// load reads the records selected by the SQL condition where, which
// refers to the Records table as r.
func (db *DB) load(ctx context.Context, where string, args []interface{}, pool *StringPool) ([]string, map[string]tagtree.Record, error) {
	q := "SELECT r.Payload, t.Name, t.Value FROM Records r LEFT JOIN RecordTags t ON t.RecordID = r.RecordID"
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY r.RecordID"
	rows, err := db.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var payloads []string
	recs := make(map[string]tagtree.Record)
	for rows.Next() {
		var payload string
		var name, value sql.NullString
		if err := rows.Scan(&payload, &name, &value); err != nil {
			return nil, nil, err
		}
		rec, ok := recs[payload]
		if !ok {
			rec = tagtree.Record{Payload: payload, Tags: make(map[string]string)}
			recs[payload] = rec
			payloads = append(payloads, payload)
		}
		if name.Valid {
			rec.Tags[pool.Intern(name.String)] = pool.Intern(value.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return payloads, recs, nil
}

// SelectByTags returns the records whose tag name has one of the
// values in sel[name], for every name in sel. An empty sel selects
// every record.
func (db *DB) SelectByTags(ctx context.Context, sel map[string][]string) ([]string, map[string]tagtree.Record, error) {
	var conds []string
	var args []interface{}
	for _, name := range sortedNames(sel) {
		values := sel[name]
		if len(values) == 0 {
			return nil, map[string]tagtree.Record{}, nil
		}
		conds = append(conds, "EXISTS (SELECT 1 FROM RecordTags s WHERE s.RecordID = r.RecordID AND s.Name = ? AND s.Value IN ("+placeholders(len(values))+"))")
		args = append(args, name)
		for _, v := range values {
			args = append(args, v)
		}
	}
	var payloads []string
	var recs map[string]tagtree.Record
	err := db.retry.do(ctx, db.log.WithValues("op", "select"), db.driver, func() error {
		var err error
		payloads, recs, err = db.load(ctx, strings.Join(conds, " AND "), args, nil)
		return err
	})
	return payloads, recs, err
}

// deleteChunk is the number of payloads deleted per statement.
const deleteChunk = 100

// Delete removes the records for payloads and returns the number of
// records removed. Payloads that are not stored are ignored.
func (db *DB) Delete(ctx context.Context, payloads ...string) (int64, error) {
	var total int64
	err := db.inTx(ctx, "delete", func(tx *sql.Tx) error {
		total = 0
		// A retry reruns this from the first chunk.
		rest := payloads
		for len(rest) > 0 {
			chunk := rest[:min(deleteChunk, len(rest))]
			args := make([]interface{}, len(chunk))
			for i, p := range chunk {
				args[i] = p
			}
			// Tags go first so that engines without cascading
			// deletes stay consistent.
			in := placeholders(len(chunk))
			if _, err := tx.ExecContext(ctx, "DELETE FROM RecordTags WHERE RecordID IN (SELECT RecordID FROM Records WHERE Payload IN ("+in+"))", args...); err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, "DELETE FROM Records WHERE Payload IN ("+in+")", args...)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			total += n
			rest = rest[len(chunk):]
		}
		return nil
	})
	return total, err
}

// CountRecords returns the number of records in the database.
func (db *DB) CountRecords(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Records").Scan(&n)
	return n, err
}

// Merge copies every record of other into db in a single
// transaction. Existing records are replaced if replace is set. It
// returns the number of records written.
func (db *DB) Merge(ctx context.Context, other *DB, replace bool) (int, error) {
	payloads, recs, err := other.Read(ctx, ReadOptions{})
	if err != nil {
		return 0, fmt.Errorf("reading source: %w", err)
	}
	var n int
	err = db.inTx(ctx, "merge", func(tx *sql.Tx) error {
		n = 0
		for _, p := range payloads {
			ok, err := writeRecord(ctx, tx, db, recs[p], replace)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			if ok {
				n++
			}
		}
		return nil
	})
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, st := range []*sql.Stmt{db.selectID, db.insertRecord, db.insertTag, db.deleteTags} {
		if err := st.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
