// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/tagindex/storage/db"
	"golang.org/x/tagindex/tagfilter"
	"golang.org/x/tagindex/tagtree"
	"gopkg.in/yaml.v3"
)

func (a *app) putCommand() *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "put payload tag=value...",
		Short: "Store a record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := tagtree.Record{Payload: args[0], Tags: make(map[string]string)}
			for _, arg := range args[1:] {
				tag, value, ok := strings.Cut(arg, "=")
				if !ok || tag == "" {
					return fmt.Errorf("malformed tag %q; want tag=value", arg)
				}
				rec.Tags[tag] = value
			}
			d, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer d.Close()
			ok, err := d.WriteRecord(cmd.Context(), rec, replace)
			if err != nil {
				return err
			}
			if !ok {
				a.warnf("%s is already stored; use -replace to overwrite it", rec.Payload)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the tags of an existing record")
	return cmd
}

// fileRecord is a record as written in an import file.
type fileRecord struct {
	Payload string            `json:"payload" yaml:"payload"`
	Tags    map[string]string `json:"tags" yaml:"tags"`
}

// readRecordFile reads records from a JSON-lines file or a YAML file
// holding a list of records or a stream of record documents.
func readRecordFile(path string) ([]tagtree.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var frs []fileRecord
	switch ext := filepath.Ext(path); ext {
	case ".json", ".jsonl":
		dec := json.NewDecoder(bufio.NewReader(f))
		for {
			var fr fileRecord
			if err := dec.Decode(&fr); err == io.EOF {
				break
			} else if err != nil {
				return nil, fmt.Errorf("%s: record %d: %w", path, len(frs)+1, err)
			}
			frs = append(frs, fr)
		}
	case ".yaml", ".yml":
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		for {
			var node yaml.Node
			if err := dec.Decode(&node); errors.Is(err, io.EOF) {
				break
			} else if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			var batch []fileRecord
			if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
				err = node.Decode(&batch)
			} else {
				var fr fileRecord
				err = node.Decode(&fr)
				batch = []fileRecord{fr}
			}
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			frs = append(frs, batch...)
		}
	default:
		return nil, fmt.Errorf("%s: unknown record file type %q", path, ext)
	}

	recs := make([]tagtree.Record, len(frs))
	for i, fr := range frs {
		if fr.Payload == "" {
			return nil, fmt.Errorf("%s: record %d has no payload", path, i+1)
		}
		if fr.Tags == nil {
			fr.Tags = make(map[string]string)
		}
		recs[i] = tagtree.Record{Payload: fr.Payload, Tags: fr.Tags}
	}
	return recs, nil
}

func (a *app) importCommand() *cobra.Command {
	var replace bool
	var fromDB string
	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Store records from files or another database",
		Long: `Import stores the records in each file. A .json or .jsonl file holds one
{"payload": ..., "tags": {...}} object per line. A .yaml file holds a list
of such records or one record per document.

With -from-db, import copies every record of another database of the
configured driver.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			written, total := 0, 0
			for _, path := range args {
				recs, err := readRecordFile(path)
				if err != nil {
					return err
				}
				for _, rec := range recs {
					ok, err := d.WriteRecord(ctx, rec, replace)
					if err != nil {
						return fmt.Errorf("%s: %w", rec.Payload, err)
					}
					if ok {
						written++
					}
				}
				total += len(recs)
			}
			if fromDB != "" {
				other, err := db.OpenSQL(a.cfg.Database.Driver, fromDB)
				if err != nil {
					return err
				}
				defer other.Close()
				n, err := other.CountRecords(ctx)
				if err != nil {
					return err
				}
				m, err := d.Merge(ctx, other, replace)
				if err != nil {
					return err
				}
				written += m
				total += n
			}
			a.printf("stored %s of %s records\n", humanize.Comma(int64(written)), humanize.Comma(int64(total)))
			if skipped := total - written; skipped > 0 && !replace {
				a.warnf("%s records were already stored", humanize.Comma(int64(skipped)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the tags of existing records")
	cmd.Flags().StringVar(&fromDB, "from-db", "", "also import every record of the database at `dsn`")
	return cmd
}

func (a *app) rmCommand() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "rm [payload...]",
		Short: "Delete records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			payloads := args
			if query != "" {
				q, err := tagfilter.NewQuery(query)
				if err != nil {
					return err
				}
				recs, err := a.readRecords(ctx)
				if err != nil {
					return err
				}
				for _, rec := range q.Filter(recs) {
					payloads = append(payloads, rec.Payload)
				}
			}
			if len(payloads) == 0 {
				return nil
			}
			d, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer d.Close()
			n, err := d.Delete(ctx, payloads...)
			if err != nil {
				return err
			}
			a.printf("deleted %s records\n", humanize.Comma(n))
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "also delete the records matching `query`")
	return cmd
}

func (a *app) queryCommand() *cobra.Command {
	var showTags bool
	cmd := &cobra.Command{
		Use:   "query query",
		Short: "List the records matching a query",
		Long: `Query lists the payloads of the records matching a query such as

	model:global lead:(T+0 OR T+6) -level:/hPa$/

Adjacent terms must all match; OR, "-" and parentheses combine them.
A value may be quoted or given as a /regexp/. The pseudo-tag .payload
matches the payload itself, and "*" matches every record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := tagfilter.NewQuery(args[0])
			if err != nil {
				return err
			}
			recs, err := a.readRecords(cmd.Context())
			if err != nil {
				return err
			}
			matched := q.Filter(recs)
			if !showTags {
				for _, rec := range matched {
					a.printf("%s\n", rec.Payload)
				}
				return nil
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(a.out)
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Payload", "Tags"})
			for _, rec := range matched {
				names := make([]string, 0, len(rec.Tags))
				for name := range rec.Tags {
					names = append(names, name)
				}
				sort.Strings(names)
				for i, name := range names {
					names[i] = name + "=" + rec.Tags[name]
				}
				tw.AppendRow(table.Row{rec.Payload, strings.Join(names, " ")})
			}
			tw.AppendFooter(table.Row{fmt.Sprintf("%s of %s", humanize.Comma(int64(len(matched))), humanize.Comma(int64(len(recs))))})
			tw.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTags, "tags", false, "show a table of tags")
	return cmd
}
