// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/tagindex/tagexport"
	"golang.org/x/tagindex/tagstats"
)

// maxShownKeys bounds the keys listed per level by the keys command.
const maxShownKeys = 12

func (a *app) keysCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show the sorted key lists of the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, err := a.buildIndex(cmd.Context())
			if err != nil {
				return err
			}
			keys, err := idx.Keys()
			if err != nil {
				return err
			}
			names := idx.Levels().Names

			tw := table.NewWriter()
			tw.SetOutputMirror(a.out)
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Level", "Name", "Count", "Keys"})
			for i, ks := range keys {
				name := ""
				if i < len(names) {
					name = names[i]
				}
				shown := ks
				if !all && len(shown) > maxShownKeys {
					shown = append(shown[:maxShownKeys:maxShownKeys], "…")
				}
				tw.AppendRow(table.Row{i, name, len(ks), strings.Join(shown, " ")})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every key instead of the first few")
	return cmd
}

func (a *app) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the shape of the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, err := a.buildIndex(cmd.Context())
			if err != nil {
				return err
			}
			st, err := tagstats.Compute(idx.Index)
			if err != nil {
				return err
			}
			shape := "uniform"
			if !st.Uniform {
				shape = "ragged"
			}
			a.printf("%s records, %s leaves, depth %d (%s)\n",
				humanize.Comma(int64(idx.records)), humanize.Comma(int64(st.Leaves)), st.Depth, shape)
			a.printf("payloads per leaf: %s\n", st.Payloads)

			tw := table.NewWriter()
			tw.SetOutputMirror(a.out)
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Level", "Name", "Keys", "Fanout", "Heaviest", "Leaves", "Balance"})
			for i, l := range st.Levels {
				balance := "-"
				if b := st.Balance(i); !math.IsNaN(b) {
					balance = fmt.Sprintf("%.2f", b)
				}
				tw.AppendRow(table.Row{i, l.Name, l.Keys, l.Fanout, l.Heaviest, l.HeaviestLeaves, balance})
			}
			tw.Render()
			return nil
		},
	}
}

func (a *app) buildCommand() *cobra.Command {
	var outDir, htmlName string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the index document and a selector page",
		Long: `Build writes the index as a JSON document, compressed as configured,
and a static HTML page with one selector per level that loads it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, err := a.buildIndex(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := tagexport.NewDocument(idx.Index, idx.rules)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			c := a.cfg.Compression()
			dataName := "index.json" + c.Ext()
			dataPath := filepath.Join(outDir, dataName)
			if err := tagexport.WriteFile(dataPath, doc, c); err != nil {
				return err
			}

			title := a.cfg.Export.Title
			if title == "" {
				title = strings.Join(a.cfg.Build.Order, " / ")
			}
			var page bytes.Buffer
			err = tagexport.WritePage(&page, tagexport.PageData{
				Title:       title,
				DataFile:    dataName,
				Compression: c,
				Doc:         doc,
				Preview:     a.cfg.Export.Preview,
			})
			if err != nil {
				return err
			}
			htmlPath := filepath.Join(outDir, htmlName)
			if err := os.WriteFile(htmlPath, page.Bytes(), 0o644); err != nil {
				return err
			}

			fi, err := os.Stat(dataPath)
			if err != nil {
				return err
			}
			a.printf("%s: %s leaves, %s\n", dataPath, humanize.Comma(int64(idx.Len())), humanize.Bytes(uint64(fi.Size())))
			a.printf("%s: %s\n", htmlPath, humanize.Bytes(uint64(page.Len())))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "write into `dir`")
	cmd.Flags().StringVar(&htmlName, "html", "index.html", "name of the selector page")
	return cmd
}
