// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/tagindex/internal/config"
	"golang.org/x/tagindex/internal/logger"
	"golang.org/x/tagindex/internal/metrics"
	"golang.org/x/tagindex/storage/db"
	_ "golang.org/x/tagindex/storage/db/mysql"
	_ "golang.org/x/tagindex/storage/db/sqlite"
	_ "golang.org/x/tagindex/storage/db/sqlite3"
	"golang.org/x/tagindex/tagfilter"
	"golang.org/x/tagindex/tagtree"
)

// app holds the state shared by all commands.
type app struct {
	configPath  string
	verbosity   int
	metricsFile string

	cfg *config.Config
	out io.Writer
	err io.Writer

	// newLogger returns the base logger for the given verbosity.
	newLogger func(verbosity int) logr.Logger
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out: out,
		err: errOut,
		newLogger: func(verbosity int) logr.Logger {
			return *logger.Get(verbosity)
		},
	}
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	return newApp(out, errOut).rootCommand()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "imtree",
		Short:         "Index tagged images for browsing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.err)

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "read settings from `file` instead of .imtree.yaml")
	f.CountVarP(&a.verbosity, "verbose", "v", "log progress; repeat for more detail")
	f.StringVar(&a.metricsFile, "metrics-file", "", "write build metrics to `file` in Prometheus text format")

	root.AddCommand(
		a.putCommand(),
		a.importCommand(),
		a.rmCommand(),
		a.queryCommand(),
		a.keysCommand(),
		a.statsCommand(),
		a.buildCommand(),
	)
	return root
}

// setup loads the configuration and attaches the command's logger to
// its context.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.metricsFile == "" {
		a.metricsFile = cfg.MetricsFile
	}
	log := a.newLogger(max(a.verbosity, cfg.Verbosity)).WithValues(logger.CommandKey, cmd.Name())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithLogger(ctx, &log))
	return nil
}

var warnColor = color.New(color.FgYellow)

func (a *app) warnf(format string, args ...any) {
	warnColor.Fprintf(a.err, "warning: "+format+"\n", args...)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// openDB opens the configured record database.
func (a *app) openDB(ctx context.Context) (*db.DB, error) {
	c := a.cfg.Database
	d, err := db.OpenSQL(c.Driver, c.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s database %s: %w", c.Driver, c.DSN, err)
	}
	d.SetRetryPolicy(db.RetryPolicy{
		Attempts: c.RetryAttempts,
		Delay:    c.RetryDelay,
		MaxDelay: c.RetryMaxDelay,
	})
	d.SetLogger(logger.FromContext(ctx).WithName("db"))
	return d, nil
}

// readRecords returns every stored record, in insertion order.
func (a *app) readRecords(ctx context.Context) ([]tagtree.Record, error) {
	d, err := a.openDB(ctx)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	payloads, byPayload, err := d.Read(ctx, db.ReadOptions{Pool: new(db.StringPool)})
	if err != nil {
		return nil, err
	}
	recs := make([]tagtree.Record, len(payloads))
	for i, p := range payloads {
		recs[i] = byPayload[p]
	}
	return recs, nil
}

// index is the result of building the configured index.
type index struct {
	*tagtree.Index
	rules   tagfilter.Rules
	records int
}

// buildIndex reads the database and builds the index described by
// the configuration.
func (a *app) buildIndex(ctx context.Context) (*index, error) {
	log := logger.FromContext(ctx)
	order := a.cfg.Build.Order
	if len(order) == 0 {
		return nil, fmt.Errorf("no build order configured; set build.order")
	}
	rules, err := a.cfg.LoadRules()
	if err != nil {
		return nil, err
	}
	all, err := a.readRecords(ctx)
	if err != nil {
		return nil, err
	}

	var recs []tagtree.Record
	for _, rec := range all {
		if tagtree.HasTags(rec, order) {
			recs = append(recs, rec)
		}
	}
	if skipped := len(all) - len(recs); skipped > 0 {
		a.warnf("skipped %s records without all of the tags %q", humanize.Comma(int64(skipped)), order)
	}

	// Records rejected by the plain rules are left out, except that
	// combining needs them to find group members.
	var selected []tagtree.Record
	for _, rec := range recs {
		res, err := tagfilter.Evaluate(rec, rules, true)
		if err != nil {
			return nil, err
		}
		if res.Simple {
			selected = append(selected, rec)
		}
	}

	if a.cfg.Build.Strict {
		if err := checkDistinct(selected, order); err != nil {
			return nil, err
		}
	}

	workers := a.cfg.Build.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	m := metrics.NewBuild()
	levels := a.cfg.Build.Levels()
	opts := tagtree.BuildOptions{Observer: m, Logger: log.WithName("build")}

	var x *tagtree.Index
	if level := a.cfg.Build.Combine; level >= 0 {
		src, err := tagtree.BuildParallel(ctx, recs, order, levels, workers, opts)
		if err != nil {
			return nil, err
		}
		x, err = tagfilter.Combine(src, recs, order, rules, level, a.cfg.Build.RequireAll)
		if err != nil {
			return nil, err
		}
	} else {
		x, err = tagtree.BuildParallel(ctx, selected, order, levels, workers, opts)
		if err != nil {
			return nil, err
		}
	}
	if x.Len() == 0 {
		return nil, fmt.Errorf("no records pass the build order and rules")
	}

	strategies, err := a.cfg.Strategies(rules)
	if err != nil {
		return nil, err
	}
	if err := x.SortKeys(strategies); err != nil {
		return nil, err
	}
	if a.metricsFile != "" {
		if err := m.WriteFile(a.metricsFile); err != nil {
			return nil, err
		}
	}
	log.Info("built index", "records", len(recs), "leaves", x.Len())
	return &index{Index: x, rules: rules, records: len(recs)}, nil
}

// checkDistinct fails if two records have the same values for the
// tags in order, in which case one would hide the other.
func checkDistinct(recs []tagtree.Record, order []string) error {
	seen := make(map[string]string, len(recs))
	for _, rec := range recs {
		path := make([]string, len(order))
		for i, tag := range order {
			path[i] = rec.Tags[tag]
		}
		k := strings.Join(path, "\x00")
		if prev, ok := seen[k]; ok {
			return fmt.Errorf("%s and %s: %w", prev, rec.Payload, &tagtree.ConflictError{Path: path})
		}
		seen[k] = rec.Payload
	}
	return nil
}
