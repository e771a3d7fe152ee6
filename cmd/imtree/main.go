// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Imtree maintains a database of tagged images and builds browsable
// indexes from it.
//
// Usage:
//
//	imtree [flags] command [args...]
//
// The commands are:
//
//	put     store one record: imtree put plot.png model=global lead=T+6
//	import  store records from JSON-lines or YAML files, or another database
//	rm      delete records by payload or query
//	query   list the records matching a query
//	keys    show the key lists of the index
//	stats   show the shape of the index
//	build   write the index document and a selector page
//
// Settings are read from .imtree.yaml in the current or home
// directory, or the file named by -config, and may be overridden by
// IMTREE_* environment variables. For example:
//
//	database:
//	  driver: sqlite3
//	  dsn: plots.db
//	build:
//	  order: [model, lead]
//	  sort: [sort, T+]
//	  workers: 4
//	export:
//	  compression: zlib
//	rules_file: rules.yaml
//
// The database driver is sqlite3, sqlite (which needs no cgo) or mysql.
// The build order names the tag used at each level of the index.
// Filter rules restrict which values of a tag are indexed and may
// define groups of values that are presented together.
package main

import (
	"fmt"
	"os"

	"golang.org/x/tagindex/internal/logger"
)

func main() {
	err := newRootCommand(os.Stdout, os.Stderr).Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "imtree: %v\n", err)
		os.Exit(1)
	}
}
