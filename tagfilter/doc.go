// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tagfilter decides which tagged records enter an index.
//
// Rules restrict each tag to a list of values, and may declare groups
// of values that are presented together. Evaluate tests a record
// against Rules, and Combine uses the results to build an index in
// which each group is one selectable key whose leaf holds the payloads
// of all its members.
//
// Query is a free-form boolean selection over records, used to pick
// records before they are indexed.
package tagfilter
