// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagexport

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tagindex/tagfilter"
	"golang.org/x/tagindex/tagtree"
)

func diceIndex(t *testing.T) *tagtree.Index {
	t.Helper()
	root := tagtree.Node{
		"6": tagtree.Node{
			"red":  tagtree.Payload("6-red.png"),
			"blue": tagtree.Payload("6-blue.png"),
			"all":  tagtree.Payloads{"6-red.png", "6-blue.png"},
		},
		"36": tagtree.Node{
			"red": tagtree.Payload("36-red.png"),
		},
	}
	x, err := tagtree.New(root, tagtree.Levels{
		Names:   []string{"rolls", "color"},
		Animate: &tagtree.Animation{Level: 0},
	})
	require.NoError(t, err)
	require.NoError(t, x.SortKeys([]tagtree.Strategy{tagtree.Numeric, tagtree.Priority("red", "blue", "all")}))
	return x
}

func TestNewDocument(t *testing.T) {
	x := diceIndex(t)
	rules := tagfilter.Rules{"color": tagfilter.Rule{
		{Value: "red"},
		{Group: &tagfilter.Group{Name: "all", Members: []string{"red", "blue"}}},
	}}
	doc, err := NewDocument(x, rules)
	require.NoError(t, err)

	require.Len(t, doc.Levels, 2)
	assert.Equal(t, Level{Name: "rolls", Keys: []string{"6", "36"}}, doc.Levels[0])
	assert.Equal(t, []string{"red", "blue", "all"}, doc.Levels[1].Keys)
	assert.Equal(t, rules["color"].Optgroups(), doc.Levels[1].Optgroups)
	assert.Equal(t, &tagtree.Animation{Level: 0, Direction: 1}, doc.Animate)

	assert.Equal(t, []tagtree.Vector{{0, 0}, {0, 1}, {0, 2}, {1, 0}}, doc.Vectors)
	assert.Equal(t, []Leaf{
		{Refs: []string{"6-red.png"}},
		{Refs: []string{"6-blue.png"}},
		{Refs: []string{"6-red.png", "6-blue.png"}, Multi: true},
		{Refs: []string{"36-red.png"}},
	}, doc.Leaves)
}

func TestNewDocumentErrors(t *testing.T) {
	ragged, err := tagtree.New(tagtree.Node{
		"a": tagtree.Payload("a"),
		"b": tagtree.Node{"c": tagtree.Payload("c")},
	}, tagtree.Levels{})
	require.NoError(t, err)
	_, err = NewDocument(ragged, nil)
	assert.ErrorIs(t, err, tagtree.ErrValidation)

	x := diceIndex(t)
	require.NoError(t, x.AppendPath([]string{"216", "red"}, tagtree.Payload("p"), true))
	_, err = NewDocument(x, nil)
	assert.ErrorIs(t, err, tagtree.ErrStaleKeys)
}

func TestLeafJSON(t *testing.T) {
	var buf bytes.Buffer
	doc := &Document{
		Levels:  []Level{{Keys: []string{"a", "b"}}},
		Vectors: []tagtree.Vector{{0}, {1}},
		Leaves:  []Leaf{{Refs: []string{"x"}}, {Refs: []string{"y"}, Multi: true}},
	}
	require.NoError(t, WriteJSON(&buf, doc, None))
	assert.Equal(t, `{"levels":[{"keys":["a","b"]}],"vectors":[[0],[1]],"leaves":["x",["y"]]}`+"\n", buf.String())

	var l Leaf
	assert.Error(t, l.UnmarshalJSON([]byte(`{"a":1}`)))
}

func TestRoundTrip(t *testing.T) {
	x := diceIndex(t)
	doc, err := NewDocument(x, nil)
	require.NoError(t, err)

	for _, c := range []Compression{None, Zlib, LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteJSON(&buf, doc, c))
			if c != None {
				assert.False(t, bytes.HasPrefix(buf.Bytes(), []byte("{")), "output is not compressed")
			}
			got, err := ReadJSON(&buf, c)
			require.NoError(t, err)
			assert.Equal(t, doc, got)

			y, err := got.Index()
			require.NoError(t, err)
			assert.True(t, tagtree.Equal(x.Root(), y.Root()))
			wantKeys, _ := x.Keys()
			gotKeys, _ := y.Keys()
			assert.Equal(t, wantKeys, gotKeys)
			assert.Equal(t, x.Levels(), y.Levels())
		})
	}
}

func TestWriteFile(t *testing.T) {
	doc, err := NewDocument(diceIndex(t), nil)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "index.json"+LZ4.Ext())
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, WriteFile(path, doc, LZ4))

	got, err := ReadFile(path, LZ4)
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	// No temporary files are left behind.
	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, ents, 1)

	assert.Error(t, WriteFile(filepath.Join(dir, "missing", "x.json"), doc, None))
}

func TestParseCompression(t *testing.T) {
	check := func(name string, want Compression, ok bool) {
		t.Helper()
		got, err := ParseCompression(name)
		if !ok {
			assert.Error(t, err, name)
			return
		}
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}
	check("", None, true)
	check("none", None, true)
	check("zlib", Zlib, true)
	check("lz4", LZ4, true)
	check("gzip", None, false)

	assert.Equal(t, ".zlib", Zlib.Ext())
	assert.Equal(t, "", None.Ext())
	assert.Equal(t, "Compression(7)", Compression(7).String())
}

func TestWritePage(t *testing.T) {
	x := diceIndex(t)
	rules := tagfilter.Rules{"color": tagfilter.Rule{
		{Value: "red"},
		{Group: &tagfilter.Group{Name: "all", Members: []string{"red", "blue"}}},
	}}
	doc, err := NewDocument(x, rules)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, PageData{
		Title:       "Dice <rolls>",
		DataFile:    "index.json.zlib",
		Compression: Zlib,
		Doc:         doc,
		Preview:     2,
	}))
	page := buf.String()
	for _, want := range []string{
		"<title>Dice &lt;rolls&gt;</title>",
		`data-index="index.json.zlib"`,
		`data-compression="zlib"`,
		`data-animated="true"`,
		`<option>36</option>`,
		`<optgroup label="all"><option>red</option><option>blue</option></optgroup>`,
		`<img src="6-red.png" alt="6-red.png">`,
		`<img src="6-blue.png" alt="6-blue.png">`,
	} {
		assert.Contains(t, page, want)
	}
	assert.Equal(t, 2, strings.Count(page, "<img "))

	buf.Reset()
	require.NoError(t, WritePage(&buf, PageData{Title: "empty"}))
	assert.NotContains(t, buf.String(), "<select")
}
