// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagexport

import (
	"compress/zlib"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how a Document is compressed on disk.
type Compression int

const (
	None Compression = iota
	Zlib
	LZ4
)

var compressionNames = []string{None: "none", Zlib: "zlib", LZ4: "lz4"}

func (c Compression) String() string {
	if c < 0 || int(c) >= len(compressionNames) {
		return fmt.Sprintf("Compression(%d)", int(c))
	}
	return compressionNames[c]
}

// Ext returns the file name suffix conventionally appended after
// ".json" for c.
func (c Compression) Ext() string {
	if c == None {
		return ""
	}
	return "." + c.String()
}

// ParseCompression parses the name of a Compression.
func ParseCompression(name string) (Compression, error) {
	for i, n := range compressionNames {
		if n == name {
			return Compression(i), nil
		}
	}
	if name == "" {
		return None, nil
	}
	return None, fmt.Errorf("unknown compression %q", name)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func (c Compression) writer(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopCloser{w}, nil
	case Zlib:
		return zlib.NewWriter(w), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	}
	return nil, fmt.Errorf("unknown compression %v", c)
}

func (c Compression) reader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Zlib:
		return zlib.NewReader(r)
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	}
	return nil, fmt.Errorf("unknown compression %v", c)
}

// WriteJSON writes doc to w as compact JSON, compressed with c.
func WriteJSON(w io.Writer, doc *Document, c Compression) error {
	cw, err := c.writer(w)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(cw).Encode(doc); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// ReadJSON reads a Document written by WriteJSON with the same
// compression.
func ReadJSON(r io.Reader, c Compression) (*Document, error) {
	cr, err := c.reader(r)
	if err != nil {
		return nil, err
	}
	defer cr.Close()
	doc := new(Document)
	if err := json.NewDecoder(cr).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding %v document: %w", c, err)
	}
	return doc, nil
}

// WriteFile writes doc to path with WriteJSON. The file is written to
// a temporary file in the same directory and renamed into place, so
// readers never observe a partial document.
func WriteFile(path string, doc *Document, c Compression) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".imt_*.json")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if err := WriteJSON(f, doc, c); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadFile reads a Document written by WriteFile.
func ReadFile(path string, c Compression) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f, c)
}
