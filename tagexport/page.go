// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagexport

import (
	"fmt"
	"io"

	"github.com/google/safehtml/template"
)

// PageData is the input to WritePage.
type PageData struct {
	Title string
	// DataFile is the URL of the document written by WriteFile,
	// relative to the page.
	DataFile    string
	Compression Compression
	Doc         *Document
	// Preview is the number of payloads shown below the selectors
	// before any script runs.
	Preview int
}

type pageLevel struct {
	Index int
	Level
	Animated bool
}

const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body data-index="{{.DataFile}}" data-compression="{{.Compression}}">
<h1>{{.Title}}</h1>
<form id="selectors">
{{range .Levels}}<label data-level="{{.Index}}">{{.Name}}
<select data-level="{{.Index}}" data-width="{{.Width}}"{{if .Animated}} data-animated="true"{{end}}>
{{if .Optgroups}}{{range .Optgroups}}{{if .Label}}<optgroup label="{{.Label}}">{{range .Options}}<option>{{.}}</option>{{end}}</optgroup>
{{else}}{{range .Options}}<option>{{.}}</option>{{end}}
{{end}}{{end}}{{else}}{{range .Keys}}<option>{{.}}</option>{{end}}
{{end}}</select>
</label>
{{end}}</form>
<ul id="payloads">
{{range .Preview}}<li><img src="{{.}}" alt="{{.}}"></li>
{{end}}</ul>
</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

// WritePage writes a static selector page for data.Doc. The page
// lists one selector per level and references the document by URL
// for a client script to load.
func WritePage(w io.Writer, data PageData) error {
	var levels []pageLevel
	var preview []string
	if doc := data.Doc; doc != nil {
		for i, l := range doc.Levels {
			pl := pageLevel{Index: i, Level: l}
			if pl.Name == "" {
				pl.Name = fmt.Sprintf("Level %d", i+1)
			}
			pl.Animated = doc.Animate != nil && doc.Animate.Level == i
			levels = append(levels, pl)
		}
		for _, leaf := range doc.Leaves {
			if len(preview) >= data.Preview {
				break
			}
			preview = append(preview, leaf.Refs...)
		}
		if len(preview) > data.Preview {
			preview = preview[:data.Preview]
		}
	}
	return pageTmpl.Execute(w, struct {
		Title       string
		DataFile    string
		Compression string
		Levels      []pageLevel
		Preview     []string
	}{data.Title, data.DataFile, data.Compression.String(), levels, preview})
}
