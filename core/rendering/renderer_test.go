/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Spanlist Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rendering

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/google/spanlist/core/columns"
	"github.com/google/spanlist/core/mergedlist"
	"github.com/google/spanlist/core/query"
	"github.com/google/spanlist/core/spans"
	"github.com/google/spanlist/core/views"
	"github.com/google/spanlist/core/windowing"
)

func testList(t *testing.T) *mergedlist.List[spans.Row] {
	t.Helper()
	data := []spans.Row{
		{"region": "EU", "name": "<b>alice</b>"},
		{"region": "EU", "name": "bob"},
		{"region": "EU", "name": "carol"},
		{"region": "US", "name": "dave"},
		{"region": "US", "name": "erin"},
		{"region": "US", "name": "frank"},
	}
	l, err := mergedlist.New(mergedlist.Config[spans.Row]{
		Data: data,
		Columns: []columns.Def[spans.Row]{
			{Key: "region", Title: "Region", Width: 100, Style: columns.Style{"color": "#333"}},
			{Key: "name", Title: "Name", Width: 150},
		},
		RowHeight: 40,
		Height:    120,
		Width:     "400px",
		MergeKeys: []string{"region"},
	}, windowing.Module{}, nil, spans.RowField)
	if err != nil {
		t.Fatalf("mergedlist.New failed: %v", err)
	}
	return l
}

func TestListRenderer_Render(t *testing.T) {
	l := testList(t)
	w, err := l.Window(0)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}

	u, _ := url.Parse("/list?name=people")
	vm := views.BuildListViewModel("People", l.Columns(), w, l.Len(), query.NewQuery(u))

	r, err := NewListRenderer()
	if err != nil {
		t.Fatalf("NewListRenderer failed: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, vm); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<title>People</title>",
		"height: 120px;",
		"z-index: 10;",
		"color: #333;",
		"background: white;",
		"&lt;b&gt;alice&lt;/b&gt;",
		"Region",
		"/list?name=people&amp;offset=120",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
	if strings.Contains(html, "<b>alice</b>") {
		t.Error("cell content must be escaped")
	}
	if strings.Contains(html, "previous") {
		t.Error("first window must not link to a previous window")
	}
	// EU is merged: one region cell for rows 0..2
	if n := strings.Count(html, ">EU<"); n != 1 {
		t.Errorf("expected one EU cell, got %d", n)
	}
}

func TestListRenderer_RenderLanding(t *testing.T) {
	r, err := NewListRenderer()
	if err != nil {
		t.Fatalf("NewListRenderer failed: %v", err)
	}

	u, _ := url.Parse("/list?name=people")
	vm := views.LandingViewModel{
		Title: "Lists",
		Lists: []views.ListInfo{{
			Name:        "people",
			Title:       "People",
			URL:         query.NewQuery(u).ToSafeURL(),
			RecordCount: 6,
			ColumnCount: 2,
			MergeKeys:   "region",
		}},
	}

	var buf bytes.Buffer
	if err := r.RenderLanding(&buf, vm); err != nil {
		t.Fatalf("RenderLanding failed: %v", err)
	}
	if !strings.Contains(buf.String(), `href="/list?name=people"`) {
		t.Errorf("landing page missing list link:\n%s", buf.String())
	}
}

func TestDumpWindow(t *testing.T) {
	l := testList(t)
	w, err := l.Window(0)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}

	var buf bytes.Buffer
	DumpWindow(&buf, w)
	out := buf.String()

	if !strings.Contains(out, "120") || !strings.Contains(out, "carol") {
		t.Errorf("dump missing merged cell height or content:\n%s", out)
	}
	// rows 0..2 are mounted and share a single region fragment
	if n := strings.Count(out, " region "); n != 1 {
		t.Errorf("expected 1 region fragment, got %d:\n%s", n, out)
	}
}

func TestDumpSpans(t *testing.T) {
	l := testList(t)

	var buf bytes.Buffer
	DumpSpans(&buf, l.Spans(), l.Len(), l.MergeKeys())
	out := buf.String()

	first := strings.Index(out, "0:region")
	last := strings.Index(out, "5:region")
	if first < 0 || last < 0 || first > last {
		t.Errorf("cells missing or out of order:\n%s", out)
	}
	if !strings.Contains(out, "false") {
		t.Errorf("hidden cells missing:\n%s", out)
	}
}
