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

package mergedlist

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/spanlist/core/columns"
	"github.com/google/spanlist/core/spans"
	"github.com/google/spanlist/core/windowing"
)

func groupedData(n, groupSize int) []spans.Row {
	data := make([]spans.Row, n)
	for i := range data {
		data[i] = spans.Row{
			"group": fmt.Sprintf("g%03d", i/groupSize),
			"id":    i,
		}
	}
	return data
}

func testConfig(data []spans.Row) Config[spans.Row] {
	return Config[spans.Row]{
		Data: data,
		Columns: []columns.Def[spans.Row]{
			{Key: "group", Width: 120},
			{Key: "id", Width: 60},
		},
		RowHeight: 40,
		Height:    200,
		Width:     "800px",
		Overscan:  1,
	}
}

func TestNew_Validation(t *testing.T) {
	data := groupedData(4, 2)

	tests := []struct {
		name    string
		mutate  func(*Config[spans.Row])
		wantErr error
	}{
		{"row height", func(c *Config[spans.Row]) { c.RowHeight = 0 }, ErrInvalidRowHeight},
		{"height", func(c *Config[spans.Row]) { c.Height = -1 }, ErrInvalidHeight},
		{"duplicate column", func(c *Config[spans.Row]) { c.Columns = append(c.Columns, c.Columns[0]) }, columns.ErrDuplicateColumn},
		{"width with extra declarations", func(c *Config[spans.Row]) { c.Width = "1px; background-image: url(https://example.com/x)" }, ErrInvalidWidth},
		{"width with url", func(c *Config[spans.Row]) { c.Width = "url(x)" }, ErrInvalidWidth},
		{"unknown merge key", func(c *Config[spans.Row]) { c.MergeKeys = []string{"nope"} }, ErrUnknownMergeKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(data)
			tt.mutate(&cfg)
			_, err := New(cfg, windowing.Module{}, nil, spans.RowField)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWidth(t *testing.T) {
	for _, w := range []string{"", "100%", "800px", "calc(100% - 10px)"} {
		if err := ValidateWidth(w); err != nil {
			t.Errorf("ValidateWidth(%q) = %v, want nil", w, err)
		}
	}
	for _, w := range []string{"1px;color:red", "1px\"", "expression(alert(1))"} {
		if err := ValidateWidth(w); !errors.Is(err, ErrInvalidWidth) {
			t.Errorf("ValidateWidth(%q) = %v, want %v", w, err, ErrInvalidWidth)
		}
	}
}

func TestNew_UnresolvableEngine(t *testing.T) {
	_, err := New(testConfig(groupedData(4, 2)), struct{}{}, nil, spans.RowField)

	var re *windowing.ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("expected *windowing.ResolveError, got %v", err)
	}
}

func TestMergeKeys(t *testing.T) {
	data := groupedData(4, 2)

	l, err := New(testConfig(data), windowing.Module{}, nil, spans.RowField)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if keys := l.MergeKeys(); len(keys) != 2 || keys[0] != "group" || keys[1] != "id" {
		t.Errorf("default merge keys = %v, want every column", keys)
	}

	cfg := testConfig(data)
	cfg.MergeKeys = []string{}
	l, err = New(cfg, windowing.Module{}, nil, spans.RowField)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if e := l.Entry(1, "group"); !e.Visible || e.Span != 1 {
		t.Errorf("no merge keys: entry = %+v, want unmerged", e)
	}
	if len(l.Spans()) != 0 {
		t.Errorf("expected empty span map, got %d entries", len(l.Spans()))
	}
}

func TestWindow_Top(t *testing.T) {
	l, err := New(testConfig(groupedData(100, 3)), windowing.Module{}, nil, spans.RowField)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	w, err := l.Window(0)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}

	if w.Start != 0 || w.Stop != 5 || len(w.Rows) != 6 {
		t.Fatalf("mounted [%d, %d] with %d rows, want [0, 5] with 6", w.Start, w.Stop, len(w.Rows))
	}
	if w.TotalHeight != 4000 || w.TotalWidth != 180 || w.Width != "800px" {
		t.Errorf("unexpected window dimensions %+v", w)
	}

	head := w.Rows[0].Cells[0]
	if head.Key != "group" || head.Height != 120 || head.ZIndex != 10 {
		t.Errorf("group head cell = %+v, want height 120 and z 10", head)
	}
	if n := len(w.Rows[1].Cells); n != 1 {
		t.Errorf("row 1 should only render the id cell, got %d cells", n)
	}
	if w.Rows[3].Style.Top != 120 || w.Rows[3].Style.Position != "absolute" {
		t.Errorf("row 3 container = %+v", w.Rows[3].Style)
	}
}

func TestWindow_ScrolledIntoBlock(t *testing.T) {
	l, err := New(testConfig(groupedData(100, 10)), windowing.Module{}, nil, spans.RowField)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// rows 14..18 are visible, block g001 covers rows 10..19
	w, err := l.Window(14 * 40)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if w.Start != 13 {
		t.Fatalf("first mounted row = %d, want 13", w.Start)
	}
	for _, row := range w.Rows {
		for _, c := range row.Cells {
			if c.Key == "group" && row.Index < 20 {
				t.Errorf("row %d: hidden group cell was rendered", row.Index)
			}
		}
	}

	e := l.Entry(w.Start, "group")
	if e.Visible || e.RefRow != 10 {
		t.Errorf("entry of first mounted row = %+v, want hidden with RefRow 10", e)
	}
}

func TestWindow_Memoized(t *testing.T) {
	cache, err := spans.NewCache(4, spans.RowField)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	l, err := New(testConfig(groupedData(50, 5)), windowing.Module{}, cache, spans.RowField)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, off := range []int{0, 400, 800, 400} {
		if _, err := l.Window(off); err != nil {
			t.Fatalf("Window(%d) failed: %v", off, err)
		}
	}

	if stats := cache.Stats(); stats.Misses != 1 || stats.Hits != 3 {
		t.Errorf("expected 1 miss and 3 hits, got %+v", stats)
	}
}

func TestWindow_Concurrent(t *testing.T) {
	l, err := New(testConfig(groupedData(1000, 7)), windowing.Module{}, nil, spans.RowField)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(off int) {
			defer wg.Done()
			if _, err := l.Window(off); err != nil {
				t.Errorf("Window(%d) failed: %v", off, err)
			}
		}(i * 1000)
	}
	wg.Wait()
}

func TestWindow_Empty(t *testing.T) {
	l, err := New(testConfig(nil), windowing.Module{}, nil, spans.RowField)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w, err := l.Window(0)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(w.Rows) != 0 || w.Stop != -1 || w.TotalHeight != 0 {
		t.Errorf("expected empty window, got %+v", w)
	}
}
