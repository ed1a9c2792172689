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

package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/spanlist/core/columns"
	"github.com/google/spanlist/core/spans"
)

func testColumns() []columns.Def[spans.Row] {
	return []columns.Def[spans.Row]{
		{Key: "region", Width: 100},
		{Key: "status", Width: 80, Style: columns.Style{"color": "#333"}},
		{Key: "amount", Width: 60, Render: func(r spans.Row) string { return "$" + columns.FormatValue(r["amount"]) }},
	}
}

func testData() []spans.Row {
	return []spans.Row{
		{"region": "EU", "status": "open", "amount": 1},
		{"region": "EU", "status": "open", "amount": 2},
		{"region": "EU", "status": "done", "amount": 3},
		{"region": "US", "status": "done", "amount": 4},
	}
}

func newRenderer(keys []string) *RowRenderer[spans.Row] {
	data := testData()
	return &RowRenderer[spans.Row]{
		Data:      data,
		Columns:   testColumns(),
		RowHeight: 40,
		Spans:     spans.Calculate(data, keys, spans.RowField),
		Field:     spans.RowField,
	}
}

func TestRender_MergedBlockHead(t *testing.T) {
	r := newRenderer([]string{"region", "status"})

	row, err := r.Render(0, RowStyle{Position: "relative", Top: 0, Height: 40, Width: "100%"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if row.Style.Position != "absolute" || row.Style.Height != 40 || row.Style.Width != "100%" {
		t.Errorf("unexpected container style %+v", row.Style)
	}
	if len(row.Cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(row.Cells))
	}

	region := row.Cells[0]
	if region.Height != 120 || region.Span != 3 || region.ZIndex != ZIndexMerged {
		t.Errorf("region cell: height=%d span=%d z=%d, want 120/3/%d", region.Height, region.Span, region.ZIndex, ZIndexMerged)
	}
	if region.Content != "EU" || region.Left != 0 || region.Width != 100 {
		t.Errorf("unexpected region cell %+v", region)
	}
	if region.Style["background"] != "white" {
		t.Errorf("merged cell must be opaque, style %v", region.Style)
	}

	status := row.Cells[1]
	if status.Left != 100 || status.Height != 80 || status.ZIndex != ZIndexMerged {
		t.Errorf("unexpected status cell %+v", status)
	}
	if status.Style["color"] != "#333" || status.Style["display"] != "flex" {
		t.Errorf("column style not merged over defaults: %v", status.Style)
	}

	amount := row.Cells[2]
	if amount.Left != 180 || amount.Height != 40 || amount.ZIndex != ZIndexCell || amount.Content != "$1" {
		t.Errorf("unexpected amount cell %+v", amount)
	}
}

func TestRender_HiddenCellsKeepOffset(t *testing.T) {
	r := newRenderer([]string{"region", "status"})

	row, err := r.Render(1, RowStyle{Top: 40, Height: 40})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var got []Fragment
	for _, c := range row.Cells {
		got = append(got, Fragment{Key: c.Key, Left: c.Left, Height: c.Height})
	}
	want := []Fragment{{Key: "amount", Left: 180, Height: 40}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
	if row.Style.Top != 40 {
		t.Errorf("container top = %d, want 40", row.Style.Top)
	}
}

func TestRender_ColumnsOutsideKeysNeverMerge(t *testing.T) {
	r := newRenderer([]string{"status"})

	for i := range r.Data {
		row, err := r.Render(i, RowStyle{})
		if err != nil {
			t.Fatalf("Render(%d) failed: %v", i, err)
		}
		if row.Cells[0].Key != "region" || row.Cells[0].Span != 1 || row.Cells[0].Height != 40 {
			t.Errorf("row %d: region cell should be unmerged, got %+v", i, row.Cells[0])
		}
	}
}

func TestRender_MissingFieldRendersEmpty(t *testing.T) {
	r := newRenderer(nil)
	r.Data = []spans.Row{{"status": "open"}}

	row, err := r.Render(0, RowStyle{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if row.Cells[0].Content != "" {
		t.Errorf("missing field content = %q, want empty", row.Cells[0].Content)
	}
	if !strings.HasPrefix(row.Cells[2].Content, "$") {
		t.Errorf("render func not used: %q", row.Cells[2].Content)
	}
}

func TestRender_OutOfRange(t *testing.T) {
	r := newRenderer(nil)

	for _, idx := range []int{-1, 4} {
		row, err := r.Render(idx, RowStyle{})
		if !errors.Is(err, ErrRowOutOfRange) {
			t.Errorf("Render(%d) error = %v, want ErrRowOutOfRange", idx, err)
		}
		if len(row.Cells) != 0 {
			t.Errorf("Render(%d) returned %d cells", idx, len(row.Cells))
		}
	}
}

func TestRender_PanicsPropagate(t *testing.T) {
	r := newRenderer(nil)
	r.Columns = []columns.Def[spans.Row]{{Key: "x", Width: 10, Render: func(spans.Row) string { panic("boom") }}}

	defer func() {
		if recover() == nil {
			t.Error("expected render panic to propagate")
		}
	}()
	_, _ = r.Render(0, RowStyle{})
}
