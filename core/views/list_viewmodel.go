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

package views

import (
	"fmt"
	"strconv"

	"github.com/google/safehtml"
	"github.com/google/safehtml/uncheckedconversions"
	"github.com/google/spanlist/core/columns"
	"github.com/google/spanlist/core/layout"
	"github.com/google/spanlist/core/mergedlist"
	"github.com/google/spanlist/core/query"
)

// ListViewModel contains one rendered window formatted for template consumption
type ListViewModel struct {
	Title string
	Name  string

	ViewportStyle safehtml.Style // fixed-size, clipped viewport
	HeaderStyle   safehtml.Style
	CanvasStyle   safehtml.Style // full list height, shifted by the scroll offset

	Headers []HeaderCell
	Rows    []RowViewModel

	// Window info
	TotalRows    int
	Start        int
	Stop         int
	ScrollOffset int
	HasPrev      bool
	HasNext      bool
	PrevURL      safehtml.URL
	NextURL      safehtml.URL
}

// HeaderCell is one column title
type HeaderCell struct {
	Title string
	Style safehtml.Style
}

// RowViewModel is one mounted row container
type RowViewModel struct {
	Index int
	Style safehtml.Style
	Cells []CellViewModel
}

// CellViewModel is one visible cell fragment
type CellViewModel struct {
	Key     string
	Content string
	Span    int
	Style   safehtml.Style
}

// LandingViewModel lists the configured lists
type LandingViewModel struct {
	Title string
	Lists []ListInfo
}

// ListInfo describes a list on the landing page
type ListInfo struct {
	Name        string
	Title       string
	URL         safehtml.URL
	RecordCount int
	ColumnCount int
	MergeKeys   string
}

// BuildListViewModel converts a window into its view model. Header titles come
// from defs; navigation links move by one viewport height.
func BuildListViewModel[R any](title string, defs []columns.Def[R], w mergedlist.Window, totalRows int, q *query.Query) ListViewModel {
	vm := ListViewModel{
		Title:        title,
		Name:         q.Name,
		TotalRows:    totalRows,
		Start:        w.Start,
		Stop:         w.Stop,
		ScrollOffset: w.ScrollOffset,
	}

	vm.ViewportStyle = style(columns.Style{
		"position": "relative",
		"overflow": "hidden",
		"height":   px(w.Height),
		"width":    w.Width,
	})
	vm.CanvasStyle = style(columns.Style{
		"position": "relative",
		"top":      px(-w.ScrollOffset),
		"height":   px(w.TotalHeight),
		"width":    px(w.TotalWidth),
	})
	vm.HeaderStyle = style(columns.Style{
		"display": "flex",
		"width":   px(w.TotalWidth),
	})

	for _, d := range defs {
		vm.Headers = append(vm.Headers, HeaderCell{
			Title: d.DisplayName(),
			Style: style(columns.Style{"width": px(d.Width), "flex": "none"}),
		})
	}

	for _, row := range w.Rows {
		vm.Rows = append(vm.Rows, buildRow(row))
	}

	if w.ScrollOffset > 0 {
		vm.HasPrev = true
		vm.PrevURL = q.WithOffset(w.ScrollOffset - w.Height)
	}
	if w.ScrollOffset+w.Height < w.TotalHeight {
		vm.HasNext = true
		vm.NextURL = q.WithOffset(w.ScrollOffset + w.Height)
	}

	return vm
}

func buildRow(row layout.RowFragment) RowViewModel {
	rvm := RowViewModel{
		Index: row.Index,
		Style: style(columns.Style{
			"position": row.Style.Position,
			"top":      px(row.Style.Top),
			"left":     px(row.Style.Left),
			"height":   px(row.Style.Height),
			"width":    row.Style.Width,
		}),
	}

	for _, f := range row.Cells {
		css := f.Style.Merge(columns.Style{
			"position": "absolute",
			"left":     px(f.Left),
			"width":    px(f.Width),
			"height":   px(f.Height),
			"z-index":  strconv.Itoa(f.ZIndex),
		})
		rvm.Cells = append(rvm.Cells, CellViewModel{
			Key:     f.Key,
			Content: f.Content,
			Span:    f.Span,
			Style:   style(css),
		})
	}
	return rvm
}

func px(v int) string {
	return fmt.Sprintf("%dpx", v)
}

// style converts declarations into a safehtml.Style. Column styles and the
// viewport width are checked by mergedlist.New before a list is built;
// everything else is generated here.
func style(s columns.Style) safehtml.Style {
	return uncheckedconversions.StyleFromStringKnownToSatisfyTypeContract(s.CSS())
}
