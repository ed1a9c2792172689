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

// Package layout positions the cells of one list row. Cells that start a merged
// block grow downwards over the rows they cover; cells hidden by a block above
// emit nothing but keep their horizontal space.
package layout

import (
	"errors"
	"fmt"

	"github.com/google/spanlist/core/columns"
	"github.com/google/spanlist/core/spans"
)

// Z-order of cell fragments. Merged cells sit above the rows they overlap.
const (
	ZIndexCell   = 1
	ZIndexMerged = 10
)

// ErrRowOutOfRange is returned when a row index is outside the dataset.
var ErrRowOutOfRange = errors.New("row index out of range")

// DefaultCellStyle is applied to every fragment before the column overrides. The
// opaque background masks the rows a merged cell overlaps.
var DefaultCellStyle = columns.Style{
	"background":    "white",
	"border-right":  "1px solid #eee",
	"border-bottom": "1px solid #eee",
	"display":       "flex",
	"align-items":   "center",
}

// RowStyle is the box the windowing engine assigns to a row container.
type RowStyle struct {
	Position string
	Top      int
	Left     int
	Height   int
	Width    string
}

// Fragment is one visible, absolutely positioned cell.
type Fragment struct {
	Key     string // column key
	Row     int
	Left    int
	Width   int
	Height  int
	ZIndex  int
	Span    int
	Content string
	Style   columns.Style
}

// RowFragment is the rendered container of one row.
type RowFragment struct {
	Index int
	Style RowStyle
	Cells []Fragment
}

// RowRenderer renders single rows of a dataset against a span map. It holds no
// mutable state, so rows may be rendered concurrently and in any order.
type RowRenderer[R any] struct {
	Data      []R
	Columns   []columns.Def[R]
	RowHeight int
	Spans     spans.Map
	Field     spans.FieldFunc[R]
}

// accumulator carries the fold over the columns of a row.
type accumulator struct {
	elements   []Fragment
	leftOffset int
}

// Render lays out the cells of row index inside the container box base.
// The container keeps the engine's offsets but is always absolutely positioned.
func (r *RowRenderer[R]) Render(index int, base RowStyle) (RowFragment, error) {
	style := base
	style.Position = "absolute"

	if index < 0 || index >= len(r.Data) {
		return RowFragment{Index: index, Style: style}, fmt.Errorf("row %d of %d: %w", index, len(r.Data), ErrRowOutOfRange)
	}
	row := r.Data[index]

	acc := accumulator{elements: make([]Fragment, 0, len(r.Columns))}
	for _, col := range r.Columns {
		acc = r.cell(acc, index, row, col)
	}

	return RowFragment{Index: index, Style: style, Cells: acc.elements}, nil
}

func (r *RowRenderer[R]) cell(acc accumulator, index int, row R, col columns.Def[R]) accumulator {
	entry := r.Spans.Lookup(index, col.Key)

	if entry.Visible {
		acc.elements = append(acc.elements, Fragment{
			Key:     col.Key,
			Row:     index,
			Left:    acc.leftOffset,
			Width:   col.Width,
			Height:  entry.Span * r.RowHeight,
			ZIndex:  zIndex(entry.Span),
			Span:    entry.Span,
			Content: r.content(row, col),
			Style:   DefaultCellStyle.Merge(col.Style),
		})
	}

	// hidden cells still reserve their width
	acc.leftOffset += col.Width
	return acc
}

func (r *RowRenderer[R]) content(row R, col columns.Def[R]) string {
	if col.Render != nil {
		return col.Render(row)
	}
	return columns.FormatValue(r.Field(row, col.Key))
}

func zIndex(span int) int {
	if span > 1 {
		return ZIndexMerged
	}
	return ZIndexCell
}
