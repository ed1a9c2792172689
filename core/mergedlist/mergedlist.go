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

// Package mergedlist composes the span calculator, the row layout and a
// virtualization engine into a windowed list with merged cells.
package mergedlist

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/google/spanlist/core/columns"
	"github.com/google/spanlist/core/layout"
	"github.com/google/spanlist/core/spans"
	"github.com/google/spanlist/core/windowing"
)

var (
	// ErrInvalidRowHeight is returned when RowHeight is not positive.
	ErrInvalidRowHeight = errors.New("row height must be positive")
	// ErrInvalidHeight is returned when the viewport height is not positive.
	ErrInvalidHeight = errors.New("viewport height must be positive")
	// ErrInvalidWidth is returned when the viewport width is not a plain CSS value.
	ErrInvalidWidth = errors.New("invalid viewport width")
	// ErrUnknownMergeKey is returned when a merge key names no column.
	ErrUnknownMergeKey = errors.New("merge key is not a column")
)

// Config holds the construction-time inputs of a List.
type Config[R any] struct {
	Data      []R
	Columns   []columns.Def[R]
	RowHeight int
	Height    int    // viewport height in pixels
	Width     string // viewport width, e.g. "800px" or "100%"
	Overscan  int

	// MergeKeys lists the columns whose equal adjacent values are merged.
	// When nil every column is merged; an empty non-nil slice merges none.
	MergeKeys []string
}

// Window is the rendered state of a list at one scroll offset.
type Window struct {
	Rows         []layout.RowFragment
	Start        int // first mounted row
	Stop         int // last mounted row, -1 when nothing is mounted
	ScrollOffset int
	TotalHeight  int
	TotalWidth   int
	Height       int
	Width        string
}

// List renders windows of a dataset. A List is safe for concurrent use.
type List[R any] struct {
	cfg    Config[R]
	keys   []string
	field  spans.FieldFunc[R]
	cache  *spans.Cache[R]
	engine windowing.Lister
	log    *logrus.Entry
}

// New validates cfg and resolves the list engine from provider. The span maps
// are memoized in cache, which may be shared between lists.
func New[R any](cfg Config[R], provider any, cache *spans.Cache[R], field spans.FieldFunc[R]) (*List[R], error) {
	if field == nil {
		return nil, fmt.Errorf("field accessor is required")
	}
	if cfg.RowHeight <= 0 {
		return nil, fmt.Errorf("row height %d: %w", cfg.RowHeight, ErrInvalidRowHeight)
	}
	if cfg.Height <= 0 {
		return nil, fmt.Errorf("height %d: %w", cfg.Height, ErrInvalidHeight)
	}
	if err := columns.Validate(cfg.Columns); err != nil {
		return nil, fmt.Errorf("invalid columns: %w", err)
	}
	if err := ValidateWidth(cfg.Width); err != nil {
		return nil, err
	}
	if cfg.Width == "" {
		cfg.Width = "100%"
	}

	keys, err := mergeKeys(cfg)
	if err != nil {
		return nil, err
	}

	factory, err := windowing.Resolve(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve list engine: %w", err)
	}

	if cache == nil {
		if cache, err = spans.NewCache(spans.DefaultCacheSize, field); err != nil {
			return nil, err
		}
	}

	return &List[R]{
		cfg:    cfg,
		keys:   keys,
		field:  field,
		cache:  cache,
		engine: factory(),
		log:    logrus.WithField("rows", len(cfg.Data)),
	}, nil
}

// ValidateWidth checks a viewport width with the rules of column styles. The
// empty width is valid and means "100%".
func ValidateWidth(width string) error {
	if err := (columns.Style{"width": width}).Validate(); err != nil {
		return fmt.Errorf("width %q: %w", width, ErrInvalidWidth)
	}
	return nil
}

func mergeKeys[R any](cfg Config[R]) ([]string, error) {
	if cfg.MergeKeys == nil {
		return columns.Keys(cfg.Columns), nil
	}
	known := make(map[string]bool, len(cfg.Columns))
	for _, c := range cfg.Columns {
		known[c.Key] = true
	}
	for _, k := range cfg.MergeKeys {
		if !known[k] {
			return nil, fmt.Errorf("merge key %q: %w", k, ErrUnknownMergeKey)
		}
	}
	return append([]string{}, cfg.MergeKeys...), nil
}

// MergeKeys returns the keys spans are computed for.
func (l *List[R]) MergeKeys() []string {
	return append([]string(nil), l.keys...)
}

// Columns returns the column definitions.
func (l *List[R]) Columns() []columns.Def[R] {
	return l.cfg.Columns
}

// Len returns the number of rows.
func (l *List[R]) Len() int {
	return len(l.cfg.Data)
}

// RowHeight returns the uniform row height.
func (l *List[R]) RowHeight() int {
	return l.cfg.RowHeight
}

// Spans returns the span map of the list's data and merge keys.
func (l *List[R]) Spans() spans.Map {
	return l.cache.Get(l.cfg.Data, l.keys)
}

// Entry returns the span entry of one cell.
func (l *List[R]) Entry(row int, key string) spans.Entry {
	return l.Spans().Lookup(row, key)
}

// Window renders the rows the engine mounts at scrollOffset.
func (l *List[R]) Window(scrollOffset int) (Window, error) {
	renderer := &layout.RowRenderer[R]{
		Data:      l.cfg.Data,
		Columns:   l.cfg.Columns,
		RowHeight: l.cfg.RowHeight,
		Spans:     l.Spans(),
		Field:     l.field,
	}

	rowHeight := l.cfg.RowHeight
	props := windowing.ListProps{
		Height:       l.cfg.Height,
		Width:        l.cfg.Width,
		ItemCount:    len(l.cfg.Data),
		ItemSize:     func(int) int { return rowHeight },
		Overscan:     l.cfg.Overscan,
		ScrollOffset: scrollOffset,
	}

	var (
		rows   []layout.RowFragment
		rowErr error
	)
	frame := l.engine.Render(props, func(rp windowing.RowProps) {
		if rowErr != nil {
			return
		}
		row, err := renderer.Render(rp.Index, rp.Style)
		if err != nil {
			rowErr = err
			return
		}
		rows = append(rows, row)
	})
	if rowErr != nil {
		return Window{}, fmt.Errorf("failed to render window at offset %d: %w", scrollOffset, rowErr)
	}

	l.log.WithFields(logrus.Fields{
		"offset":  frame.ScrollOffset,
		"mounted": len(rows),
	}).Debug("Rendered window.")

	return Window{
		Rows:         rows,
		Start:        frame.Start,
		Stop:         frame.Stop,
		ScrollOffset: frame.ScrollOffset,
		TotalHeight:  frame.TotalSize,
		TotalWidth:   columns.TotalWidth(l.cfg.Columns),
		Height:       l.cfg.Height,
		Width:        l.cfg.Width,
	}, nil
}
