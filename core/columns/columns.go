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

package columns

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyKey is returned for a column without a field key.
	ErrEmptyKey = errors.New("column key is required")
	// ErrNegativeWidth is returned for a column with a negative width.
	ErrNegativeWidth = errors.New("column width must not be negative")
	// ErrDuplicateColumn is returned when two columns share a key.
	ErrDuplicateColumn = errors.New("duplicate column key")
)

// Def describes one column of a list.
type Def[R any] struct {
	Key    string         // field name, must not contain ':'
	Title  string         // header text, defaults to Key
	Width  int            // fixed width in pixels
	Render func(R) string // optional formatter, the raw field value is shown when nil
	Style  Style          // overrides applied on top of the default cell style
}

// DisplayName returns the header text of the column.
func (d Def[R]) DisplayName() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Key
}

// Validate checks a column sequence: keys must be present and unique, widths
// non-negative and styles well formed.
func Validate[R any](defs []Def[R]) error {
	seen := make(map[string]bool, len(defs))
	for i, d := range defs {
		if d.Key == "" {
			return fmt.Errorf("column %d: %w", i, ErrEmptyKey)
		}
		if seen[d.Key] {
			return fmt.Errorf("column %q: %w", d.Key, ErrDuplicateColumn)
		}
		seen[d.Key] = true
		if d.Width < 0 {
			return fmt.Errorf("column %q: %w", d.Key, ErrNegativeWidth)
		}
		if err := d.Style.Validate(); err != nil {
			return fmt.Errorf("column %q: %w", d.Key, err)
		}
	}
	return nil
}

// Keys returns the keys of defs in order.
func Keys[R any](defs []Def[R]) []string {
	keys := make([]string, len(defs))
	for i, d := range defs {
		keys[i] = d.Key
	}
	return keys
}

// TotalWidth returns the sum of the column widths.
func TotalWidth[R any](defs []Def[R]) int {
	w := 0
	for _, d := range defs {
		w += d.Width
	}
	return w
}
