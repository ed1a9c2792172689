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

package spans

import (
	"strconv"
)

// NoRef is the RefRow of entries that start a block.
const NoRef = -1

// Row is the default record type: a set of named fields.
type Row map[string]any

// FieldFunc returns the value stored under key in row, or nil when the field is absent.
type FieldFunc[R any] func(row R, key string) any

// RowField is the FieldFunc for Row records.
func RowField(row Row, key string) any {
	return row[key]
}

// Entry describes one (row, column) cell of a span map.
type Entry struct {
	Span    int  // number of rows merged into the block; 0 on hidden cells
	Visible bool // true only on the first row of a block
	RefRow  int  // start row of the block for hidden cells, NoRef otherwise
}

// Map maps cell ids to entries. A Map is never modified once Calculate returns it.
type Map map[string]Entry

// CellID returns the lookup key of a cell, e.g. "12:region".
func CellID(row int, key string) string {
	return strconv.Itoa(row) + ":" + key
}

// Lookup returns the entry of a cell. Cells of columns that were not part of the
// calculation are reported as single visible rows.
func (m Map) Lookup(row int, key string) Entry {
	if e, ok := m[CellID(row, key)]; ok {
		return e
	}
	return Entry{Span: 1, Visible: true, RefRow: NoRef}
}

// Calculate computes the span map of data for the given keys.
//
// Every key is processed independently in a single pass over data: a row whose
// value under key is strictly equal to the value that opened the current block
// extends that block, any other value opens a new one. Only adjacent rows are
// ever merged; data is not sorted.
func Calculate[R any](data []R, keys []string, field FieldFunc[R]) Map {
	m := make(Map, len(data)*len(keys))
	if len(keys) == 0 {
		return m
	}

	lastSeen := make([]any, len(keys))
	lastStart := make([]int, len(keys))

	for i, row := range data {
		for k, key := range keys {
			value := field(row, key)

			if i > 0 && StrictEqual(value, lastSeen[k]) {
				start := lastStart[k]
				parentID := CellID(start, key)

				parent, ok := m[parentID]
				if !ok {
					parent = Entry{Span: 1, Visible: true, RefRow: NoRef}
				}
				parent.Span++
				m[parentID] = parent

				m[CellID(i, key)] = Entry{Span: 0, Visible: false, RefRow: start}
				continue
			}

			lastSeen[k] = value
			lastStart[k] = i
			m[CellID(i, key)] = Entry{Span: 1, Visible: true, RefRow: NoRef}
		}
	}

	return m
}
