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

package tables

import (
	"fmt"
	"sort"

	"github.com/google/spanlist/core/spans"
)

// DataTable is an immutable, ordered set of rows with a known column order.
// Replacing the data of a list means building a new DataTable, which in turn
// invalidates the span maps cached for the old one.
type DataTable struct {
	name    string
	columns []string
	rows    []spans.Row
}

// NewDataTable creates a table over rows. The table takes ownership of rows.
func NewDataTable(name string, columnNames []string, rows []spans.Row) *DataTable {
	return &DataTable{
		name:    name,
		columns: append([]string(nil), columnNames...),
		rows:    rows,
	}
}

// Name returns the table name.
func (dt *DataTable) Name() string {
	return dt.name
}

// Length returns the number of rows.
func (dt *DataTable) Length() int {
	return len(dt.rows)
}

// GetColumnNames returns the column names in source order.
func (dt *DataTable) GetColumnNames() []string {
	return append([]string(nil), dt.columns...)
}

// HasColumn reports whether name is one of the table's columns.
func (dt *DataTable) HasColumn(name string) bool {
	for _, c := range dt.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Rows returns the backing rows. Callers must not modify them.
func (dt *DataTable) Rows() []spans.Row {
	return dt.rows
}

// Row returns the row at index i.
func (dt *DataTable) Row(i int) (spans.Row, error) {
	if i < 0 || i >= len(dt.rows) {
		return nil, fmt.Errorf("index %d out of range [0:%d)", i, len(dt.rows))
	}
	return dt.rows[i], nil
}

// SortBy returns a new table with rows stably ordered by the given columns,
// so that equal values become adjacent and can be merged.
func (dt *DataTable) SortBy(keys ...string) (*DataTable, error) {
	for _, k := range keys {
		if !dt.HasColumn(k) {
			return nil, fmt.Errorf("sort column %q not found in table %q", k, dt.name)
		}
	}

	rows := append([]spans.Row(nil), dt.rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			if c := CompareValues(rows[i][k], rows[j][k]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return &DataTable{name: dt.name, columns: dt.columns, rows: rows}, nil
}
