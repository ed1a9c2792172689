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

// Package datasources loads list data from files (CSV, XLSX) into immutable
// tables, with a registry of loaders keyed by source type.
package datasources

import (
	"fmt"
	"strconv"

	"github.com/google/spanlist/core/spans"
	"github.com/google/spanlist/core/tables"
)

// ColumnType represents the data type of a column.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt64
	TypeFloat64
	TypeBool
)

// String returns the string representation of the column type.
func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// ColumnSchema represents a single column's schema discovered from a data source.
type ColumnSchema struct {
	Name string
	Type ColumnType
}

// TableSchema represents the full table schema discovered from a data source.
type TableSchema struct {
	Columns []*ColumnSchema
}

// Names returns the column names in order.
func (s *TableSchema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// DataSourceLoader is the interface that all data source loaders must implement.
// Spanlist provides built-in loaders for "csv" and "xlsx".
type DataSourceLoader interface {
	// SourceType returns the type identifier used in config (e.g., "csv", "xlsx").
	SourceType() string

	// DiscoverSchema returns the schema discovered from the data source.
	DiscoverSchema(config map[string]string) (*TableSchema, error)

	// Load retrieves data and returns a DataTable named name.
	Load(name string, config map[string]string) (*tables.DataTable, error)
}

// boolOption reads a "true"/"false" option with a default.
func boolOption(config map[string]string, key string, def bool) (bool, error) {
	v, ok := config[key]
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("option %s: %w", key, err)
	}
	return b, nil
}

// inferColumnType samples up to 100 values to pick the narrowest type.
func inferColumnType(colIdx int, records [][]string) ColumnType {
	sampleSize := len(records)
	if sampleSize > 100 {
		sampleSize = 100
	}

	isInt, isFloat, isBool := true, true, true
	seen := false

	for i := 0; i < sampleSize; i++ {
		if colIdx >= len(records[i]) {
			continue
		}
		val := records[i][colIdx]
		if val == "" {
			continue
		}
		seen = true

		if isInt {
			if _, err := strconv.ParseInt(val, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(val, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if val != "true" && val != "false" && val != "yes" && val != "no" {
				isBool = false
			}
		}
	}

	switch {
	case !seen:
		return TypeString
	case isInt:
		return TypeInt64
	case isFloat:
		return TypeFloat64
	case isBool:
		return TypeBool
	}
	return TypeString
}

// parseValue converts a raw cell to the column type. Values that do not parse
// are kept as text.
func parseValue(raw string, t ColumnType) any {
	switch t {
	case TypeInt64:
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v
		}
	case TypeFloat64:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	case TypeBool:
		switch raw {
		case "true", "yes":
			return true
		case "false", "no":
			return false
		}
	}
	return raw
}

// buildRows turns records into rows. Short records leave trailing fields
// missing; with emptyAsMissing empty cells are left out as well.
func buildRows(schema *TableSchema, records [][]string, emptyAsMissing bool) []spans.Row {
	rows := make([]spans.Row, 0, len(records))
	for _, record := range records {
		row := make(spans.Row, len(schema.Columns))
		for i, col := range schema.Columns {
			if i >= len(record) {
				continue
			}
			raw := record[i]
			if raw == "" {
				if !emptyAsMissing {
					row[col.Name] = ""
				}
				continue
			}
			row[col.Name] = parseValue(raw, col.Type)
		}
		rows = append(rows, row)
	}
	return rows
}

// headerSchema builds a schema from a header record, or col_N names without one.
func headerSchema(first []string, hasHeader bool, data [][]string, infer bool) *TableSchema {
	schema := &TableSchema{Columns: make([]*ColumnSchema, len(first))}
	for i := range first {
		name := fmt.Sprintf("col_%d", i)
		if hasHeader {
			name = first[i]
		}
		typ := TypeString
		if infer {
			typ = inferColumnType(i, data)
		}
		schema.Columns[i] = &ColumnSchema{Name: name, Type: typ}
	}
	return schema
}
