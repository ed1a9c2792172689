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

// Package demo provides sample datasets and the configuration the server
// runs with when no configuration file is given.
package demo

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/spanlist/core/spans"
	"github.com/google/spanlist/core/tables"
	"github.com/google/spanlist/datasources"
)

//go:embed data/orders.csv
var ordersCSV string

// Dataset names accepted in the "dataset" option of a demo source.
const (
	DatasetOrders = "orders"
	DatasetPerf   = "perf"
)

// DefaultPerfRows is the size of the perf dataset when "rows" is not set.
const DefaultPerfRows = 100_000

// Loader implements datasources.DataSourceLoader for the built-in datasets.
//
// Config keys:
//   - dataset: "orders" or "perf" (required)
//   - rows: number of generated rows of the perf dataset
type Loader struct{}

// NewLoader creates a loader for source type "demo".
func NewLoader() *Loader {
	return &Loader{}
}

// SourceType returns "demo".
func (l *Loader) SourceType() string {
	return "demo"
}

// DiscoverSchema returns the columns of the dataset.
func (l *Loader) DiscoverSchema(config map[string]string) (*datasources.TableSchema, error) {
	table, err := l.Load(config["dataset"], config)
	if err != nil {
		return nil, err
	}
	schema := &datasources.TableSchema{}
	for _, name := range table.GetColumnNames() {
		schema.Columns = append(schema.Columns, &datasources.ColumnSchema{Name: name, Type: columnType(table, name)})
	}
	return schema, nil
}

func columnType(table *tables.DataTable, name string) datasources.ColumnType {
	if table.Length() == 0 {
		return datasources.TypeString
	}
	row, _ := table.Row(0)
	switch row[name].(type) {
	case int64:
		return datasources.TypeInt64
	case float64:
		return datasources.TypeFloat64
	case bool:
		return datasources.TypeBool
	}
	return datasources.TypeString
}

// Load builds the dataset named by the "dataset" option.
func (l *Loader) Load(name string, config map[string]string) (*tables.DataTable, error) {
	switch config["dataset"] {
	case DatasetOrders:
		return CreateOrdersTable(name)
	case DatasetPerf:
		rows := DefaultPerfRows
		if v := config["rows"]; v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid rows %q", v)
			}
			rows = n
		}
		return CreatePerfTable(name, rows), nil
	case "":
		return nil, fmt.Errorf("dataset is required")
	default:
		return nil, fmt.Errorf("unknown dataset %q", config["dataset"])
	}
}

// CreateOrdersTable loads the embedded orders sample, already ordered by
// region, country and status.
func CreateOrdersTable(name string) (*tables.DataTable, error) {
	table, err := datasources.NewCsvLoader().LoadReader(name, strings.NewReader(ordersCSV), map[string]string{
		"infer_types": "true",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import orders CSV: %w", err)
	}
	return table, nil
}

// Perf dataset cardinality: every department holds teamsPerDept teams, every
// team membersPerTeam consecutive rows.
const (
	membersPerTeam = 25
	teamsPerDept   = 40
)

var perfStatuses = []string{"active", "active", "on leave", "contractor"}

// CreatePerfTable generates a large grouped table for scroll performance
// testing. Rows come out sorted by department, team and status.
func CreatePerfTable(name string, n int) *tables.DataTable {
	rows := make([]spans.Row, n)
	for i := range rows {
		team := i / membersPerTeam
		dept := team / teamsPerDept
		rows[i] = spans.Row{
			"department": fmt.Sprintf("Department %03d", dept),
			"team":       fmt.Sprintf("Team %05d", team),
			"status":     perfStatuses[(i%membersPerTeam)*len(perfStatuses)/membersPerTeam],
			"member_id":  int64(i),
			"salary":     float64(40_000 + (i*7919)%60_000),
		}
	}
	return tables.NewDataTable(name, []string{"department", "team", "status", "member_id", "salary"}, rows)
}
