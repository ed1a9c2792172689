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

package demo

import (
	"github.com/google/spanlist/config"
)

// Config returns the configuration used when no file is given: the orders
// sample and the generated perf table, served from the demo loader.
func Config() *config.Config {
	cfg := &config.Config{
		Lists: []config.ListConfig{
			{
				Name:      "orders",
				Title:     "Orders by region",
				Source:    config.SourceConfig{Type: "demo", Options: map[string]string{"dataset": DatasetOrders}},
				RowHeight: 36,
				Height:    432,
				MergeKeys: []string{"region", "country", "status"},
				Columns: []config.ColumnConfig{
					{Key: "region", Title: "Region", Width: 120, Style: map[string]string{"font-weight": "bold"}},
					{Key: "country", Title: "Country", Width: 140},
					{Key: "status", Title: "Status", Width: 120, Format: "upper"},
					{Key: "category", Title: "Category", Width: 140},
					{Key: "order_id", Title: "Order", Width: 80},
					{Key: "amount", Title: "Amount", Width: 110, Format: "number", Style: map[string]string{"justify-content": "flex-end"}},
				},
			},
			{
				Name:      "perf",
				Title:     "Perf: 100k members",
				Source:    config.SourceConfig{Type: "demo", Options: map[string]string{"dataset": DatasetPerf}},
				RowHeight: 32,
				Height:    640,
				Overscan:  intPtr(5),
				MergeKeys: []string{"department", "team", "status"},
				Columns: []config.ColumnConfig{
					{Key: "department", Title: "Department", Width: 160},
					{Key: "team", Title: "Team", Width: 120},
					{Key: "status", Title: "Status", Width: 120},
					{Key: "member_id", Title: "Member", Width: 100, Format: "number"},
					{Key: "salary", Title: "Salary", Width: 120, Format: "number"},
				},
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func intPtr(v int) *int {
	return &v
}
