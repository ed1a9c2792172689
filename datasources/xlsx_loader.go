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

package datasources

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/google/spanlist/core/tables"
)

// XlsxLoader implements DataSourceLoader for Excel workbooks.
//
// Required config keys:
//   - file_path: Path to the .xlsx file
//
// Optional config keys:
//   - sheet: Sheet name (default: first sheet)
//   - has_header: "true" or "false" (default: "true")
//   - infer_types: parse int, float and bool columns (default: "false")
//   - empty_as_missing: leave empty cells out of the row (default: "false")
//   - fill_merged: copy the value of merged sheet ranges into every covered
//     cell, so the rows merge again in the list (default: "true")
type XlsxLoader struct{}

// NewXlsxLoader creates a new XLSX loader.
func NewXlsxLoader() *XlsxLoader {
	return &XlsxLoader{}
}

// SourceType returns "xlsx".
func (l *XlsxLoader) SourceType() string {
	return "xlsx"
}

type xlsxOptions struct {
	filePath       string
	sheet          string
	hasHeader      bool
	inferTypes     bool
	emptyAsMissing bool
	fillMerged     bool
}

func parseXlsxOptions(config map[string]string) (*xlsxOptions, error) {
	opts := &xlsxOptions{filePath: config["file_path"], sheet: config["sheet"]}
	if opts.filePath == "" {
		return nil, fmt.Errorf("file_path is required")
	}

	var err error
	if opts.hasHeader, err = boolOption(config, "has_header", true); err != nil {
		return nil, err
	}
	if opts.inferTypes, err = boolOption(config, "infer_types", false); err != nil {
		return nil, err
	}
	if opts.emptyAsMissing, err = boolOption(config, "empty_as_missing", false); err != nil {
		return nil, err
	}
	if opts.fillMerged, err = boolOption(config, "fill_merged", true); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *xlsxOptions) readRecords() ([][]string, error) {
	f, err := excelize.OpenFile(o.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheet := o.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	if o.fillMerged {
		merged, err := f.GetMergeCells(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read merged cells of sheet %q: %w", sheet, err)
		}
		for _, mc := range merged {
			if records, err = fillRange(records, mc.GetStartAxis(), mc.GetEndAxis(), mc.GetCellValue()); err != nil {
				return nil, err
			}
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	return records, nil
}

// fillRange writes value into every cell of the range start:end, growing
// records where the sheet trimmed trailing cells.
func fillRange(records [][]string, start, end, value string) ([][]string, error) {
	c1, r1, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return nil, fmt.Errorf("invalid merged range start %q: %w", start, err)
	}
	c2, r2, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return nil, fmt.Errorf("invalid merged range end %q: %w", end, err)
	}

	for len(records) < r2 {
		records = append(records, nil)
	}
	for r := r1; r <= r2; r++ {
		for len(records[r-1]) < c2 {
			records[r-1] = append(records[r-1], "")
		}
		for c := c1; c <= c2; c++ {
			records[r-1][c-1] = value
		}
	}
	return records, nil
}

func (o *xlsxOptions) split(records [][]string) [][]string {
	if o.hasHeader {
		return records[1:]
	}
	return records
}

// DiscoverSchema discovers the table schema from the first sheet row.
func (l *XlsxLoader) DiscoverSchema(config map[string]string) (*TableSchema, error) {
	opts, err := parseXlsxOptions(config)
	if err != nil {
		return nil, err
	}
	records, err := opts.readRecords()
	if err != nil {
		return nil, err
	}
	return headerSchema(records[0], opts.hasHeader, opts.split(records), opts.inferTypes), nil
}

// Load loads a sheet and returns a DataTable.
func (l *XlsxLoader) Load(name string, config map[string]string) (*tables.DataTable, error) {
	opts, err := parseXlsxOptions(config)
	if err != nil {
		return nil, err
	}
	records, err := opts.readRecords()
	if err != nil {
		return nil, err
	}

	data := opts.split(records)
	schema := headerSchema(records[0], opts.hasHeader, data, opts.inferTypes)
	rows := buildRows(schema, data, opts.emptyAsMissing)
	return tables.NewDataTable(name, schema.Names(), rows), nil
}
