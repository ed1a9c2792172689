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
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/google/spanlist/core/tables"
)

// CsvLoader implements DataSourceLoader for CSV files.
//
// Required config keys:
//   - file_path: Path to the CSV file
//
// Optional config keys:
//   - has_header: "true" or "false" (default: "true")
//   - delimiter: Field delimiter (default: ",")
//   - infer_types: parse int, float and bool columns (default: "false", all strings)
//   - empty_as_missing: leave empty cells out of the row (default: "false")
type CsvLoader struct{}

// NewCsvLoader creates a new CSV loader.
func NewCsvLoader() *CsvLoader {
	return &CsvLoader{}
}

// SourceType returns "csv".
func (l *CsvLoader) SourceType() string {
	return "csv"
}

type csvOptions struct {
	filePath       string
	hasHeader      bool
	delimiter      rune
	inferTypes     bool
	emptyAsMissing bool
}

func parseCsvOptions(config map[string]string) (*csvOptions, error) {
	opts := &csvOptions{filePath: config["file_path"], delimiter: ','}

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
	if d := config["delimiter"]; d != "" {
		opts.delimiter = []rune(d)[0]
	}
	return opts, nil
}

// readRecords reads every record of the file.
func (o *csvOptions) readRecords() ([][]string, error) {
	if o.filePath == "" {
		return nil, fmt.Errorf("file_path is required")
	}
	file, err := os.Open(o.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()
	return o.readFrom(file)
}

func (o *csvOptions) readFrom(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = o.delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}
	return records, nil
}

func (o *csvOptions) split(records [][]string) [][]string {
	if o.hasHeader {
		return records[1:]
	}
	return records
}

// DiscoverSchema discovers the table schema from the CSV header.
// Columns are strings unless infer_types is set.
func (l *CsvLoader) DiscoverSchema(config map[string]string) (*TableSchema, error) {
	opts, err := parseCsvOptions(config)
	if err != nil {
		return nil, err
	}
	records, err := opts.readRecords()
	if err != nil {
		return nil, err
	}
	return headerSchema(records[0], opts.hasHeader, opts.split(records), opts.inferTypes), nil
}

// Load loads a CSV file and returns a DataTable.
func (l *CsvLoader) Load(name string, config map[string]string) (*tables.DataTable, error) {
	opts, err := parseCsvOptions(config)
	if err != nil {
		return nil, err
	}
	records, err := opts.readRecords()
	if err != nil {
		return nil, err
	}
	return opts.table(name, records), nil
}

// LoadReader parses CSV data from r. file_path is ignored.
func (l *CsvLoader) LoadReader(name string, r io.Reader, config map[string]string) (*tables.DataTable, error) {
	opts, err := parseCsvOptions(config)
	if err != nil {
		return nil, err
	}
	records, err := opts.readFrom(r)
	if err != nil {
		return nil, err
	}
	return opts.table(name, records), nil
}

func (o *csvOptions) table(name string, records [][]string) *tables.DataTable {
	data := o.split(records)
	schema := headerSchema(records[0], o.hasHeader, data, o.inferTypes)
	rows := buildRows(schema, data, o.emptyAsMissing)
	return tables.NewDataTable(name, schema.Names(), rows)
}
