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
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter turns a field value into display text.
type Formatter func(v any) string

var printer = message.NewPrinter(language.English)

// FormatValue is the default formatter: missing values render as empty text.
func FormatValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// FormatNumber renders integers and floats with digit grouping, e.g. 1,234,567.
func FormatNumber(v any) string {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return printer.Sprintf("%d", n)
	case float32, float64:
		return printer.Sprintf("%.2f", n)
	}
	return FormatValue(v)
}

// FormatUpper renders the value in upper case.
func FormatUpper(v any) string {
	return strings.ToUpper(FormatValue(v))
}

// FormatDuration renders durations compactly, e.g. "3d4h0m0s" or "1m30s".
// Numbers are taken as seconds and strings are parsed with time.ParseDuration;
// other values fall back to FormatValue.
func FormatDuration(v any) string {
	var d time.Duration
	switch n := v.(type) {
	case time.Duration:
		d = n
	case int:
		d = time.Duration(n) * time.Second
	case int64:
		d = time.Duration(n) * time.Second
	case float64:
		d = time.Duration(n * float64(time.Second))
	case string:
		parsed, err := time.ParseDuration(n)
		if err != nil {
			return n
		}
		d = parsed
	default:
		return FormatValue(v)
	}
	return formatDurationCompact(d)
}

// formatDurationCompact returns a compact representation like "2h30m0s" or "3d4h0m0s".
func formatDurationCompact(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	var result strings.Builder
	if d < 0 {
		result.WriteString("-")
		d = -d
	}

	// days are not part of time.Duration's format
	days := d / (24 * time.Hour)
	d %= 24 * time.Hour
	if days > 0 {
		result.WriteString(strconv.FormatInt(int64(days), 10))
		result.WriteString("d")
		if d == 0 {
			return result.String()
		}
	}
	result.WriteString(d.String())
	return result.String()
}

// LookupFormatter returns the formatter registered under name.
// The empty name selects the raw formatter.
func LookupFormatter(name string) (Formatter, error) {
	switch name {
	case "", "raw":
		return FormatValue, nil
	case "number":
		return FormatNumber, nil
	case "upper":
		return FormatUpper, nil
	case "duration":
		return FormatDuration, nil
	default:
		return nil, fmt.Errorf("unknown column format %q", name)
	}
}

// FieldRenderer builds a Render function that formats the field stored under key.
func FieldRenderer[R any](field func(R, string) any, key string, format Formatter) func(R) string {
	return func(row R) string {
		return format(field(row, key))
	}
}
