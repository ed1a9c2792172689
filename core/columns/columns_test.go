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
	"testing"
	"time"
)

type record map[string]any

func field(r record, key string) any { return r[key] }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		defs    []Def[record]
		wantErr error
	}{
		{"ok", []Def[record]{{Key: "a", Width: 10}, {Key: "b"}}, nil},
		{"empty key", []Def[record]{{Width: 10}}, ErrEmptyKey},
		{"duplicate", []Def[record]{{Key: "a"}, {Key: "a"}}, ErrDuplicateColumn},
		{"negative width", []Def[record]{{Key: "a", Width: -1}}, ErrNegativeWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.defs)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RejectsUnsafeStyle(t *testing.T) {
	defs := []Def[record]{{Key: "a", Style: Style{"color": "red; background: url(x)"}}}
	if err := Validate(defs); err == nil {
		t.Error("expected error for unsafe style value")
	}

	defs = []Def[record]{{Key: "a", Style: Style{"Color}": "red"}}}
	if err := Validate(defs); err == nil {
		t.Error("expected error for unsafe style property")
	}
}

func TestStyle_MergeAndCSS(t *testing.T) {
	base := Style{"background": "white", "display": "flex"}
	merged := base.Merge(Style{"background": "#fafafa", "color": "#333"})

	want := "background: #fafafa; color: #333; display: flex;"
	if got := merged.CSS(); got != want {
		t.Errorf("CSS() = %q, want %q", got, want)
	}
	if base["background"] != "white" {
		t.Error("Merge must not modify the receiver")
	}
}

func TestKeysAndTotalWidth(t *testing.T) {
	defs := []Def[record]{{Key: "a", Width: 100}, {Key: "b", Width: 50}, {Key: "c", Width: 25}}

	keys := Keys(defs)
	if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
		t.Errorf("Keys() = %v", keys)
	}
	if w := TotalWidth(defs); w != 175 {
		t.Errorf("TotalWidth() = %d, want 175", w)
	}
	if defs[0].DisplayName() != "a" {
		t.Errorf("DisplayName() = %q, want key fallback", defs[0].DisplayName())
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		format string
		in     any
		want   string
	}{
		{"raw", nil, ""},
		{"raw", "EU", "EU"},
		{"raw", 42, "42"},
		{"", 3.5, "3.5"},
		{"number", int64(1234567), "1,234,567"},
		{"number", 1234.5, "1,234.50"},
		{"number", "n/a", "n/a"},
		{"upper", "eu", "EU"},
		{"duration", int64(90), "1m30s"},
		{"duration", 90000, "1d1h0m0s"},
		{"duration", 48 * time.Hour, "2d"},
		{"duration", 1.5, "1.5s"},
		{"duration", -60, "-1m0s"},
		{"duration", 0, "0s"},
		{"duration", "2h", "2h0m0s"},
		{"duration", "soon", "soon"},
		{"duration", true, "true"},
	}

	for _, tt := range tests {
		f, err := LookupFormatter(tt.format)
		if err != nil {
			t.Fatalf("LookupFormatter(%q) failed: %v", tt.format, err)
		}
		if got := f(tt.in); got != tt.want {
			t.Errorf("format %q of %v = %q, want %q", tt.format, tt.in, got, tt.want)
		}
	}

	if _, err := LookupFormatter("bogus"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFieldRenderer(t *testing.T) {
	render := FieldRenderer(field, "amount", FormatNumber)
	if got := render(record{"amount": 2500}); got != "2,500" {
		t.Errorf("render() = %q, want %q", got, "2,500")
	}
	if got := render(record{}); got != "" {
		t.Errorf("render() of missing field = %q, want empty", got)
	}
}
