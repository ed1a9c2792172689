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

package rendering

import (
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/google/spanlist/core/mergedlist"
	"github.com/google/spanlist/core/spans"
)

// DumpWindow writes one line per visible cell fragment of w.
func DumpWindow(out io.Writer, w mergedlist.Window) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Row", "Top", "Column", "Left", "Width", "Height", "Z", "Span", "Content"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)

	for _, row := range w.Rows {
		for _, c := range row.Cells {
			table.Append([]string{
				strconv.Itoa(row.Index),
				strconv.Itoa(row.Style.Top),
				c.Key,
				strconv.Itoa(c.Left),
				strconv.Itoa(c.Width),
				strconv.Itoa(c.Height),
				strconv.Itoa(c.ZIndex),
				strconv.Itoa(c.Span),
				c.Content,
			})
		}
	}
	table.Render()
}

// DumpSpans writes the entries of m ordered by row, then by the position of
// the key in keys.
func DumpSpans(out io.Writer, m spans.Map, rows int, keys []string) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Cell", "Span", "Visible", "Ref"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	ids := make([]string, 0, len(m))
	for r := 0; r < rows; r++ {
		for _, k := range keys {
			id := spans.CellID(r, k)
			if _, ok := m[id]; ok {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) != len(m) {
		// entries for keys outside the list, keep them visible
		extra := make([]string, 0)
		known := make(map[string]bool, len(ids))
		for _, id := range ids {
			known[id] = true
		}
		for id := range m {
			if !known[id] {
				extra = append(extra, id)
			}
		}
		sort.Strings(extra)
		ids = append(ids, extra...)
	}

	for _, id := range ids {
		e := m[id]
		ref := ""
		if e.RefRow != spans.NoRef {
			ref = strconv.Itoa(e.RefRow)
		}
		table.Append([]string{id, strconv.Itoa(e.Span), strconv.FormatBool(e.Visible), ref})
	}
	table.Render()
}
