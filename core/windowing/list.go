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

package windowing

import (
	"sort"
	"sync"

	"github.com/google/spanlist/core/layout"
)

// DefaultOverscan is the number of extra rows mounted on each side of the viewport.
const DefaultOverscan = 2

// Module is the provider of the default engine.
type Module struct{}

// VariableSizeList returns a new engine instance.
func (Module) VariableSizeList() Lister {
	return NewVariableSizeList()
}

// LegacyModule exposes the default engine only through its Default namespace.
type LegacyModule struct{}

// Default returns the nested namespace.
func (LegacyModule) Default() any {
	return Module{}
}

// VariableSizeList mounts the rows intersecting the viewport plus an overscan
// margin. Item offsets are measured lazily and cached; call ResetAfterIndex
// when the sizes of measured items change.
type VariableSizeList struct {
	mu      sync.Mutex
	count   int
	offsets []int
	sizes   []int
}

// NewVariableSizeList creates an engine with an empty measurement cache.
func NewVariableSizeList() *VariableSizeList {
	return &VariableSizeList{}
}

// ResetAfterIndex drops the measurements of index and every item after it.
func (l *VariableSizeList) ResetAfterIndex(index int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetAfter(index)
}

func (l *VariableSizeList) resetAfter(index int) {
	if index < 0 {
		index = 0
	}
	if index < len(l.offsets) {
		l.offsets = l.offsets[:index]
		l.sizes = l.sizes[:index]
	}
}

// Render computes the mounted range for props and calls row for each index in it.
func (l *VariableSizeList) Render(props ListProps, row RowFunc) Frame {
	if props.ItemCount <= 0 || props.ItemSize == nil {
		return Frame{Start: 0, Stop: -1, VisibleStart: 0, VisibleStop: -1}
	}

	mounted, frame := l.layout(props)
	for _, rp := range mounted {
		row(rp)
	}
	return frame
}

func (l *VariableSizeList) layout(props ListProps) ([]RowProps, Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if props.ItemCount != l.count {
		l.count = props.ItemCount
		l.resetAfter(props.ItemCount)
	}

	total := l.totalSize(props)
	offset := props.ScrollOffset
	if maxOffset := total - props.Height; offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}

	start := l.findItem(props, offset)
	stop := start
	for stop < props.ItemCount-1 {
		l.measure(props, stop+1)
		if l.offsets[stop+1] >= offset+props.Height {
			break
		}
		stop++
	}

	overscan := props.Overscan
	if overscan < 0 {
		overscan = 0
	}
	first := start - overscan
	if first < 0 {
		first = 0
	}
	last := stop + overscan
	if last > props.ItemCount-1 {
		last = props.ItemCount - 1
	}
	l.measure(props, last)

	mounted := make([]RowProps, 0, last-first+1)
	for i := first; i <= last; i++ {
		mounted = append(mounted, RowProps{
			Index: i,
			Style: layout.RowStyle{
				Position: "absolute",
				Top:      l.offsets[i],
				Left:     0,
				Height:   l.sizes[i],
				Width:    "100%",
			},
		})
	}

	return mounted, Frame{
		Start:        first,
		Stop:         last,
		VisibleStart: start,
		VisibleStop:  stop,
		TotalSize:    total,
		ScrollOffset: offset,
	}
}

// measure extends the offset cache up to and including index.
func (l *VariableSizeList) measure(props ListProps, index int) {
	for i := len(l.offsets); i <= index; i++ {
		off := 0
		if i > 0 {
			off = l.offsets[i-1] + l.sizes[i-1]
		}
		l.offsets = append(l.offsets, off)
		l.sizes = append(l.sizes, props.ItemSize(i))
	}
}

// findItem returns the index of the item covering offset.
func (l *VariableSizeList) findItem(props ListProps, offset int) int {
	if n := len(l.offsets); n > 0 && l.offsets[n-1]+l.sizes[n-1] > offset {
		// first measured item ending after offset
		return sort.Search(n, func(i int) bool { return l.offsets[i]+l.sizes[i] > offset })
	}

	i := len(l.offsets)
	for ; i < props.ItemCount; i++ {
		l.measure(props, i)
		if l.offsets[i]+l.sizes[i] > offset {
			return i
		}
	}
	return props.ItemCount - 1
}

// totalSize sums the measured sizes and estimates the rest with the size of the
// last measured item.
func (l *VariableSizeList) totalSize(props ListProps) int {
	l.measure(props, 0)
	n := len(l.offsets)
	measured := l.offsets[n-1] + l.sizes[n-1]
	return measured + (props.ItemCount-n)*l.sizes[n-1]
}
