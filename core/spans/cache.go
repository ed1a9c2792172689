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

package spans

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of span maps kept by a Cache when no size is given.
const DefaultCacheSize = 16

// cacheKey identifies a dataset by the address and length of its backing array
// and a key list by its digest.
type cacheKey struct {
	data uintptr
	rows int
	keys uint64
}

type cacheEntry[R any] struct {
	data  []R // pins the backing array so its address cannot be reused while cached
	keys  []string
	spans Map
}

// Stats counts lookups served by a Cache.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Cache memoizes span maps per (dataset, key list) pair. Passing the same slice
// and keys again returns the previously computed map; a new slice or a different
// key list triggers a full recalculation. Cache is safe for concurrent use.
type Cache[R any] struct {
	field   FieldFunc[R]
	entries *lru.Cache[cacheKey, *cacheEntry[R]]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewCache creates a cache holding up to size span maps.
func NewCache[R any](size int, field FieldFunc[R]) (*Cache[R], error) {
	if field == nil {
		return nil, fmt.Errorf("field accessor is required")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[cacheKey, *cacheEntry[R]](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create span cache: %w", err)
	}
	return &Cache[R]{field: field, entries: entries}, nil
}

// Get returns the span map of data for keys, computing it on a miss.
func (c *Cache[R]) Get(data []R, keys []string) Map {
	k := cacheKey{
		data: reflect.ValueOf(data).Pointer(),
		rows: len(data),
		keys: digestKeys(keys),
	}

	if e, ok := c.entries.Get(k); ok && sameKeys(e.keys, keys) {
		c.hits.Add(1)
		return e.spans
	}

	c.misses.Add(1)
	m := Calculate(data, keys, c.field)
	c.entries.Add(k, &cacheEntry[R]{
		data:  data,
		keys:  append([]string(nil), keys...),
		spans: m,
	})
	return m
}

// Purge drops every cached map.
func (c *Cache[R]) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached maps.
func (c *Cache[R]) Len() int {
	return c.entries.Len()
}

// Stats returns the hit and miss counters.
func (c *Cache[R]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func digestKeys(keys []string) uint64 {
	d := xxhash.New()
	for _, k := range keys {
		_, _ = d.WriteString(k)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
