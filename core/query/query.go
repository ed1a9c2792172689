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

package query

import (
	"net/url"
	"strconv"

	"github.com/google/safehtml"
)

// Query represents the parsed state of a list view URL
type Query struct {
	// Base path (e.g., "/list")
	Path string

	Name   string // The list being viewed
	Offset int    // Scroll offset in pixels
	Row    int    // Row inspected by the spans endpoint, -1 when absent
}

// NewQuery creates a Query from a URL. Malformed or negative numbers fall back to
// their defaults.
func NewQuery(u *url.URL) *Query {
	state := &Query{
		Path: u.Path,
		Row:  -1,
	}

	q := u.Query()
	state.Name = q.Get("name")

	if off, err := strconv.Atoi(q.Get("offset")); err == nil && off > 0 {
		state.Offset = off
	}
	if row, err := strconv.Atoi(q.Get("row")); err == nil && row >= 0 {
		state.Row = row
	}

	return state
}

// Clone returns a copy of the query
func (s *Query) Clone() *Query {
	c := *s
	return &c
}

// WithOffset returns a URL scrolled to offset
func (s *Query) WithOffset(offset int) safehtml.URL {
	if offset < 0 {
		offset = 0
	}
	newState := s.Clone()
	newState.Offset = offset
	return newState.ToSafeURL()
}

// ToURL serializes the query
func (s *Query) ToURL() string {
	u := url.URL{Path: s.Path}
	q := url.Values{}
	if s.Name != "" {
		q.Set("name", s.Name)
	}
	if s.Offset > 0 {
		q.Set("offset", strconv.Itoa(s.Offset))
	}
	if s.Row >= 0 {
		q.Set("row", strconv.Itoa(s.Row))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// ToSafeURL converts the Query to a safehtml.URL
func (s *Query) ToSafeURL() safehtml.URL {
	// URLSanitized sanitizes the input string and returns a URL
	return safehtml.URLSanitized(s.ToURL())
}
