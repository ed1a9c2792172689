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
	"regexp"
	"sort"
	"strings"
)

// Style is a set of CSS declarations, property name to value.
type Style map[string]string

var (
	propertyPattern = regexp.MustCompile(`^-?[a-z][a-z0-9-]*$`)
	valuePattern    = regexp.MustCompile(`^[a-zA-Z0-9#%.,()\- ]*$`)
)

// Validate rejects property names and values that could escape a style attribute.
func (s Style) Validate() error {
	for prop, value := range s {
		if !propertyPattern.MatchString(prop) {
			return fmt.Errorf("invalid style property %q", prop)
		}
		if !valuePattern.MatchString(value) || strings.Contains(strings.ToLower(value), "url(") ||
			strings.Contains(strings.ToLower(value), "expression(") {
			return fmt.Errorf("invalid value %q for style property %q", value, prop)
		}
	}
	return nil
}

// Merge returns a new Style with the declarations of overrides applied on top of s.
func (s Style) Merge(overrides Style) Style {
	merged := make(Style, len(s)+len(overrides))
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// CSS serializes the declarations sorted by property name.
func (s Style) CSS() string {
	props := make([]string, 0, len(s))
	for p := range s {
		props = append(props, p)
	}
	sort.Strings(props)

	var sb strings.Builder
	for i, p := range props {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(p)
		sb.WriteString(": ")
		sb.WriteString(s[p])
		sb.WriteString(";")
	}
	return sb.String()
}
