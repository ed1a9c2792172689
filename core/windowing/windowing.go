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

// Package windowing defines the contract of the virtualization engine a list is
// rendered through, resolves an engine from a provider value, and ships a
// default variable-size engine.
package windowing

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/google/spanlist/core/layout"
)

// ListProps configures one render pass of an engine.
type ListProps struct {
	Height       int                 // viewport height in pixels
	Width        string              // viewport width, e.g. "800px" or "100%"
	ItemCount    int                 // total number of rows
	ItemSize     func(index int) int // height of row index in pixels
	Overscan     int                 // rows materialized beyond each viewport edge
	ScrollOffset int                 // pixels scrolled from the top
}

// RowProps is passed to the row callback for every mounted row.
type RowProps struct {
	Index int
	Style layout.RowStyle
}

// RowFunc renders one mounted row.
type RowFunc func(RowProps)

// Frame describes the rows an engine mounted.
type Frame struct {
	Start        int // first mounted index, inclusive
	Stop         int // last mounted index, inclusive; -1 when nothing is mounted
	VisibleStart int
	VisibleStop  int
	TotalSize    int
	ScrollOffset int
}

// Lister is a virtualization engine. Render decides which rows to mount and
// where, and calls row for each of them in index order.
type Lister interface {
	Render(props ListProps, row RowFunc) Frame
}

// Factory creates a new engine instance.
type Factory func() Lister

// Capabilities a provider can expose.
type (
	variableSizeLister interface{ VariableSizeList() Lister }
	plainLister        interface{ List() Lister }
	namespace          interface{ Default() any }
)

type probe struct {
	name    string
	resolve func(provider any) (Factory, bool)
}

// probes are tried in order; the first match wins.
var probes = []probe{
	{"VariableSizeList", variableSizeList},
	{"List", list},
	{"Default().VariableSizeList", nested(variableSizeList)},
	{"Default().List", nested(list)},
}

func variableSizeList(p any) (Factory, bool) {
	v, ok := p.(variableSizeLister)
	if !ok {
		return nil, false
	}
	return v.VariableSizeList, true
}

func list(p any) (Factory, bool) {
	v, ok := p.(plainLister)
	if !ok {
		return nil, false
	}
	return v.List, true
}

func nested(inner func(any) (Factory, bool)) func(any) (Factory, bool) {
	return func(p any) (Factory, bool) {
		ns, ok := p.(namespace)
		if !ok {
			return nil, false
		}
		d := ns.Default()
		if d == nil {
			return nil, false
		}
		return inner(d)
	}
}

// ResolveError reports that no probe matched a provider.
type ResolveError struct {
	Provider string   // dynamic type of the provider
	Probes   []string // capabilities tried, in order
	Exports  []string // exported methods of the provider and its default namespace
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("no list engine found on %s: tried %s; available exports: [%s]",
		e.Provider, strings.Join(e.Probes, ", "), strings.Join(e.Exports, ", "))
}

// Resolve locates the list engine exposed by provider. When nothing matches it
// logs the available surface and returns a *ResolveError.
func Resolve(provider any) (Factory, error) {
	for _, p := range probes {
		if f, ok := p.resolve(provider); ok {
			logrus.WithField("probe", p.name).Debug("Resolved list engine.")
			return f, nil
		}
	}

	err := &ResolveError{
		Provider: fmt.Sprintf("%T", provider),
		Probes:   probeNames(),
		Exports:  exports(provider),
	}
	logrus.WithFields(logrus.Fields{
		"provider": err.Provider,
		"probes":   err.Probes,
		"exports":  err.Exports,
	}).Error("Could not find 'VariableSizeList' or 'List' in list engine exports.")
	return nil, err
}

func probeNames() []string {
	names := make([]string, len(probes))
	for i, p := range probes {
		names[i] = p.name
	}
	return names
}

func exports(provider any) []string {
	if provider == nil {
		return nil
	}
	names := methodNames(provider, "")
	if ns, ok := provider.(namespace); ok {
		if d := ns.Default(); d != nil {
			names = append(names, methodNames(d, "Default().")...)
		}
	}
	sort.Strings(names)
	return names
}

func methodNames(v any, prefix string) []string {
	t := reflect.TypeOf(v)
	names := make([]string, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		names = append(names, prefix+t.Method(i).Name)
	}
	return names
}
