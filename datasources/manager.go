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
	"path/filepath"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/google/spanlist/core/tables"
)

// DataSource describes where the rows of one table come from.
type DataSource struct {
	Name       string
	SourceType string
	Config     map[string]string
	SortBy     []string // optional columns the loaded rows are ordered by
}

// Manager handles loading and caching of data sources.
// Sources are registered eagerly; data is loaded lazily on demand.
type Manager struct {
	mu sync.RWMutex

	// Source metadata indexed by name
	sources map[string]*DataSource

	// Cached tables indexed by source name - populated lazily
	tables map[string]*tables.DataTable

	// Registered loaders indexed by source_type
	loaders map[string]DataSourceLoader

	// Base directory for resolving relative paths
	baseDir string
}

// NewManager creates a new data source manager with the built-in loaders registered.
func NewManager() *Manager {
	m := &Manager{
		sources: make(map[string]*DataSource),
		tables:  make(map[string]*tables.DataTable),
		loaders: make(map[string]DataSourceLoader),
	}
	m.RegisterLoader(NewCsvLoader())
	m.RegisterLoader(NewXlsxLoader())
	return m
}

// RegisterLoader registers a data source loader for a specific source type.
// If a loader is already registered for this type, it will be replaced.
func (m *Manager) RegisterLoader(loader DataSourceLoader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[loader.SourceType()] = loader
}

// SetBaseDir sets the directory relative file paths are resolved against.
func (m *Manager) SetBaseDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseDir = dir
}

// AddSource registers a source. Any cached table of the same name is dropped.
func (m *Manager) AddSource(source *DataSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[source.Name] = source
	delete(m.tables, source.Name)
}

// RegisterTable adds an already built table, e.g. generated demo data.
func (m *Manager) RegisterTable(table *tables.DataTable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.Name()] = table
}

// GetSourceNames returns the names of all registered sources and tables, sorted.
func (m *Manager) GetSourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	for name := range m.sources {
		seen[name] = true
	}
	for name := range m.tables {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadData returns the table of a source, loading it on first use.
func (m *Manager) LoadData(sourceName string) (*tables.DataTable, error) {
	// Check cache first (with read lock)
	m.mu.RLock()
	if table, ok := m.tables[sourceName]; ok {
		m.mu.RUnlock()
		return table, nil
	}
	source, ok := m.sources[sourceName]
	if !ok {
		m.mu.RUnlock()
		return nil, fmt.Errorf("source %q not found", sourceName)
	}
	loader, hasLoader := m.loaders[source.SourceType]
	baseDir := m.baseDir
	m.mu.RUnlock()

	if !hasLoader {
		return nil, fmt.Errorf("no loader registered for source type %q", source.SourceType)
	}

	config := resolveConfigPaths(source.Config, baseDir)

	table, err := loader.Load(sourceName, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load source %q: %w", sourceName, err)
	}
	if len(source.SortBy) > 0 {
		if table, err = table.SortBy(source.SortBy...); err != nil {
			return nil, fmt.Errorf("failed to sort source %q: %w", sourceName, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"source": sourceName,
		"type":   source.SourceType,
		"rows":   table.Length(),
	}).Info("Loaded data source.")

	m.mu.Lock()
	if cached, ok := m.tables[sourceName]; ok {
		// another caller finished first; keep one table per source
		table = cached
	} else {
		m.tables[sourceName] = table
	}
	m.mu.Unlock()

	return table, nil
}

// resolveConfigPaths resolves relative file paths in config to absolute paths.
func resolveConfigPaths(config map[string]string, baseDir string) map[string]string {
	if baseDir == "" {
		return config
	}

	resolved := make(map[string]string, len(config))
	for k, v := range config {
		if k == "file_path" && v != "" && !filepath.IsAbs(v) {
			resolved[k] = filepath.Join(baseDir, v)
		} else {
			resolved[k] = v
		}
	}
	return resolved
}

// InvalidateCache drops the cached table of a source; the next LoadData
// reloads it as a new table.
func (m *Manager) InvalidateCache(sourceName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sources[sourceName]; ok {
		delete(m.tables, sourceName)
	}
}

// IsLoaded reports whether a source's data is cached.
func (m *Manager) IsLoaded(sourceName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tables[sourceName]
	return ok
}
