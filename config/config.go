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

// Package config reads the YAML configuration of the server and its lists.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/google/spanlist/core/columns"
	"github.com/google/spanlist/core/mergedlist"
	"github.com/google/spanlist/core/spans"
	"github.com/google/spanlist/core/windowing"
)

// Defaults applied to fields left out of the file.
const (
	DefaultAddr      = ":8097"
	DefaultRowHeight = 40
	DefaultHeight    = 400
	DefaultWidth     = "100%"
)

var (
	// ErrNoLists is returned when the configuration defines no list.
	ErrNoLists = errors.New("no lists configured")
	// ErrDuplicateList is returned when two lists share a name.
	ErrDuplicateList = errors.New("duplicate list name")
)

// Config is the root of the configuration file.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Cache  CacheConfig  `yaml:"cache"`
	Log    LogConfig    `yaml:"log"`
	Lists  []ListConfig `yaml:"lists"`

	// BaseDir is the directory of the file, used to resolve source paths.
	BaseDir string `yaml:"-"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type CacheConfig struct {
	Size int `yaml:"size"` // span maps kept per cache
}

type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // text or json
}

// ListConfig describes one list: where its rows come from and how they are shown.
type ListConfig struct {
	Name      string       `yaml:"name"`
	Title     string       `yaml:"title"`
	Source    SourceConfig `yaml:"source"`
	RowHeight int          `yaml:"rowHeight"`
	Height    int          `yaml:"height"`
	Width     string       `yaml:"width"`
	Overscan  *int         `yaml:"overscan"`

	// MergeKeys left out merges every column; an empty list merges none.
	MergeKeys []string       `yaml:"mergeKeys"`
	SortBy    []string       `yaml:"sortBy"`
	Columns   []ColumnConfig `yaml:"columns"`
}

// SourceConfig names a loader and its options, e.g. type csv with file_path.
type SourceConfig struct {
	Type    string            `yaml:"type"`
	Options map[string]string `yaml:"options"`
}

type ColumnConfig struct {
	Key    string            `yaml:"key"`
	Title  string            `yaml:"title"`
	Width  int               `yaml:"width"`
	Style  map[string]string `yaml:"style"`
	Format string            `yaml:"format"` // raw, number, upper or duration
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.BaseDir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes a YAML document, applies defaults and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = spans.DefaultCacheSize
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	for i := range c.Lists {
		l := &c.Lists[i]
		if l.Title == "" {
			l.Title = l.Name
		}
		if l.RowHeight == 0 {
			l.RowHeight = DefaultRowHeight
		}
		if l.Height == 0 {
			l.Height = DefaultHeight
		}
		if l.Width == "" {
			l.Width = DefaultWidth
		}
		if l.Overscan == nil {
			overscan := windowing.DefaultOverscan
			l.Overscan = &overscan
		}
	}
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache size %d must not be negative", c.Cache.Size)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log format %q must be text or json", c.Log.Format)
	}
	if len(c.Lists) == 0 {
		return ErrNoLists
	}

	seen := make(map[string]bool, len(c.Lists))
	for i := range c.Lists {
		l := &c.Lists[i]
		if l.Name == "" {
			return fmt.Errorf("list %d: name is required", i)
		}
		if seen[l.Name] {
			return fmt.Errorf("list %q: %w", l.Name, ErrDuplicateList)
		}
		seen[l.Name] = true
		if err := l.validate(); err != nil {
			return fmt.Errorf("list %q: %w", l.Name, err)
		}
	}
	return nil
}

func (l *ListConfig) validate() error {
	if l.Source.Type == "" {
		return fmt.Errorf("source type is required")
	}
	if l.RowHeight <= 0 {
		return fmt.Errorf("rowHeight %d must be positive", l.RowHeight)
	}
	if l.Height <= 0 {
		return fmt.Errorf("height %d must be positive", l.Height)
	}
	if err := mergedlist.ValidateWidth(l.Width); err != nil {
		return err
	}
	if l.Overscan != nil && *l.Overscan < 0 {
		return fmt.Errorf("overscan %d must not be negative", *l.Overscan)
	}
	// Columns are checked against the table once it is loaded; only the
	// parts that need no data are checked here.
	if _, err := l.ColumnDefs(nil); err != nil {
		return err
	}
	return nil
}

// ColumnDefs builds the column definitions of the list. Without configured
// columns every table column is shown with default settings.
func (l *ListConfig) ColumnDefs(tableColumns []string) ([]columns.Def[spans.Row], error) {
	if len(l.Columns) == 0 {
		defs := make([]columns.Def[spans.Row], len(tableColumns))
		for i, name := range tableColumns {
			defs[i] = columns.Def[spans.Row]{Key: name, Width: 120}
		}
		return defs, nil
	}

	defs := make([]columns.Def[spans.Row], len(l.Columns))
	for i, c := range l.Columns {
		format, err := columns.LookupFormatter(c.Format)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Key, err)
		}
		defs[i] = columns.Def[spans.Row]{
			Key:    c.Key,
			Title:  c.Title,
			Width:  c.Width,
			Style:  columns.Style(c.Style),
			Render: columns.FieldRenderer(spans.RowField, c.Key, format),
		}
	}
	if err := columns.Validate(defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// NewLogger returns a logger set up with the configured level and format.
func (c *LogConfig) NewLogger() (*logrus.Logger, error) {
	logger := logrus.New()
	if err := c.Configure(logger); err != nil {
		return nil, err
	}
	return logger, nil
}

// Configure applies level and format to logger, e.g. logrus.StandardLogger().
func (c *LogConfig) Configure(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)

	switch c.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("log format %q must be text or json", c.Format)
	}
	return nil
}
