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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/google/spanlist/config"
	"github.com/google/spanlist/core/columns"
	"github.com/google/spanlist/core/mergedlist"
	"github.com/google/spanlist/core/query"
	"github.com/google/spanlist/core/rendering"
	"github.com/google/spanlist/core/spans"
	"github.com/google/spanlist/core/views"
	"github.com/google/spanlist/core/windowing"
	"github.com/google/spanlist/datasources"
)

// listEntry is one configured list with its loaded rows.
type listEntry struct {
	cfg  config.ListConfig
	defs []columns.Def[spans.Row]
	list *mergedlist.List[spans.Row]
}

// Server represents the application server with all its dependencies
type Server struct {
	manager  *datasources.Manager
	renderer *rendering.ListRenderer
	cache    *spans.Cache[spans.Row]
	metrics  *metrics
	log      *logrus.Logger

	lists map[string]*listEntry
	order []string
}

// Option customizes a Server.
type Option func(*options)

type options struct {
	provider any
	logger   *logrus.Logger
}

// WithProvider sets the module the list engine is resolved from.
func WithProvider(provider any) Option {
	return func(o *options) { o.provider = provider }
}

// WithLogger sets the logger; the standard logrus logger is used otherwise.
func WithLogger(logger *logrus.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewServer loads every configured list through manager and prepares it for
// rendering. All lists share one span cache.
func NewServer(cfg *config.Config, manager *datasources.Manager, opts ...Option) (*Server, error) {
	o := options{provider: windowing.Module{}, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	renderer, err := rendering.NewListRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	cache, err := spans.NewCache(cfg.Cache.Size, spans.RowField)
	if err != nil {
		return nil, err
	}

	s := &Server{
		manager:  manager,
		renderer: renderer,
		cache:    cache,
		metrics:  newMetrics(cache),
		log:      o.logger,
		lists:    make(map[string]*listEntry),
	}

	if cfg.BaseDir != "" {
		manager.SetBaseDir(cfg.BaseDir)
	}
	for _, lc := range cfg.Lists {
		entry, err := s.buildList(lc, o.provider)
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", lc.Name, err)
		}
		s.lists[lc.Name] = entry
		s.order = append(s.order, lc.Name)
	}
	return s, nil
}

func (s *Server) buildList(lc config.ListConfig, provider any) (*listEntry, error) {
	s.manager.AddSource(&datasources.DataSource{
		Name:       lc.Name,
		SourceType: lc.Source.Type,
		Config:     lc.Source.Options,
		SortBy:     lc.SortBy,
	})
	table, err := s.manager.LoadData(lc.Name)
	if err != nil {
		return nil, err
	}

	defs, err := lc.ColumnDefs(table.GetColumnNames())
	if err != nil {
		return nil, err
	}
	for _, d := range defs {
		if !table.HasColumn(d.Key) {
			s.log.WithFields(logrus.Fields{"list": lc.Name, "column": d.Key}).Warn("Column not found in source, cells render empty.")
		}
	}

	overscan := windowing.DefaultOverscan
	if lc.Overscan != nil {
		overscan = *lc.Overscan
	}
	list, err := mergedlist.New(mergedlist.Config[spans.Row]{
		Data:      table.Rows(),
		Columns:   defs,
		RowHeight: lc.RowHeight,
		Height:    lc.Height,
		Width:     lc.Width,
		Overscan:  overscan,
		MergeKeys: lc.MergeKeys,
	}, provider, s.cache, spans.RowField)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"list":      lc.Name,
		"rows":      list.Len(),
		"mergeKeys": list.MergeKeys(),
	}).Info("List ready.")
	return &listEntry{cfg: lc, defs: defs, list: list}, nil
}

// ListNames returns the configured list names in configuration order.
func (s *Server) ListNames() []string {
	return append([]string(nil), s.order...)
}

// List returns a configured list by name.
func (s *Server) List(name string) (*mergedlist.List[spans.Row], bool) {
	e, ok := s.lists[name]
	if !ok {
		return nil, false
	}
	return e.list, true
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s.metrics.instrument("landing", s.handleLanding))
	mux.Handle("/list", s.metrics.instrument("list", s.handleList))
	mux.Handle("/spans", s.metrics.instrument("spans", s.handleSpans))
	mux.Handle("/metrics", s.metrics.handler())
	return mux
}

// Run serves Handler on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("Server listening.")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	vm := views.LandingViewModel{Title: "Spanlist"}
	for _, name := range s.order {
		e := s.lists[name]
		q := &query.Query{Path: "/list", Name: name, Row: -1}
		vm.Lists = append(vm.Lists, views.ListInfo{
			Name:        name,
			Title:       e.cfg.Title,
			URL:         q.ToSafeURL(),
			RecordCount: e.list.Len(),
			ColumnCount: len(e.defs),
			MergeKeys:   strings.Join(e.list.MergeKeys(), ", "),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderLanding(w, vm); err != nil {
		// the renderer may have already written to the response
		s.log.WithError(err).Error("Landing page rendering error.")
	}
}

func (s *Server) lookup(w http.ResponseWriter, q *query.Query) (*listEntry, bool) {
	if q.Name == "" {
		http.Error(w, "name parameter is required", http.StatusBadRequest)
		return nil, false
	}
	e, ok := s.lists[q.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("list '%s' not found", q.Name), http.StatusNotFound)
		return nil, false
	}
	return e, true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := query.NewQuery(r.URL)
	e, ok := s.lookup(w, q)
	if !ok {
		return
	}

	win, err := e.list.Window(q.Offset)
	if err != nil {
		s.log.WithError(err).WithField("list", q.Name).Error("Window rendering failed.")
		http.Error(w, "failed to render window", http.StatusInternalServerError)
		return
	}
	s.metrics.rows.WithLabelValues(q.Name).Add(float64(len(win.Rows)))

	vm := views.BuildListViewModel(e.cfg.Title, e.defs, win, e.list.Len(), q)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, vm); err != nil {
		s.log.WithError(err).WithField("list", q.Name).Error("Template rendering error.")
	}
}

// SpanCell is the span entry of one merge key cell, as served by /spans.
type SpanCell struct {
	Key     string `json:"key"`
	CellID  string `json:"cellId"`
	Span    int    `json:"span"`
	Visible bool   `json:"visible"`
	RefRow  int    `json:"refRow"`
}

// SpanResponse is the /spans payload.
type SpanResponse struct {
	List  string     `json:"list"`
	Row   int        `json:"row"`
	Cells []SpanCell `json:"cells"`
}

func (s *Server) handleSpans(w http.ResponseWriter, r *http.Request) {
	q := query.NewQuery(r.URL)
	e, ok := s.lookup(w, q)
	if !ok {
		return
	}
	if q.Row < 0 || q.Row >= e.list.Len() {
		http.Error(w, fmt.Sprintf("row must be in [0, %d)", e.list.Len()), http.StatusBadRequest)
		return
	}

	keys := e.list.MergeKeys()
	sort.Strings(keys)
	resp := SpanResponse{List: q.Name, Row: q.Row, Cells: make([]SpanCell, 0, len(keys))}
	for _, key := range keys {
		entry := e.list.Entry(q.Row, key)
		resp.Cells = append(resp.Cells, SpanCell{
			Key:     key,
			CellID:  spans.CellID(q.Row, key),
			Span:    entry.Span,
			Visible: entry.Visible,
			RefRow:  entry.RefRow,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.WithError(err).Error("Failed to encode span response.")
	}
}
