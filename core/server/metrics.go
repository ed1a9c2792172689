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
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/google/spanlist/core/spans"
)

type metrics struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
}

func newMetrics(cache *spans.Cache[spans.Row]) *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spanlist_http_request_duration_seconds",
			Help:    "A histogram of duration for requests.",
			Buckets: []float64{1e-5, 1e-4, 5e-4, 1e-3, 5e-3, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"code", "handler", "method"},
	)
	rows := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spanlist_rows_rendered_total",
			Help: "Rows mounted into rendered windows.",
		},
		[]string{"list"},
	)
	registry.MustRegister(duration, rows)

	registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "spanlist_span_cache_hits_total",
			Help: "Span map lookups served from the cache.",
		}, func() float64 { return float64(cache.Stats().Hits) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "spanlist_span_cache_misses_total",
			Help: "Span map lookups that recalculated the spans.",
		}, func() float64 { return float64(cache.Stats().Misses) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "spanlist_span_cache_entries",
			Help: "Span maps currently cached.",
		}, func() float64 { return float64(cache.Len()) }),
	)

	return &metrics{registry: registry, duration: duration, rows: rows}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument wraps handler with request duration tracking under label.
func (m *metrics) instrument(label string, handler http.HandlerFunc) http.Handler {
	return promhttp.InstrumentHandlerDuration(m.duration.MustCurryWith(prometheus.Labels{"handler": label}), handler)
}
