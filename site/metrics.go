// Copyright 2024 The lawe Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package site

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records batch processing measurements.
type Metrics struct {
	Registry *prometheus.Registry

	pages          *prometheus.CounterVec
	failures       *prometheus.CounterVec
	cacheHits      prometheus.Counter
	processingTime prometheus.Histogram
	parseErrors    prometheus.Counter
}

// NewMetrics returns metrics registered on a new registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		pages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lawe_pages_processed_total",
				Help: "Total number of pages processed",
			},
			[]string{"result"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lawe_page_failures_total",
				Help: "Total number of page failures by pipeline stage",
			},
			[]string{"stage"},
		),
		cacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "lawe_cache_hits_total",
				Help: "Total number of pages served from the cache",
			},
		),
		processingTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lawe_page_processing_seconds",
				Help:    "Page processing time in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		parseErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "lawe_parse_errors_total",
				Help: "Total number of recovered parse errors",
			},
		),
	}
}

// WriteTextfile writes the current metric values to path
// in the Prometheus text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
