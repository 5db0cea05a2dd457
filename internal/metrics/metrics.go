// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package metrics holds the Prometheus instruments of a staffsearch run.
// A run is a short-lived process, so the registry is written to a
// node-exporter textfile instead of being scraped.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the private registry all staffsearch metrics register with.
var Registry = prometheus.NewRegistry()

// Request and pipeline metrics.
var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "staffsearch",
			Name:      "requests_total",
			Help:      "Total number of Elasticsearch requests",
		},
		[]string{"op", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "staffsearch",
			Name:      "request_duration_seconds",
			Help:      "Elasticsearch request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"op"},
	)

	DocumentsLoaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "staffsearch",
			Name:      "documents_loaded_total",
			Help:      "Documents submitted through bulk loads",
		},
		[]string{"index"},
	)

	QueryHits = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "staffsearch",
			Name:      "query_hits",
			Help:      "Hits returned by the last execution of a canned query",
		},
		[]string{"query"},
	)
)

func init() {
	Registry.MustRegister(RequestsTotal, RequestDuration, DocumentsLoaded, QueryHits)
}

// ObserveRequest records one Elasticsearch round trip. A zero status means
// the request never got a response.
func ObserveRequest(op string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	RequestsTotal.WithLabelValues(op, label).Inc()
	RequestDuration.WithLabelValues(op).Observe(d.Seconds())
}

// WriteTextfile writes the registry to path in the text exposition format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
