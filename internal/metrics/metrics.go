// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics records index build metrics in a Prometheus
// registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/tagindex/tagtree"
)

const namespace = "imtree"

// Build collects the metrics of index builds. It implements
// tagtree.Observer.
type Build struct {
	Registry *prometheus.Registry

	records *prometheus.CounterVec
	merge   prometheus.Histogram
	leaves  prometheus.Gauge
}

var _ tagtree.Observer = (*Build)(nil)

// NewBuild returns a Build registered in a fresh registry.
func NewBuild() *Build {
	b := &Build{
		Registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records considered for an index, by outcome.",
		}, []string{"outcome"}),
		merge: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "merge_seconds",
			Help:      "Time to merge one partial index into the result.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		leaves: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "leaves",
			Help:      "Leaves in the most recently built index.",
		}),
	}
	b.Registry.MustRegister(b.records, b.merge, b.leaves)
	return b
}

func (b *Build) RecordAdded(ok bool) {
	outcome := "added"
	if !ok {
		outcome = "skipped"
	}
	b.records.WithLabelValues(outcome).Inc()
}

func (b *Build) Merged(d time.Duration) {
	b.merge.Observe(d.Seconds())
}

func (b *Build) Built(leaves int) {
	b.leaves.Set(float64(leaves))
}

// WriteFile writes the current metrics to path in the text
// exposition format read by the node exporter's textfile collector.
func (b *Build) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, b.Registry)
}
