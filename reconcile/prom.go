/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package reconcile

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "polite_hwclock_"

// promCollector exposes Stats counters as prometheus gauges.
// The set of counters grows at runtime so the collector is unchecked.
type promCollector struct {
	stats *Stats
}

// Describe implements prometheus.Collector
func (c *promCollector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector
func (c *promCollector) Collect(ch chan<- prometheus.Metric) {
	for key, val := range c.stats.GetCounters() {
		desc := prometheus.NewDesc(metricPrefix+flattenKey(key), key, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(val))
	}
}

// NewPrometheusRegistry returns a registry serving all counters of stats
func NewPrometheusRegistry(stats *Stats) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(&promCollector{stats: stats})
	return registry
}

func flattenKey(key string) string {
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, ".", "_")
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, "=", "_")
	key = strings.ReplaceAll(key, "/", "_")
	return key
}
