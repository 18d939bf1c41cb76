/*
   Copyright 2025 The DIRPX Authors.

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

// Package metrics exposes Prometheus collectors for proxy synthesis,
// instantiation and method invocation.
//
// A nil *Metrics is valid and records nothing, so callers never need to
// guard their updates.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "proxy"

// Synthesis results recorded by ObserveSynthesis.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Metrics groups the collectors of one factory.
type Metrics struct {
	// syntheses counts type lookups by result (hit, miss, error).
	syntheses *prometheus.CounterVec
	// instances counts successfully built proxy instances.
	instances prometheus.Counter
	// invocations counts proxied calls by method mode.
	invocations *prometheus.CounterVec
	// types tracks the number of cached proxy types.
	types prometheus.Gauge
}

// New creates unregistered collectors under namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		syntheses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "synthesis_total",
				Help:      "Total number of proxy type lookups by result",
			},
			[]string{"result"}, // hit, miss, error
		),
		instances: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "instances_total",
			Help:      "Total number of proxy instances created",
		}),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invocations_total",
				Help:      "Total number of proxied method calls by mode",
			},
			[]string{"mode"}, // intercept, replace, direct
		),
		types: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cached_types",
			Help:      "Number of proxy types in the synthesis cache",
		}),
	}
}

// Collectors returns every collector, for custom registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	if m == nil {
		return nil
	}
	return []prometheus.Collector{m.syntheses, m.instances, m.invocations, m.types}
}

// Register registers all collectors with r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveSynthesis records a type lookup with one of the Result* values and
// the cache size after it.
func (m *Metrics) ObserveSynthesis(result string, cached int) {
	if m == nil {
		return
	}
	m.syntheses.WithLabelValues(result).Inc()
	m.types.Set(float64(cached))
}

// ObserveInstance records a built instance.
func (m *Metrics) ObserveInstance() {
	if m == nil {
		return
	}
	m.instances.Inc()
}

// ObserveInvocation records a call dispatched in mode.
func (m *Metrics) ObserveInvocation(mode string) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(mode).Inc()
}
