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
	"math"
	"sync"

	"github.com/eclesh/welford"
)

// Counter names reported by Stats
const (
	CounterPasses          = "passes"
	CounterPassesNoop      = "passes.noop"
	CounterPassesInFlight  = "passes.in_flight"
	CounterPassesSlewed    = "passes.slewed"
	CounterPassesStepped   = "passes.stepped"
	CounterPassesFailed    = "passes.failed"
	CounterBackwardsRefuse = "refusals.backwards_step"
	CounterTickTimeouts    = "rtc.tick_timeouts"
	CounterDriftLast       = "drift.last_us"
	CounterDriftPending    = "drift.pending_us"
	CounterDriftMean       = "drift.mean_us"
	CounterDriftStddev     = "drift.stddev_us"
	CounterDriftMaxAbs     = "drift.max_abs_us"
)

// StatsServer is a stats server interface
type StatsServer interface {
	// Reset atomically sets all the counters to 0
	Reset()
	SetCounter(key string, val int64)
	UpdateCounterBy(key string, count int64)
	// AddDrift records a measured hardware minus software delta
	AddDrift(d Delta)
}

// runningStats is what we need from welford
type runningStats interface {
	Add(float64)
	Mean() float64
	Stddev() float64
}

// Stats is an implementation of StatsServer
type Stats struct {
	mux      sync.Mutex
	counters map[string]int64
	drift    runningStats
}

// NewStats created new instance of Stats
func NewStats() *Stats {
	return &Stats{
		counters: map[string]int64{},
		drift:    welford.New(),
	}
}

// UpdateCounterBy will increment counter
func (s *Stats) UpdateCounterBy(key string, count int64) {
	s.mux.Lock()
	s.counters[key] += count
	s.mux.Unlock()
}

// SetCounter will set a counter to the provided value.
func (s *Stats) SetCounter(key string, val int64) {
	s.mux.Lock()
	s.counters[key] = val
	s.mux.Unlock()
}

// AddDrift updates drift counters and running statistics
func (s *Stats) AddDrift(d Delta) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.drift.Add(float64(d))
	s.counters[CounterDriftLast] = int64(d)
	s.counters[CounterDriftMean] = int64(s.drift.Mean())
	// stddev of a single sample is undefined
	if sd := s.drift.Stddev(); !math.IsNaN(sd) && !math.IsInf(sd, 0) {
		s.counters[CounterDriftStddev] = int64(sd)
	}
	if a := int64(d.Abs()); a > s.counters[CounterDriftMaxAbs] {
		s.counters[CounterDriftMaxAbs] = a
	}
}

// GetCounters returns an map of counters
func (s *Stats) GetCounters() map[string]int64 {
	ret := make(map[string]int64)
	s.mux.Lock()
	for key, val := range s.counters {
		ret[key] = val
	}
	s.mux.Unlock()
	return ret
}

// Reset all the values of counters, drift statistics start over
func (s *Stats) Reset() {
	s.mux.Lock()
	for k := range s.counters {
		s.counters[k] = 0
	}
	s.drift = welford.New()
	s.mux.Unlock()
}
