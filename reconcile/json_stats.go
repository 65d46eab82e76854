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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// JSONStats is what we want to report as stats via http
type JSONStats struct {
	*Stats
	sysStats SysStats
}

// NewJSONStats returns a new JSONStats
func NewJSONStats() *JSONStats {
	return &JSONStats{Stats: NewStats()}
}

// CollectSysStats adds process and runtime stats to counters
func (s *JSONStats) CollectSysStats(interval time.Duration) error {
	stats, err := s.sysStats.CollectRuntimeStats(interval)
	if err != nil {
		return err
	}
	for k, v := range stats {
		s.SetCounter(k, int64(v))
	}
	return nil
}

// Handler serves counters as JSON on / and /counters, and in prometheus format on /metrics
func (s *JSONStats) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleCountersRequest)
	mux.HandleFunc("/counters", s.handleCountersRequest)
	mux.Handle("/metrics", promhttp.HandlerFor(
		NewPrometheusRegistry(s.Stats),
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	))
	return mux
}

// Start runs http server until ctx is cancelled, collecting process stats every interval
func (s *JSONStats) Start(ctx context.Context, monitoringport int, interval time.Duration) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", monitoringport),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := s.CollectSysStats(interval); err != nil {
					log.Warningf("failed to get system metrics %s", err)
				}
			}
		}
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	eg.Go(func() error {
		log.Infof("Starting http json server on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("monitoring server: %w", err)
		}
		return nil
	})
	return eg.Wait()
}

// handleCountersRequest is a handler used for all http monitoring requests
func (s *JSONStats) handleCountersRequest(w http.ResponseWriter, _ *http.Request) {
	js, err := json.Marshal(s.GetCounters())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(js); err != nil {
		log.Errorf("Failed to reply: %v", err)
	}
}
