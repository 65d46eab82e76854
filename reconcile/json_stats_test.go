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
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJSONStatsCounters(t *testing.T) {
	stats := NewJSONStats()
	stats.UpdateCounterBy(CounterPasses, 3)
	stats.AddDrift(-1500)

	ts := httptest.NewServer(stats.Handler())
	defer ts.Close()

	for _, path := range []string{"/", "/counters"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		got := map[string]int64{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Equal(t, int64(3), got[CounterPasses])
		require.Equal(t, int64(-1500), got[CounterDriftLast])
	}
}

func TestJSONStatsMetrics(t *testing.T) {
	stats := NewJSONStats()
	stats.UpdateCounterBy(CounterPassesSlewed, 2)
	stats.UpdateCounterBy(CounterBackwardsRefuse, 1)

	ts := httptest.NewServer(stats.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "polite_hwclock_passes_slewed 2")
	require.Contains(t, string(body), "polite_hwclock_refusals_backwards_step 1")
}

func TestCollectSysStats(t *testing.T) {
	stats := NewJSONStats()
	require.NoError(t, stats.CollectSysStats(time.Second))
	require.NoError(t, stats.CollectSysStats(time.Second))
	counters := stats.GetCounters()
	require.Contains(t, counters, "runtime.cpu.goroutines")
	require.Contains(t, counters, "runtime.mem.alloc")
	require.Greater(t, counters["runtime.cpu.goroutines"], int64(0))
	found := false
	for k := range counters {
		if strings.HasPrefix(k, "runtime.gc.count.sum.") {
			found = true
		}
	}
	require.True(t, found)
}

func TestFlattenKey(t *testing.T) {
	require.Equal(t, "passes_in_flight", flattenKey("passes.in_flight"))
	require.Equal(t, "a_b_c_d_e_f", flattenKey("a b.c-d=e/f"))
}

func TestSetRate(t *testing.T) {
	counts := map[string]uint64{}
	setRate("x", counts, 30, 10, 10*time.Second)
	require.Equal(t, map[string]uint64{"x.sum.10": 20, "x.rate.10": 2}, counts)

	counts = map[string]uint64{}
	setRate("x", counts, 10, 30, 10*time.Second)
	require.Empty(t, counts)
}
