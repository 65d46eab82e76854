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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "/dev/rtc0", cfg.Device)
	require.Equal(t, time.Second, cfg.MinDelta)
	require.Equal(t, 5*time.Second, cfg.MaxPoliteDelta)
	require.Equal(t, time.Second, cfg.PollInterval)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"device", func(c *Config) { c.Device = "" }, "device must be specified"},
		{"min delta", func(c *Config) { c.MinDelta = 0 }, "min_delta must be greater than zero"},
		{"max polite below min", func(c *Config) { c.MaxPoliteDelta = c.MinDelta / 2 }, "max_polite_delta must not be less than min_delta"},
		{"max polite above slew limit", func(c *Config) { c.MaxPoliteDelta = time.Hour }, "max_polite_delta must not exceed 33m20s"},
		{"poll interval", func(c *Config) { c.PollInterval = -time.Second }, "poll_interval must be greater than zero"},
		{"monitoring port", func(c *Config) { c.MonitoringPort = -1 }, "monitoring_port must be 0 or positive"},
		{"aggregation window", func(c *Config) { c.MetricsAggregationWindow = time.Millisecond }, "metrics_aggregation_window must be at least 1s"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			require.EqualError(t, cfg.Validate(), tc.wantErr)
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	p := filepath.Join(t.TempDir(), "polite-hwclock.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestReadConfig(t *testing.T) {
	p := writeConfig(t, `device: /dev/rtc1
min_delta: 2s
max_polite_delta: 30s
poll_interval: 10s
monitoring_port: 4269
`)
	cfg, err := ReadConfig(p)
	require.NoError(t, err)
	want := DefaultConfig()
	want.Device = "/dev/rtc1"
	want.MinDelta = 2 * time.Second
	want.MaxPoliteDelta = 30 * time.Second
	want.PollInterval = 10 * time.Second
	want.MonitoringPort = 4269
	require.Equal(t, want, cfg)
}

func TestReadConfigUnknownField(t *testing.T) {
	p := writeConfig(t, "devcie: /dev/rtc1\n")
	_, err := ReadConfig(p)
	require.Error(t, err)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPrepareConfigDefaults(t *testing.T) {
	cfg, err := PrepareConfig("", &Config{}, map[string]bool{})
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestPrepareConfigFlagsOverrideFile(t *testing.T) {
	p := writeConfig(t, "device: /dev/rtc1\nmax_polite_delta: 30s\n")
	flags := &Config{
		Device:         "/dev/rtc2",
		MaxPoliteDelta: time.Minute,
		CSVPath:        "/tmp/samples.csv",
		Verbose:        true,
	}
	cfg, err := PrepareConfig(p, flags, map[string]bool{"max-polite-delta": true, "csvpath": true, "verbose": true})
	require.NoError(t, err)
	require.Equal(t, "/dev/rtc1", cfg.Device)
	require.Equal(t, time.Minute, cfg.MaxPoliteDelta)
	require.Equal(t, "/tmp/samples.csv", cfg.CSVPath)
	require.True(t, cfg.Verbose)
}

func TestPrepareConfigInvalid(t *testing.T) {
	_, err := PrepareConfig("", &Config{MinDelta: -time.Second}, map[string]bool{"min-delta": true})
	require.EqualError(t, err, "validating config: min_delta must be greater than zero")
}
