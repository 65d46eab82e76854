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
	"fmt"
	"os"
	"time"

	"github.com/facebook/polite-hwclock/clock"
	"github.com/facebook/polite-hwclock/rtc"
	log "github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"
)

// Config specifies reconciliation options
type Config struct {
	Device                   string        `yaml:"device"`                     // RTC device node
	MinDelta                 time.Duration `yaml:"min_delta"`                  // drift below this is ignored
	MaxPoliteDelta           time.Duration `yaml:"max_polite_delta"`           // drift up to this is slewed, above it the clock is stepped
	PollInterval             time.Duration `yaml:"poll_interval"`              // sleep between passes in continuous mode
	PIDFile                  string        `yaml:"pidfile"`                    // written in systemv mode
	MonitoringPort           int           `yaml:"monitoring_port"`            // 0 disables the monitoring http server
	MetricsAggregationWindow time.Duration `yaml:"metrics_aggregation_window"` // how often process stats are collected
	CSVPath                  string        `yaml:"csv_path"`                   // log every pass as CSV into this file
	Verbose                  bool          `yaml:"verbose"`
}

// DefaultConfig returns Config initialized with default values
func DefaultConfig() *Config {
	return &Config{
		Device:                   rtc.DefaultDevicePath,
		MinDelta:                 time.Second,
		MaxPoliteDelta:           5 * time.Second,
		PollInterval:             time.Second,
		PIDFile:                  "/var/run/polite-hwclock.pid",
		MetricsAggregationWindow: time.Minute,
	}
}

// Validate config is sane
func (c *Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("device must be specified")
	}
	if c.MinDelta <= 0 {
		return fmt.Errorf("min_delta must be greater than zero")
	}
	if c.MaxPoliteDelta < c.MinDelta {
		return fmt.Errorf("max_polite_delta must not be less than min_delta")
	}
	if c.MaxPoliteDelta > clock.MaxSlew {
		return fmt.Errorf("max_polite_delta must not exceed %v", clock.MaxSlew)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be greater than zero")
	}
	if c.MonitoringPort < 0 {
		return fmt.Errorf("monitoring_port must be 0 or positive")
	}
	if c.MetricsAggregationWindow < time.Second {
		return fmt.Errorf("metrics_aggregation_window must be at least 1s")
	}
	return nil
}

// ReadConfig reads config from the file
func ReadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	cData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.UnmarshalStrict(cData, c)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// PrepareConfig prepares final version of config based on defaults, CLI flags and on-disk config, and validates resulting config.
// Only values of flags present in setFlags are taken from flags.
func PrepareConfig(cfgPath string, flags *Config, setFlags map[string]bool) (*Config, error) {
	cfg := DefaultConfig()
	var err error
	warn := func(name string) {
		log.Warningf("overriding %s from CLI flag", name)
	}
	if cfgPath != "" {
		cfg, err = ReadConfig(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("reading config from %q: %w", cfgPath, err)
		}
	}
	if setFlags["device"] {
		warn("device")
		cfg.Device = flags.Device
	}
	if setFlags["min-delta"] {
		warn("min_delta")
		cfg.MinDelta = flags.MinDelta
	}
	if setFlags["max-polite-delta"] {
		warn("max_polite_delta")
		cfg.MaxPoliteDelta = flags.MaxPoliteDelta
	}
	if setFlags["poll-interval"] {
		warn("poll_interval")
		cfg.PollInterval = flags.PollInterval
	}
	if setFlags["pidfile"] {
		warn("pidfile")
		cfg.PIDFile = flags.PIDFile
	}
	if setFlags["monitoringport"] {
		warn("monitoring_port")
		cfg.MonitoringPort = flags.MonitoringPort
	}
	if setFlags["csvpath"] {
		warn("csv_path")
		cfg.CSVPath = flags.CSVPath
	}
	if setFlags["verbose"] {
		cfg.Verbose = flags.Verbose
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	log.Debugf("config: %+v", cfg)
	return cfg, nil
}
