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

package cmd

import (
	"os"

	"github.com/facebook/polite-hwclock/reconcile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootCmd is a main entry point. It's exported so polite-hwclock could be easily extended without touching core functionality.
var RootCmd = &cobra.Command{
	Use:   "polite-hwclock",
	Short: "Sync system clock to the hardware clock politely",
	Long: `Copies time from the hardware clock (RTC) to the system clock without stepping it backwards.

Drift below --min-delta is ignored. Drift up to --max-polite-delta is corrected gradually with adjtime,
so the clock only ever runs a bit slower or faster. Larger drift with the hardware clock ahead steps the
system clock forward. Larger drift with the hardware clock behind is refused and a reboot is recommended,
since stepping back would break anything relying on monotonic wall time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// flags
var (
	rootVerboseFlag bool
	rootConfigFlag  string
	flagsConfig     = reconcile.Config{}
)

// flag names as understood by reconcile.PrepareConfig
var configFlags = []string{
	"device",
	"min-delta",
	"max-polite-delta",
	"poll-interval",
	"pidfile",
	"monitoringport",
	"csvpath",
	"verbose",
}

func init() {
	defaults := reconcile.DefaultConfig()
	flags := RootCmd.PersistentFlags()
	flags.BoolVarP(&rootVerboseFlag, "verbose", "v", false, "verbose output")
	flags.StringVarP(&rootConfigFlag, "config", "c", "", "path to the config")
	flags.StringVarP(&flagsConfig.Device, "device", "d", defaults.Device, "hardware clock device")
	flags.DurationVar(&flagsConfig.MinDelta, "min-delta", defaults.MinDelta, "ignore drift smaller than this")
	flags.DurationVar(&flagsConfig.MaxPoliteDelta, "max-polite-delta", defaults.MaxPoliteDelta, "largest drift corrected gradually, larger drift is stepped forward or refused")
	flags.DurationVar(&flagsConfig.PollInterval, "poll-interval", defaults.PollInterval, "sleep between passes in continuous modes")
	flags.StringVar(&flagsConfig.PIDFile, "pidfile", defaults.PIDFile, "pid file written in systemv mode")
	flags.IntVar(&flagsConfig.MonitoringPort, "monitoringport", defaults.MonitoringPort, "port to start monitoring http server on in continuous modes, 0 disables it")
	flags.StringVar(&flagsConfig.CSVPath, "csvpath", defaults.CSVPath, "append every pass to this CSV file")
}

// prepareConfig merges defaults, config file and flags explicitly set on the command line
func prepareConfig(cmd *cobra.Command) (*reconcile.Config, error) {
	flagsConfig.Verbose = rootVerboseFlag
	setFlags := map[string]bool{}
	for _, name := range configFlags {
		setFlags[name] = cmd.Flags().Changed(name)
	}
	return reconcile.PrepareConfig(rootConfigFlag, &flagsConfig, setFlags)
}

// Execute is the main entry point for CLI interface
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
