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
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/facebook/polite-hwclock/clock"
	"github.com/facebook/polite-hwclock/daemon"
	"github.com/facebook/polite-hwclock/logging"
	"github.com/facebook/polite-hwclock/reconcile"
	"github.com/facebook/polite-hwclock/rtc"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// flags
var statusRawFlag bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare hardware and system clocks without changing anything",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	RootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusRawFlag, "raw", false, "dump raw hardware clock reading")
}

type clockStatus struct {
	Hardware   reconcile.Timestamp
	System     reconcile.Timestamp
	Delta      reconcile.Delta
	TimedOut   bool
	Pending    reconcile.Delta
	PendingErr error
	FreqPPB    float64
	State      int
	StateErr   error
}

func collectStatus(ctx context.Context, sampler *reconcile.Sampler, sys reconcile.SystemClock) (*clockStatus, error) {
	s := &clockStatus{}
	var err error
	s.Hardware, s.System, s.TimedOut, err = sampler.SampleBoth(ctx)
	if err != nil {
		return nil, err
	}
	s.Delta = s.Hardware.Sub(s.System)
	s.Pending, s.PendingErr = sys.PendingAdjustment()
	s.FreqPPB, s.State, s.StateErr = clock.FrequencyPPB()
	return s, nil
}

func verdict(cfg *reconcile.Config, s *clockStatus) string {
	outcome, err := reconcile.Predict(cfg, s.Delta, s.Pending)
	switch {
	case err != nil:
		return fmt.Sprintf("%s system clock is %v ahead, will not step it backwards. Reboot recommended",
			color.RedString("[FAIL]"), (-s.Delta).Duration())
	case outcome == reconcile.OutcomeNoop:
		return fmt.Sprintf("%s clocks agree within %v", color.GreenString("[ OK ]"), cfg.MinDelta)
	case outcome == reconcile.OutcomeInFlight:
		return fmt.Sprintf("%s adjustment of %v in progress", color.GreenString("[ OK ]"), s.Pending.Duration())
	case outcome == reconcile.OutcomeSlewed:
		return fmt.Sprintf("%s will adjust politely by %v", color.YellowString("[WARN]"), s.Delta.Duration())
	}
	return fmt.Sprintf("%s will step forward by %v", color.YellowString("[WARN]"), s.Delta.Duration())
}

func printStatus(w io.Writer, cfg *reconcile.Config, s *clockStatus) error {
	pending := s.Pending.Duration().String()
	if s.PendingErr != nil {
		pending = "unknown"
	}
	state := clock.StateString(s.State)
	freq := fmt.Sprintf("%.3f PPB", s.FreqPPB)
	if s.StateErr != nil {
		state = "unknown"
		freq = "unknown"
	}
	rows := [][]string{
		{"hardware", s.Hardware.Time().Format(time.RFC3339Nano)},
		{"system", s.System.Time().Format(time.RFC3339Nano)},
		{"delta", s.Delta.Duration().String()},
		{"pending adjustment", pending},
		{"tick timed out", strconv.FormatBool(s.TimedOut)},
		{"kernel state", state},
		{"frequency", freq},
	}
	table := tablewriter.NewWriter(w)
	table.Header("Clock", "Value")
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, verdict(cfg, s))
	return err
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	if err := logging.Setup(log.StandardLogger(), reconcile.RunOnce, rootVerboseFlag, os.Stderr); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
	cfg, err := prepareConfig(cmd)
	if err != nil {
		return err
	}
	logger := log.StandardLogger()
	dev, err := rtc.Open(cfg.Device, logger)
	if err != nil {
		return err
	}
	defer dev.Close()

	ctx, cancel := daemon.SignalContext(context.Background())
	defer cancel()
	sys := &reconcile.OSClock{}
	s, err := collectStatus(ctx, reconcile.NewSampler(dev, sys, logger), sys)
	if err != nil {
		return err
	}
	if statusRawFlag {
		reading, err := dev.ReadCalendar()
		if err != nil {
			return err
		}
		spew.Fdump(os.Stdout, reading)
	}
	return printStatus(os.Stdout, cfg, s)
}
