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
	"os"

	"github.com/facebook/polite-hwclock/reconcile"
	"github.com/facebook/polite-hwclock/rtc"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// reconcileClocks opens the hardware clock and runs passes in the given mode until done.
// ready is called once the device is open.
func reconcileClocks(ctx context.Context, cfg *reconcile.Config, mode reconcile.RunMode, ready func()) error {
	logger := log.StandardLogger()
	dev, err := rtc.Open(cfg.Device, logger)
	if err != nil {
		return err
	}
	defer dev.Close()

	stats := reconcile.NewJSONStats()
	r := reconcile.NewReconciler(cfg, dev, &reconcile.OSClock{}, stats, logger)
	if cfg.CSVPath != "" {
		f, err := os.OpenFile(cfg.CSVPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening sample log: %w", err)
		}
		defer f.Close()
		r.SetSampleLogger(reconcile.NewCSVLogger(f))
	}
	runner := reconcile.NewRunner(r, cfg.PollInterval, logger)
	if ready != nil {
		ready()
	}
	if !mode.Continuous() || cfg.MonitoringPort == 0 {
		return runner.Run(ctx, mode)
	}

	eg, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg.Go(func() error {
		return stats.Start(ctx, cfg.MonitoringPort, cfg.MetricsAggregationWindow)
	})
	eg.Go(func() error {
		// stop monitoring once reconciliation is over
		defer cancel()
		return runner.Run(ctx, mode)
	})
	return eg.Wait()
}
