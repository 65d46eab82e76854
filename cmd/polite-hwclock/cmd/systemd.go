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
	"os"

	"github.com/facebook/polite-hwclock/daemon"
	"github.com/facebook/polite-hwclock/logging"
	"github.com/facebook/polite-hwclock/reconcile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var systemdCmd = &cobra.Command{
	Use:   "systemd",
	Short: "Reconcile continuously in the foreground, logging to journald",
	Args:  cobra.NoArgs,
	RunE:  runSystemdCmd,
}

func init() {
	RootCmd.AddCommand(systemdCmd)
}

func runSystemdCmd(cmd *cobra.Command, _ []string) error {
	mode := reconcile.RunContinuousForeground
	if err := logging.Setup(log.StandardLogger(), mode, rootVerboseFlag, os.Stderr); err != nil {
		return err
	}
	cfg, err := prepareConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := daemon.SignalContext(context.Background())
	defer cancel()
	defer daemon.NotifyStopping()
	return reconcileClocks(ctx, cfg, mode, daemon.NotifyReady)
}
