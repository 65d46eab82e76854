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

	"github.com/facebook/polite-hwclock/daemon"
	"github.com/facebook/polite-hwclock/logging"
	"github.com/facebook/polite-hwclock/reconcile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var systemvCmd = &cobra.Command{
	Use:   "systemv",
	Short: "Detach and reconcile continuously in the background, logging to syslog",
	Args:  cobra.NoArgs,
	RunE:  runSystemvCmd,
}

func init() {
	RootCmd.AddCommand(systemvCmd)
}

func runSystemvCmd(cmd *cobra.Command, _ []string) error {
	mode := reconcile.RunContinuousDaemonized
	if !daemon.Detached() {
		// complain on the terminal while we still have one
		if err := logging.Setup(log.StandardLogger(), reconcile.RunOnce, rootVerboseFlag, os.Stderr); err != nil {
			return err
		}
		if _, err := prepareConfig(cmd); err != nil {
			return err
		}
		pid, err := daemon.Detach()
		if err != nil {
			return err
		}
		log.Debugf("detached, pid %d", pid)
		return nil
	}

	daemon.InitDetached()
	if err := logging.Setup(log.StandardLogger(), mode, rootVerboseFlag, os.Stderr); err != nil {
		return err
	}
	cfg, err := prepareConfig(cmd)
	if err != nil {
		return err
	}
	if err := daemon.WritePIDFile(cfg.PIDFile); err != nil {
		log.Errorf("failed to write pid file: %v", err)
	} else {
		defer func() {
			if err := daemon.RemovePIDFile(cfg.PIDFile); err != nil {
				log.Errorf("failed to remove pid file: %v", err)
			}
		}()
	}
	ctx, cancel := daemon.SignalContext(context.Background())
	defer cancel()
	if err := reconcileClocks(ctx, cfg, mode, nil); err != nil {
		return fmt.Errorf("%s mode: %w", mode, err)
	}
	return nil
}
