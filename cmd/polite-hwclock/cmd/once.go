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

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single reconciliation pass and exit",
	Args:  cobra.NoArgs,
	RunE:  runOnceCmd,
}

func init() {
	RootCmd.AddCommand(onceCmd)
}

func runOnceCmd(cmd *cobra.Command, _ []string) error {
	if err := logging.Setup(log.StandardLogger(), reconcile.RunOnce, rootVerboseFlag, os.Stderr); err != nil {
		return err
	}
	cfg, err := prepareConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := daemon.SignalContext(context.Background())
	defer cancel()
	return reconcileClocks(ctx, cfg, reconcile.RunOnce, nil)
}
