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
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// RunMode selects how the program runs
type RunMode int

// Supported run modes
const (
	// RunOnce does a single pass and exits
	RunOnce RunMode = iota
	// RunContinuousForeground loops attached to the supervisor, e.g. systemd
	RunContinuousForeground
	// RunContinuousDaemonized loops detached from the terminal as a System V daemon
	RunContinuousDaemonized
)

var runModeToString = map[RunMode]string{
	RunOnce:                 "once",
	RunContinuousForeground: "systemd",
	RunContinuousDaemonized: "systemv",
}

func (m RunMode) String() string {
	if s, ok := runModeToString[m]; ok {
		return s
	}
	return fmt.Sprintf("RunMode(%d)", int(m))
}

// Continuous tells if m loops until stopped
func (m RunMode) Continuous() bool {
	return m != RunOnce
}

// ParseRunMode parses a run mode name as used on the command line
func ParseRunMode(s string) (RunMode, error) {
	for m, name := range runModeToString {
		if name == s {
			return m, nil
		}
	}
	return RunOnce, fmt.Errorf("invalid mode: %q", s)
}

// State of the Runner
type State int32

// Runner states
const (
	StateIdle State = iota
	StateRunning
	StateStopped
	StateFailed
)

var stateToString = map[State]string{
	StateIdle:    "idle",
	StateRunning: "running",
	StateStopped: "stopped",
	StateFailed:  "failed",
}

func (s State) String() string {
	if str, ok := stateToString[s]; ok {
		return str
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Passer runs a single reconciliation pass
type Passer interface {
	Pass(ctx context.Context) (*Result, error)
}

// Runner drives reconciliation passes
type Runner struct {
	passer   Passer
	interval time.Duration
	logger   *log.Logger
	state    atomic.Int32
}

// NewRunner returns a Runner sleeping interval between passes in continuous mode
func NewRunner(p Passer, interval time.Duration, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Runner{passer: p, interval: interval, logger: logger}
}

// State returns current state
func (r *Runner) State() State {
	return State(r.state.Load())
}

func (r *Runner) setState(s State) {
	r.state.Store(int32(s))
}

// Run runs according to mode
func (r *Runner) Run(ctx context.Context, mode RunMode) error {
	if mode.Continuous() {
		return r.RunContinuous(ctx)
	}
	return r.RunOnce(ctx)
}

// RunOnce runs exactly one pass and returns its error
func (r *Runner) RunOnce(ctx context.Context) error {
	r.setState(StateRunning)
	res, err := r.passer.Pass(ctx)
	if err != nil {
		r.setState(StateFailed)
		return err
	}
	r.logger.Debugf("pass finished: %s delta=%d usec", res.Outcome, res.Delta)
	r.setState(StateStopped)
	return nil
}

// RunContinuous runs passes every interval until ctx is cancelled or a pass fails fatally.
// Cancellation is a clean stop and returns nil.
func (r *Runner) RunContinuous(ctx context.Context) error {
	r.setState(StateRunning)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("exiting")
			r.setState(StateStopped)
			return nil
		case <-timer.C:
			_, err := r.passer.Pass(ctx)
			switch {
			case errors.Is(err, ErrInterrupted):
			case IsFatal(err):
				r.logger.Errorf("reconciliation failed: %v", err)
				r.setState(StateFailed)
				return err
			case err != nil:
				r.logger.Errorf("reconciliation pass failed, will retry in %v: %v", r.interval, err)
			}
			if ctx.Err() != nil {
				r.logger.Info("exiting")
				r.setState(StateStopped)
				return nil
			}
			r.logger.Debugf("sleeping for %v", r.interval)
			timer.Reset(r.interval)
		}
	}
}
