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

	log "github.com/sirupsen/logrus"
)

// Outcome is what a successful pass did
type Outcome int

// Possible pass outcomes
const (
	// OutcomeNoop means the drift is below the minimum worth acting on
	OutcomeNoop Outcome = iota
	// OutcomeInFlight means a gradual adjustment in the same direction is already running
	OutcomeInFlight
	// OutcomeSlewed means a new gradual adjustment was installed
	OutcomeSlewed
	// OutcomeStepped means the clock was stepped forward
	OutcomeStepped
)

var outcomeToString = map[Outcome]string{
	OutcomeNoop:     "noop",
	OutcomeInFlight: "in-flight",
	OutcomeSlewed:   "slewed",
	OutcomeStepped:  "stepped",
}

func (o Outcome) String() string {
	if s, ok := outcomeToString[o]; ok {
		return s
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result describes a reconciliation pass
type Result struct {
	Outcome  Outcome
	Hardware Timestamp
	System   Timestamp
	Delta    Delta // hardware minus system
	Pending  Delta // outstanding gradual adjustment, only queried when Delta is big enough
	Applied  Delta // size of the slew or step
	TimedOut bool  // tick wait timed out, hardware sample is less precise
}

// Reconciler decides how to bring the software clock in line with the hardware clock
type Reconciler struct {
	cfg     *Config
	sampler *Sampler
	sys     SystemClock
	stats   StatsServer
	samples SampleLogger
	logger  *log.Logger
}

// NewReconciler returns a Reconciler. stats may be nil.
func NewReconciler(cfg *Config, hw HardwareClock, sys SystemClock, stats StatsServer, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Reconciler{
		cfg:     cfg,
		sampler: NewSampler(hw, sys, logger),
		sys:     sys,
		stats:   stats,
		logger:  logger,
	}
}

// SetSampleLogger makes every pass be logged into l
func (r *Reconciler) SetSampleLogger(l SampleLogger) {
	r.samples = l
}

// Pass runs one reconciliation pass
func (r *Reconciler) Pass(ctx context.Context) (*Result, error) {
	res, err := r.pass(ctx)
	r.record(res, err)
	return res, err
}

func (r *Reconciler) pass(ctx context.Context) (*Result, error) {
	r.logger.Debug("starting reconciliation pass")
	res := &Result{}
	var err error
	res.Hardware, res.System, res.TimedOut, err = r.sampler.SampleBoth(ctx)
	if err != nil {
		return res, err
	}
	res.Delta = res.Hardware.Sub(res.System)
	if r.stats != nil {
		r.stats.AddDrift(res.Delta)
	}

	minDelta := DeltaFromDuration(r.cfg.MinDelta)
	if res.Delta.Abs() < minDelta {
		r.logger.Debugf("no work to do, delta=%d usec which is less than threshold=%d usec timed_out=%v",
			res.Delta, minDelta, res.TimedOut)
		res.Outcome = OutcomeNoop
		return res, nil
	}

	res.Pending, err = r.sys.PendingAdjustment()
	if err != nil {
		return res, err
	}
	r.logger.Debugf("current adjtime delta=%d usec", res.Pending)

	outcome, err := Predict(r.cfg, res.Delta, res.Pending)
	r.logger.Debugf("delta=%d usec current_adjtime_delta=%d usec max_polite_delta=%d usec timed_out=%v",
		res.Delta, res.Pending, DeltaFromDuration(r.cfg.MaxPoliteDelta), res.TimedOut)
	switch {
	case err != nil:
		return res, r.refuse(res.Delta)
	case outcome == OutcomeInFlight:
		r.logger.Debugf("delta=%d usec current_adjtime_delta=%d usec have the same sign, adjustment already in progress",
			res.Delta, res.Pending)
		res.Outcome = OutcomeInFlight
		return res, nil
	case outcome == OutcomeSlewed:
		err = r.slew(res)
	default:
		err = r.step(ctx, res)
	}
	if err != nil {
		return res, err
	}

	if r.cfg.Verbose {
		r.logger.Debug("correction applied, will re-sample clocks for the log")
		if hw, sys, _, err := r.sampler.SampleBoth(ctx); err == nil {
			r.logger.Debugf("after correction: hw=%v sys=%v delta=%d usec", hw, sys, hw.Sub(sys))
		}
	}
	return res, nil
}

// Predict tells what a pass would do about delta given the pending adjustment, without touching any clock.
// Stepping backwards is refused with ErrBackwardsStep.
// A forward step is still subject to re-sampling when the pass runs.
func Predict(cfg *Config, delta, pending Delta) (Outcome, error) {
	switch {
	case delta.Abs() < DeltaFromDuration(cfg.MinDelta):
		return OutcomeNoop, nil
	case SameSign(delta, pending):
		return OutcomeInFlight, nil
	case delta.Abs() <= DeltaFromDuration(cfg.MaxPoliteDelta):
		return OutcomeSlewed, nil
	case delta < 0:
		return OutcomeNoop, ErrBackwardsStep
	}
	return OutcomeStepped, nil
}

// slew installs a gradual adjustment of exactly res.Delta, negative delta slows the clock down
func (r *Reconciler) slew(res *Result) error {
	old, err := r.sys.Slew(res.Delta)
	if err != nil {
		r.logger.Errorf("unable to adjust time politely. delta=%d usec: %v", res.Delta, err)
		return err
	}
	r.logger.Infof("time is adjusting politely. delta=%d usec old=%d usec", res.Delta, old)
	res.Outcome = OutcomeSlewed
	res.Applied = res.Delta
	return nil
}

// step moves the clock forward to the hardware time. It never moves it backwards.
func (r *Reconciler) step(ctx context.Context, res *Result) error {
	// time has passed since the first sample, take a fresh one
	hw, sys, timedOut, err := r.sampler.SampleBoth(ctx)
	if err != nil {
		return err
	}
	fresh := hw.Sub(sys)
	if fresh < 0 {
		return r.refuse(fresh)
	}
	if fresh == 0 {
		r.logger.Infof("clocks agree after re-sampling, nothing to step. delta=%d usec", res.Delta)
		res.Outcome = OutcomeNoop
		return nil
	}
	now, err := r.sys.Now()
	if err != nil {
		return err
	}
	// carry the fresh hardware time forward by whatever elapsed since it was sampled
	target := now.Add(fresh)
	if err := r.sys.Set(target); err != nil {
		r.logger.Errorf("unable to set time impolitely. delta=%d usec: %v", fresh, err)
		return err
	}
	r.logger.Infof("adjusted time impolitely. delta=%d usec target=%v timed_out=%v", fresh, target, timedOut)
	res.Outcome = OutcomeStepped
	res.Applied = fresh
	return nil
}

func (r *Reconciler) refuse(d Delta) error {
	r.logger.Errorf("delta=%d usec, will not step the clock backwards. Reboot recommended.", d)
	return fmt.Errorf("%w: delta=%d usec", ErrBackwardsStep, d)
}

func (r *Reconciler) record(res *Result, err error) {
	if r.stats != nil {
		r.stats.UpdateCounterBy(CounterPasses, 1)
		if res.TimedOut {
			r.stats.UpdateCounterBy(CounterTickTimeouts, 1)
		}
		switch {
		case errors.Is(err, ErrBackwardsStep):
			r.stats.UpdateCounterBy(CounterBackwardsRefuse, 1)
			r.stats.UpdateCounterBy(CounterPassesFailed, 1)
		case errors.Is(err, ErrInterrupted):
		case err != nil:
			r.stats.UpdateCounterBy(CounterPassesFailed, 1)
		default:
			r.stats.UpdateCounterBy(outcomeCounters[res.Outcome], 1)
			r.stats.SetCounter(CounterDriftPending, int64(res.Pending))
		}
	}
	if r.samples != nil && err == nil {
		if lerr := r.samples.Log(res); lerr != nil {
			r.logger.Warningf("failed to log sample: %v", lerr)
		}
	}
}

var outcomeCounters = map[Outcome]string{
	OutcomeNoop:     CounterPassesNoop,
	OutcomeInFlight: CounterPassesInFlight,
	OutcomeSlewed:   CounterPassesSlewed,
	OutcomeStepped:  CounterPassesStepped,
}
