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
	"testing"
	"time"

	"github.com/facebook/polite-hwclock/rtc"
	"github.com/stretchr/testify/require"
)

type fakePasser struct {
	calls int
	errs  []error
	// after is called when the pass finishes
	after func(calls int)
}

func (p *fakePasser) Pass(_ context.Context) (*Result, error) {
	p.calls++
	var err error
	if len(p.errs) > 0 {
		err = p.errs[0]
		p.errs = p.errs[1:]
	}
	if p.after != nil {
		p.after(p.calls)
	}
	return &Result{Outcome: OutcomeNoop}, err
}

func TestRunOnce(t *testing.T) {
	p := &fakePasser{}
	r := NewRunner(p, time.Millisecond, nil)
	require.Equal(t, StateIdle, r.State())
	require.NoError(t, r.Run(context.Background(), RunOnce))
	require.Equal(t, 1, p.calls)
	require.Equal(t, StateStopped, r.State())
}

func TestRunOnceFails(t *testing.T) {
	p := &fakePasser{errs: []error{ErrSlew}}
	r := NewRunner(p, time.Millisecond, nil)
	require.ErrorIs(t, r.Run(context.Background(), RunOnce), ErrSlew)
	require.Equal(t, StateFailed, r.State())
}

func TestRunContinuousStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := &fakePasser{after: func(calls int) {
		if calls == 3 {
			cancel()
		}
	}}
	r := NewRunner(p, time.Millisecond, nil)
	require.NoError(t, r.Run(ctx, RunContinuousForeground))
	require.Equal(t, 3, p.calls)
	require.Equal(t, StateStopped, r.State())
}

func TestRunContinuousAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &fakePasser{}
	r := NewRunner(p, time.Millisecond, nil)
	require.NoError(t, r.RunContinuous(ctx))
	require.LessOrEqual(t, p.calls, 1)
}

func TestRunContinuousRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := &fakePasser{
		errs: []error{rtc.ErrHardwareRead, ErrSlew, ErrInterrupted},
		after: func(calls int) {
			if calls == 4 {
				cancel()
			}
		},
	}
	r := NewRunner(p, time.Millisecond, nil)
	require.NoError(t, r.Run(ctx, RunContinuousDaemonized))
	require.Equal(t, 4, p.calls)
}

func TestRunContinuousFatal(t *testing.T) {
	for _, fatal := range []error{
		ErrBackwardsStep,
		rtc.ErrDeviceUnavailable,
		ErrCalendarConversion,
	} {
		p := &fakePasser{errs: []error{ErrSlew, fatal}}
		r := NewRunner(p, time.Millisecond, nil)
		err := r.Run(context.Background(), RunContinuousForeground)
		require.ErrorIs(t, err, fatal)
		require.Equal(t, 2, p.calls)
		require.Equal(t, StateFailed, r.State())
	}
}

func TestIsFatal(t *testing.T) {
	require.True(t, IsFatal(ErrBackwardsStep))
	require.True(t, IsFatal(errors.Join(errors.New("open /dev/rtc0"), rtc.ErrDeviceUnavailable)))
	require.False(t, IsFatal(nil))
	require.False(t, IsFatal(ErrInterrupted))
	require.False(t, IsFatal(ErrStep))
}

func TestRunMode(t *testing.T) {
	for _, m := range []RunMode{RunOnce, RunContinuousForeground, RunContinuousDaemonized} {
		parsed, err := ParseRunMode(m.String())
		require.NoError(t, err)
		require.Equal(t, m, parsed)
	}
	require.False(t, RunOnce.Continuous())
	require.True(t, RunContinuousForeground.Continuous())
	require.True(t, RunContinuousDaemonized.Continuous())
	_, err := ParseRunMode("forever")
	require.Error(t, err)
	require.Equal(t, "RunMode(7)", RunMode(7).String())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "idle", StateIdle.String())
	require.Equal(t, "running", StateRunning.String())
	require.Equal(t, "stopped", StateStopped.String())
	require.Equal(t, "failed", StateFailed.String())
	require.Equal(t, "State(9)", State(9).String())
}
