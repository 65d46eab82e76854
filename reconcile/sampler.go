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
	"fmt"
	"time"

	"github.com/facebook/polite-hwclock/rtc"
	log "github.com/sirupsen/logrus"
)

// Sampler reads the hardware and the software clock as close together as possible
type Sampler struct {
	hw          HardwareClock
	sys         SystemClock
	tickTimeout time.Duration
	logger      *log.Logger
}

// NewSampler returns a Sampler waiting up to rtc.DefaultTickTimeout for a tick
func NewSampler(hw HardwareClock, sys SystemClock, logger *log.Logger) *Sampler {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Sampler{hw: hw, sys: sys, tickTimeout: rtc.DefaultTickTimeout, logger: logger}
}

// HardwareNow waits for the hardware clock to tick over and reads it.
// A tick timeout is not an error: the value read is still valid, just less precise, and timedOut is set.
func (s *Sampler) HardwareNow(ctx context.Context) (ts Timestamp, timedOut bool, err error) {
	res, err := s.hw.WaitForTick(ctx, s.tickTimeout)
	if err != nil {
		return 0, false, err
	}
	switch res {
	case rtc.TickInterrupted:
		return 0, false, ErrInterrupted
	case rtc.TickTimedOut:
		// happens every few minutes on WSL2 and after resume, a big delta may still need fixing so read anyway
		s.logger.Debug("waiting for rtc timed out but we will read the clock now anyway")
		timedOut = true
	}
	reading, err := s.hw.ReadCalendar()
	if err != nil {
		return 0, timedOut, err
	}
	t, err := reading.Time()
	if err != nil {
		return 0, timedOut, fmt.Errorf("%w: %s: %w", ErrCalendarConversion, reading, err)
	}
	ts, err = TimestampFromTime(t)
	if err != nil {
		return 0, timedOut, fmt.Errorf("%w: %s: %w", ErrCalendarConversion, reading, err)
	}
	return ts, timedOut, nil
}

// SystemNow reads the software clock
func (s *Sampler) SystemNow() (Timestamp, error) {
	return s.sys.Now()
}

// SampleBoth reads the hardware clock and then immediately the software clock.
// The order matters: the hardware read blocks until the tick edge, reading the
// software clock first would add the whole wait to the measured drift.
func (s *Sampler) SampleBoth(ctx context.Context) (hw, sys Timestamp, timedOut bool, err error) {
	hw, timedOut, err = s.HardwareNow(ctx)
	if err != nil {
		return 0, 0, timedOut, err
	}
	sys, err = s.SystemNow()
	if err != nil {
		return 0, 0, timedOut, err
	}
	s.logger.Debugf("sampled clocks: hw=%v sys=%v timed_out=%v", hw, sys, timedOut)
	return hw, sys, timedOut, nil
}
