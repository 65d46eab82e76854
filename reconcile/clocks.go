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
	"time"

	"github.com/facebook/polite-hwclock/clock"
	"github.com/facebook/polite-hwclock/rtc"
)

// HardwareClock is the iface for the hardware clock, implemented by rtc.Device
type HardwareClock interface {
	WaitForTick(ctx context.Context, timeout time.Duration) (rtc.TickResult, error)
	ReadCalendar() (rtc.Reading, error)
}

// SystemClock is the iface for the software clock primitives
type SystemClock interface {
	// Now reads the clock
	Now() (Timestamp, error)
	// PendingAdjustment returns what is left of the gradual adjustment in progress
	PendingAdjustment() (Delta, error)
	// Slew installs a gradual adjustment, returning what was left of the previous one
	Slew(d Delta) (Delta, error)
	// Set steps the clock
	Set(ts Timestamp) error
}

// OSClock groups methods for interacting with the system clock
type OSClock struct{}

// Now reads the system clock
func (c *OSClock) Now() (Timestamp, error) {
	tv, err := clock.Now()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrClockRead, err)
	}
	return TimestampFromTimeval(tv), nil
}

// PendingAdjustment reads outstanding adjtime correction without modifying it
func (c *OSClock) PendingAdjustment() (Delta, error) {
	offset, err := clock.SlewOffset()
	if errors.Is(err, clock.ErrSlewOffsetUnknown) {
		return 0, fmt.Errorf("%w: %w", ErrAdjustmentQuery, err)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: unable to get current adjtime delta: %w", ErrAdjustmentQuery, err)
	}
	return DeltaFromDuration(offset), nil
}

// Slew adjusts time gradually
func (c *OSClock) Slew(d Delta) (Delta, error) {
	old, err := clock.Slew(d.Duration())
	if err != nil {
		return 0, fmt.Errorf("%w: delta=%v: %w", ErrSlew, d, err)
	}
	return DeltaFromDuration(old), nil
}

// Set steps the clock to ts
func (c *OSClock) Set(ts Timestamp) error {
	if err := clock.SetTime(ts.Timeval()); err != nil {
		return fmt.Errorf("%w: target=%v: %w", ErrStep, ts, err)
	}
	return nil
}
