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

package clock

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// PPBToTimexPPM is what we use to conver PPB to PPM.
// man clock_adjtime(2):
// In struct timex, freq, ppsfreq, and stabil are ppm (parts per million) with a 16-bit fractional part.
// To covert value where 2^16=65536 is 1 ppm to ppb or back, we need this multiplier
const PPBToTimexPPM = 65.536

// adjtimex modes from usr/include/linux/timex.h
const (
	// time offset
	AdjOffset uint32 = 0x0001
	// frequency offset
	AdjFrequency uint32 = 0x0002
	// clock status
	AdjStatus uint32 = 0x0010
	// select microsecond resolution
	AdjMicro uint32 = 0x1000
	// select nanosecond resolution
	AdjNano uint32 = 0x2000
	// old-fashioned adjtime(3), offset is in usec
	AdjOffsetSingleshot uint32 = 0x8001
	// read-only adjtime(3), offset is in usec
	AdjOffsetSSRead uint32 = 0xa001
)

// MaxSlew is the largest offset adjtime(3) accepts, glibc rejects anything over INT_MAX/1e6 seconds
const MaxSlew = 2000 * time.Second

// ErrSlewOffsetUnknown is returned when the kernel did not report the outstanding slew
var ErrSlewOffsetUnknown = errors.New("kernel did not report outstanding slew offset")

// Adjtime calls adjtimex(2) on the system realtime clock
func Adjtime(tx *unix.Timex) (state int, err error) {
	return unix.Adjtimex(tx)
}

// SlewOffset returns the remaining part of the correction installed with Slew.
// It does not alter the correction in progress.
func SlewOffset() (time.Duration, error) {
	tx := &unix.Timex{}
	tx.Modes = AdjOffsetSSRead
	// very old kernels return without filling in the offset, make that case visible
	setOffsetUsec(tx, offsetSentinel)
	if _, err := Adjtime(tx); err != nil {
		return 0, fmt.Errorf("adjtimex(ADJ_OFFSET_SS_READ): %w", err)
	}
	usec := offsetUsec(tx)
	if usec == offsetSentinel {
		return 0, ErrSlewOffsetUnknown
	}
	return time.Duration(usec) * time.Microsecond, nil
}

// Slew installs a new gradual correction of the system clock, replacing whatever
// correction was in progress. It returns the remaining part of the replaced correction.
func Slew(offset time.Duration) (old time.Duration, err error) {
	if offset > MaxSlew || offset < -MaxSlew {
		return 0, fmt.Errorf("slew offset %v is beyond %v", offset, MaxSlew)
	}
	tx := &unix.Timex{}
	tx.Modes = AdjOffsetSingleshot
	setOffsetUsec(tx, offset.Microseconds())
	if _, err := Adjtime(tx); err != nil {
		return 0, fmt.Errorf("adjtimex(ADJ_OFFSET_SINGLESHOT, %d usec): %w", offset.Microseconds(), err)
	}
	return time.Duration(offsetUsec(tx)) * time.Microsecond, nil
}

// SetTime steps the system clock to tv
func SetTime(tv unix.Timeval) error {
	if err := unix.Settimeofday(&tv); err != nil {
		return fmt.Errorf("settimeofday: %w", err)
	}
	return nil
}

// Now reads the system clock with microsecond resolution
func Now() (unix.Timeval, error) {
	var tv unix.Timeval
	if err := unix.Gettimeofday(&tv); err != nil {
		return tv, fmt.Errorf("gettimeofday: %w", err)
	}
	return tv, nil
}

// FrequencyPPB reads system clock frequency in PPB
func FrequencyPPB() (freqPPB float64, state int, err error) {
	tx := &unix.Timex{}
	state, err = Adjtime(tx)
	// man(2) clock_adjtime
	freqPPB = float64(tx.Freq) / PPBToTimexPPM
	return freqPPB, state, err
}

// StateString returns a human readable adjtimex(2) clock state
func StateString(state int) string {
	switch state {
	case unix.TIME_OK:
		return "TIME_OK"
	case unix.TIME_INS:
		return "TIME_INS"
	case unix.TIME_DEL:
		return "TIME_DEL"
	case unix.TIME_OOP:
		return "TIME_OOP"
	case unix.TIME_WAIT:
		return "TIME_WAIT"
	case unix.TIME_ERROR:
		return "TIME_ERROR"
	}
	return fmt.Sprintf("UNKNOWN(%d)", state)
}
