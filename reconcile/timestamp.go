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
	"fmt"
	"math"
	"time"

	"github.com/facebook/polite-hwclock/clock"
	"golang.org/x/exp/constraints"
	"golang.org/x/sys/unix"
)

const usecPerSec = 1000000

// Timestamp is a number of microseconds since the Unix epoch
type Timestamp int64

// Delta is a signed number of microseconds.
// Measured drift is hardware minus software: positive means the hardware clock is ahead.
type Delta int64

// TimestampFromTime converts t to Timestamp, failing if it doesn't fit into 64 bits
func TimestampFromTime(t time.Time) (Timestamp, error) {
	sec := t.Unix()
	if sec > math.MaxInt64/usecPerSec-1 || sec < math.MinInt64/usecPerSec+1 {
		return 0, fmt.Errorf("%v is out of microsecond timestamp range", t)
	}
	return Timestamp(sec*usecPerSec + int64(t.Nanosecond()/1000)), nil
}

// TimestampFromTimeval converts a (seconds, microseconds) pair
func TimestampFromTimeval(tv unix.Timeval) Timestamp {
	sec, nsec := tv.Unix()
	return Timestamp(sec*usecPerSec + nsec/1000)
}

// Timeval converts ts to a (seconds, microseconds) pair, microseconds are always non-negative
func (ts Timestamp) Timeval() unix.Timeval {
	sec, usec := splitUsec(int64(ts))
	return clock.Timeval(sec, usec)
}

// Time converts ts to time.Time in UTC
func (ts Timestamp) Time() time.Time {
	return time.UnixMicro(int64(ts)).UTC()
}

// Sub returns ts-u
func (ts Timestamp) Sub(u Timestamp) Delta {
	return Delta(ts - u)
}

// Add returns ts+d
func (ts Timestamp) Add(d Delta) Timestamp {
	return ts + Timestamp(d)
}

func (ts Timestamp) String() string {
	sec, usec := splitUsec(int64(ts))
	return fmt.Sprintf("%d.%06d", sec, usec)
}

// DeltaFromDuration truncates d to microseconds
func DeltaFromDuration(d time.Duration) Delta {
	return Delta(d.Microseconds())
}

// Abs returns absolute value of d
func (d Delta) Abs() Delta {
	return abs(d)
}

// Duration converts d to time.Duration
func (d Delta) Duration() time.Duration {
	return time.Duration(d) * time.Microsecond
}

func (d Delta) String() string {
	return fmt.Sprintf("%dusec", int64(d))
}

// SameSign is true if both deltas are positive, both are negative or both are zero
func SameSign(a, b Delta) bool {
	switch {
	case a == 0 && b == 0:
		return true
	case a > 0 && b > 0:
		return true
	case a < 0 && b < 0:
		return true
	}
	return false
}

func abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// splitUsec splits microseconds into seconds and non-negative microseconds
func splitUsec(v int64) (sec, usec int64) {
	sec = v / usecPerSec
	usec = v % usecPerSec
	if usec < 0 {
		sec--
		usec += usecPerSec
	}
	return sec, usec
}
