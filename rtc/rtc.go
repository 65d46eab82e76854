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

/*
Package rtc talks to the Linux hardware real-time clock through its character device.

The hardware clock only exposes whole seconds. To read it precisely we enable the
update interrupt, wait for the seconds register to tick over and read the calendar
right after, which bounds the sampling error to the wakeup latency.
*/
package rtc

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDevicePath is the first RTC in the system
const DefaultDevicePath = "/dev/rtc0"

// DefaultTickTimeout is how long we wait for the update interrupt
const DefaultTickTimeout = 10 * time.Second

// Errors returned by the RTC accessor
var (
	ErrDeviceUnavailable = errors.New("rtc device unavailable")
	ErrHardwareControl   = errors.New("rtc control operation rejected")
	ErrHardwareRead      = errors.New("rtc read failed")
	ErrCalendarRange     = errors.New("rtc calendar fields out of range")
)

// TickResult is the outcome of waiting for the update interrupt
type TickResult int

// Possible TickResult values
const (
	TickFired TickResult = iota
	TickTimedOut
	TickInterrupted
)

var tickResultToString = map[TickResult]string{
	TickFired:       "fired",
	TickTimedOut:    "timed out",
	TickInterrupted: "interrupted",
}

func (r TickResult) String() string {
	if s, ok := tickResultToString[r]; ok {
		return s
	}
	return fmt.Sprintf("TickResult(%d)", int(r))
}

// Reading is a broken-down hardware clock value as in struct rtc_time from linux/rtc.h.
// It is always UTC. Wday, Yday and Isdst are carried through and never interpreted.
type Reading struct {
	Sec   int // 0-60
	Min   int // 0-59
	Hour  int // 0-23
	Mday  int // 1-31
	Mon   int // 0-11
	Year  int // years since 1900
	Wday  int
	Yday  int
	Isdst int
}

// maxYear keeps microseconds since the epoch within int64
const maxYear = 290000

// Time converts reading to time.Time the way timegm(3) does.
// A leap second (Sec == 60) rolls over into the next minute.
func (r Reading) Time() (time.Time, error) {
	year := r.Year + 1900
	switch {
	case r.Sec < 0 || r.Sec > 60:
		return time.Time{}, fmt.Errorf("%w: sec=%d", ErrCalendarRange, r.Sec)
	case r.Min < 0 || r.Min > 59:
		return time.Time{}, fmt.Errorf("%w: min=%d", ErrCalendarRange, r.Min)
	case r.Hour < 0 || r.Hour > 23:
		return time.Time{}, fmt.Errorf("%w: hour=%d", ErrCalendarRange, r.Hour)
	case r.Mon < 0 || r.Mon > 11:
		return time.Time{}, fmt.Errorf("%w: mon=%d", ErrCalendarRange, r.Mon)
	case year < -maxYear || year > maxYear:
		return time.Time{}, fmt.Errorf("%w: year=%d", ErrCalendarRange, year)
	case r.Mday < 1 || r.Mday > daysIn(time.Month(r.Mon+1), year):
		return time.Time{}, fmt.Errorf("%w: mday=%d", ErrCalendarRange, r.Mday)
	}
	return time.Date(year, time.Month(r.Mon+1), r.Mday, r.Hour, r.Min, r.Sec, 0, time.UTC), nil
}

// ReadingFromTime is the inverse of Reading.Time
func ReadingFromTime(t time.Time) Reading {
	t = t.UTC()
	return Reading{
		Sec:  t.Second(),
		Min:  t.Minute(),
		Hour: t.Hour(),
		Mday: t.Day(),
		Mon:  int(t.Month()) - 1,
		Year: t.Year() - 1900,
		Wday: int(t.Weekday()),
		Yday: t.YearDay() - 1,
	}
}

func (r Reading) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d wday=%d yday=%d isdst=%d",
		r.Year+1900, r.Mon+1, r.Mday, r.Hour, r.Min, r.Sec, r.Wday, r.Yday, r.Isdst)
}

func daysIn(m time.Month, year int) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
