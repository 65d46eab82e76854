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
	"errors"

	"github.com/facebook/polite-hwclock/rtc"
)

// Errors returned by a reconciliation pass
var (
	ErrCalendarConversion = errors.New("converting hardware clock calendar to epoch failed")
	ErrClockRead          = errors.New("reading system clock failed")
	ErrAdjustmentQuery    = errors.New("querying pending clock adjustment failed")
	ErrSlew               = errors.New("adjusting time politely failed")
	ErrStep               = errors.New("adjusting time impolitely failed")
	ErrBackwardsStep      = errors.New("will not step the clock backwards, reboot recommended")
	ErrInterrupted        = errors.New("stop requested")
)

// fatalErrors terminate the run loop
var fatalErrors = []error{
	rtc.ErrDeviceUnavailable,
	ErrBackwardsStep,
	ErrCalendarConversion,
}

// IsFatal tells if err must stop continuous reconciliation.
// Everything else is retried after the normal poll interval.
func IsFatal(err error) bool {
	for _, fatal := range fatalErrors {
		if errors.Is(err, fatal) {
			return true
		}
	}
	return false
}
