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
	"testing"

	"github.com/facebook/polite-hwclock/rtc"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSampleBothOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	hw := NewMockHardwareClock(ctrl)
	sys := NewMockSystemClock(ctrl)
	s := NewSampler(hw, sys, nil)
	gomock.InOrder(
		hw.EXPECT().WaitForTick(gomock.Any(), rtc.DefaultTickTimeout).Return(rtc.TickFired, nil),
		hw.EXPECT().ReadCalendar().Return(reading(1700000000*sec), nil),
		sys.EXPECT().Now().Return(1700000000*sec+42, nil),
	)

	h, s2, timedOut, err := s.SampleBoth(context.Background())
	require.NoError(t, err)
	require.False(t, timedOut)
	require.Equal(t, 1700000000*sec, h)
	require.Equal(t, 1700000000*sec+42, s2)
}

func TestHardwareNowWaitError(t *testing.T) {
	ctrl := gomock.NewController(t)
	hw := NewMockHardwareClock(ctrl)
	s := NewSampler(hw, NewMockSystemClock(ctrl), nil)
	hw.EXPECT().WaitForTick(gomock.Any(), gomock.Any()).Return(rtc.TickFired, rtc.ErrHardwareRead)

	_, _, err := s.HardwareNow(context.Background())
	require.ErrorIs(t, err, rtc.ErrHardwareRead)
}

func TestSampleBothSystemError(t *testing.T) {
	ctrl := gomock.NewController(t)
	hw := NewMockHardwareClock(ctrl)
	sys := NewMockSystemClock(ctrl)
	s := NewSampler(hw, sys, nil)
	gomock.InOrder(
		hw.EXPECT().WaitForTick(gomock.Any(), gomock.Any()).Return(rtc.TickTimedOut, nil),
		hw.EXPECT().ReadCalendar().Return(reading(100*sec), nil),
		sys.EXPECT().Now().Return(Timestamp(0), ErrClockRead),
	)

	_, _, timedOut, err := s.SampleBoth(context.Background())
	require.ErrorIs(t, err, ErrClockRead)
	require.True(t, timedOut)
}
