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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestStateString(t *testing.T) {
	require.Equal(t, "TIME_OK", StateString(unix.TIME_OK))
	require.Equal(t, "TIME_INS", StateString(unix.TIME_INS))
	require.Equal(t, "TIME_ERROR", StateString(unix.TIME_ERROR))
	require.Equal(t, "UNKNOWN(42)", StateString(42))
}

func TestSlewBeyondLimit(t *testing.T) {
	_, err := Slew(MaxSlew + time.Second)
	require.ErrorContains(t, err, "is beyond")
	_, err = Slew(-MaxSlew - time.Microsecond)
	require.ErrorContains(t, err, "is beyond")
}

func TestOffsetUsec(t *testing.T) {
	tx := &unix.Timex{}
	setOffsetUsec(tx, -1500000)
	require.Equal(t, int64(-1500000), offsetUsec(tx))
	setOffsetUsec(tx, offsetSentinel)
	require.Equal(t, int64(offsetSentinel), offsetUsec(tx))
}

func TestTimeval(t *testing.T) {
	tv := Timeval(1700000000, 123456)
	sec, nsec := tv.Unix()
	require.Equal(t, int64(1700000000), sec)
	require.Equal(t, int64(123456000), nsec)
}
