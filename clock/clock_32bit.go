//go:build 386 || arm || mips || mipsle || ppc

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
	"math"

	"golang.org/x/sys/unix"
)

const offsetSentinel = math.MaxInt32

func setOffsetUsec(tx *unix.Timex, usec int64) {
	tx.Offset = int32(usec)
}

func offsetUsec(tx *unix.Timex) int64 {
	return int64(tx.Offset)
}

// Timeval builds unix.Timeval, usec must already be normalized
func Timeval(sec, usec int64) unix.Timeval {
	return unix.Timeval{Sec: int32(sec), Usec: int32(usec)}
}
