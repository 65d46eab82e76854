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
Package clock wraps the system clock primitives polite-hwclock needs.

It covers
 - reading and installing adjtime(3) style gradual corrections (Slew, SlewOffset),
   implemented on top of adjtimex(2) with ADJ_OFFSET_SINGLESHOT and ADJ_OFFSET_SS_READ
 - stepping the clock with settimeofday(2) (SetTime)
 - reading the clock with microsecond resolution (Now)
 - reading the kernel clock discipline state and frequency (FrequencyPPB)

A slew changes the clock rate, never its value, so time keeps moving forward
even when the correction is negative.
*/
package clock
