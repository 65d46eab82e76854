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
	"encoding/csv"
	"io"
	"strconv"
)

// SampleLogger is something that can store pass results somewhere
type SampleLogger interface {
	Log(*Result) error
}

var header = []string{
	"hw",
	"sys",
	"delta",
	"pending",
	"applied",
	"outcome",
	"tick_timed_out",
}

// CSVRecords returns all data from this result as CSV. Must by synced with `header` variable.
func (r *Result) CSVRecords() []string {
	return []string{
		strconv.FormatInt(int64(r.Hardware), 10),
		strconv.FormatInt(int64(r.System), 10),
		strconv.FormatInt(int64(r.Delta), 10),
		strconv.FormatInt(int64(r.Pending), 10),
		strconv.FormatInt(int64(r.Applied), 10),
		r.Outcome.String(),
		strconv.FormatBool(r.TimedOut),
	}
}

// CSVLogger logs Result as CSV into given writer
type CSVLogger struct {
	csvwriter     *csv.Writer
	printedHeader bool
}

// NewCSVLogger returns new CSVLogger
func NewCSVLogger(w io.Writer) *CSVLogger {
	return &CSVLogger{
		csvwriter: csv.NewWriter(w),
	}
}

// Log implements SampleLogger interface
func (l *CSVLogger) Log(r *Result) error {
	if !l.printedHeader {
		if err := l.csvwriter.Write(header); err != nil {
			return err
		}
		l.printedHeader = true
	}
	if err := l.csvwriter.Write(r.CSVRecords()); err != nil {
		return err
	}
	l.csvwriter.Flush()
	return l.csvwriter.Error()
}
