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
Package logging configures logrus output for each run mode.

In systemd mode lines carry a sd-daemon(3) priority prefix and no timestamp since journald adds one.
In systemv mode everything goes to the local syslog daemon.
Everything else gets local timestamps with microseconds.
*/
package logging

import (
	"bytes"
	"fmt"
	"io"
	"log/syslog"
	"strings"

	"github.com/facebook/polite-hwclock/reconcile"
	log "github.com/sirupsen/logrus"
	lSyslog "github.com/sirupsen/logrus/hooks/syslog"
)

// SyslogTag is how messages are tagged in syslog
const SyslogTag = "polite-hwclock"

// TimestampFormat is the time layout of TimestampedFormatter
const TimestampFormat = "2006-01-02 15:04:05.000000"

// sd-daemon(3) priorities
var levelToPriority = map[log.Level]int{
	log.PanicLevel: 3,
	log.FatalLevel: 3,
	log.ErrorLevel: 3,
	log.WarnLevel:  4,
	log.InfoLevel:  6,
	log.DebugLevel: 7,
	log.TraceLevel: 7,
}

// StructuredFormatter prefixes every line with its journald priority
type StructuredFormatter struct{}

// Format implements log.Formatter
func (f *StructuredFormatter) Format(entry *log.Entry) ([]byte, error) {
	b := &bytes.Buffer{}
	fmt.Fprintf(b, "<%d>%s\n", levelToPriority[entry.Level], entry.Message)
	return b.Bytes(), nil
}

// TimestampedFormatter writes local time, upper case level and the message
type TimestampedFormatter struct{}

// Format implements log.Formatter
func (f *TimestampedFormatter) Format(entry *log.Entry) ([]byte, error) {
	b := &bytes.Buffer{}
	fmt.Fprintf(b, "%s %s: %s\n",
		entry.Time.Local().Format(TimestampFormat), strings.ToUpper(entry.Level.String()), entry.Message)
	return b.Bytes(), nil
}

// MessageFormatter writes the bare message, syslog takes care of the rest
type MessageFormatter struct{}

// Format implements log.Formatter
func (f *MessageFormatter) Format(entry *log.Entry) ([]byte, error) {
	return []byte(entry.Message + "\n"), nil
}

// dialSyslog connects to the local syslog daemon
var dialSyslog = func() (log.Hook, error) {
	return lSyslog.NewSyslogHook("", "", syslog.LOG_DAEMON|syslog.LOG_INFO, SyslogTag)
}

// Setup picks the sink for mode and sets the level. w is ignored in systemv mode.
func Setup(logger *log.Logger, mode reconcile.RunMode, verbose bool, w io.Writer) error {
	logger.SetLevel(log.InfoLevel)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	switch mode {
	case reconcile.RunContinuousForeground:
		logger.SetFormatter(&StructuredFormatter{})
		logger.SetOutput(w)
	case reconcile.RunContinuousDaemonized:
		hook, err := dialSyslog()
		if err != nil {
			return fmt.Errorf("connecting to syslog: %w", err)
		}
		logger.AddHook(hook)
		logger.SetFormatter(&MessageFormatter{})
		logger.SetOutput(io.Discard)
	default:
		logger.SetFormatter(&TimestampedFormatter{})
		logger.SetOutput(w)
	}
	return nil
}
