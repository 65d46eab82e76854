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

package logging

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/facebook/polite-hwclock/reconcile"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestStructuredFormatter(t *testing.T) {
	f := &StructuredFormatter{}
	cases := map[log.Level]string{
		log.ErrorLevel: "<3>boom\n",
		log.WarnLevel:  "<4>boom\n",
		log.InfoLevel:  "<6>boom\n",
		log.DebugLevel: "<7>boom\n",
	}
	for level, want := range cases {
		b, err := f.Format(&log.Entry{Level: level, Message: "boom"})
		require.NoError(t, err)
		require.Equal(t, want, string(b))
	}
}

func TestTimestampedFormatter(t *testing.T) {
	f := &TimestampedFormatter{}
	ts := time.Date(2024, 3, 1, 12, 30, 45, 123456789, time.Local)
	b, err := f.Format(&log.Entry{Time: ts, Level: log.ErrorLevel, Message: "delta=-900000000 usec"})
	require.NoError(t, err)
	require.Equal(t, "2024-03-01 12:30:45.123456 ERROR: delta=-900000000 usec\n", string(b))

	b, err = f.Format(&log.Entry{Time: ts, Level: log.WarnLevel, Message: "hmm"})
	require.NoError(t, err)
	require.Equal(t, "2024-03-01 12:30:45.123456 WARNING: hmm\n", string(b))
}

func TestMessageFormatter(t *testing.T) {
	b, err := (&MessageFormatter{}).Format(&log.Entry{Level: log.InfoLevel, Message: "hello"})
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(b))
}

func TestSetupForeground(t *testing.T) {
	logger := log.New()
	var buf bytes.Buffer
	require.NoError(t, Setup(logger, reconcile.RunContinuousForeground, false, &buf))
	logger.Debug("hidden")
	logger.Info("time is adjusting politely")
	require.Equal(t, "<6>time is adjusting politely\n", buf.String())
}

func TestSetupOnceVerbose(t *testing.T) {
	logger := log.New()
	var buf bytes.Buffer
	require.NoError(t, Setup(logger, reconcile.RunOnce, true, &buf))
	require.Equal(t, log.DebugLevel, logger.GetLevel())
	logger.Debug("sampled clocks")
	require.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{6} DEBUG: sampled clocks\n$`, buf.String())
}

func TestSetupDaemonized(t *testing.T) {
	hook := &test.Hook{}
	orig := dialSyslog
	defer func() { dialSyslog = orig }()
	dialSyslog = func() (log.Hook, error) { return hook, nil }

	logger := log.New()
	var buf bytes.Buffer
	require.NoError(t, Setup(logger, reconcile.RunContinuousDaemonized, false, &buf))
	logger.Error("Reboot recommended")
	require.Empty(t, buf.String())
	require.Equal(t, io.Discard, logger.Out)
	require.Len(t, hook.AllEntries(), 1)
	require.Equal(t, "Reboot recommended", hook.LastEntry().Message)
}

func TestSetupDaemonizedNoSyslog(t *testing.T) {
	orig := dialSyslog
	defer func() { dialSyslog = orig }()
	dialSyslog = func() (log.Hook, error) { return nil, errors.New("no such file or directory") }

	err := Setup(log.New(), reconcile.RunContinuousDaemonized, false, io.Discard)
	require.EqualError(t, err, "connecting to syslog: no such file or directory")
}
