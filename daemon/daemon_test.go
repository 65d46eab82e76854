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

package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestPIDFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "polite-hwclock.pid")

	require.NoError(t, WritePIDFile(p))
	require.FileExists(t, p)
	info, err := os.Stat(p)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	pid, err := ReadPIDFile(p)
	require.NoError(t, err)
	require.Equal(t, unix.Getpid(), pid)

	// somebody else is running
	require.ErrorIs(t, WritePIDFile(p), os.ErrExist)

	require.NoError(t, RemovePIDFile(p))
	require.NoFileExists(t, p)
	require.ErrorIs(t, RemovePIDFile(p), os.ErrNotExist)
}

func TestReadPIDFileRubbish(t *testing.T) {
	p := filepath.Join(t.TempDir(), "polite-hwclock.pid")
	require.NoError(t, os.WriteFile(p, []byte("rubbish"), 0600))
	pid, err := ReadPIDFile(p)
	require.Error(t, err)
	require.Equal(t, 0, pid)
}

func TestDetached(t *testing.T) {
	t.Setenv(detachedEnv, "")
	require.False(t, Detached())
	t.Setenv(detachedEnv, "1")
	require.True(t, Detached())
}

func TestSignalContext(t *testing.T) {
	ctx, cancel := SignalContext(context.Background())
	defer cancel()
	require.NoError(t, unix.Kill(unix.Getpid(), unix.SIGHUP))
	require.NoError(t, ctx.Err())
	require.NoError(t, unix.Kill(unix.Getpid(), unix.SIGTERM))
	<-ctx.Done()
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestNotify(t *testing.T) {
	orig := sdNotify
	defer func() { sdNotify = orig }()
	var states []string
	sdNotify = func(_ bool, state string) (bool, error) {
		states = append(states, state)
		if len(states) == 2 {
			return false, errors.New("connection refused")
		}
		return true, nil
	}
	NotifyReady()
	NotifyStopping()
	require.Equal(t, []string{"READY=1", "STOPPING=1"}, states)
}

func TestNotifyNoSystemd(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	sent, err := sdNotify(false, "READY=1")
	require.NoError(t, err)
	require.False(t, sent)
}
