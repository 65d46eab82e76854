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
	"os/signal"

	"golang.org/x/sys/unix"
)

// SignalContext returns a context cancelled on SIGTERM or SIGINT.
// SIGHUP and SIGCHLD are ignored.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	signal.Ignore(unix.SIGHUP, unix.SIGCHLD)
	return signal.NotifyContext(parent, unix.SIGTERM, unix.SIGINT)
}
