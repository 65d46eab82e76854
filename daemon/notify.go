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
	sddaemon "github.com/coreos/go-systemd/daemon"
	log "github.com/sirupsen/logrus"
)

var sdNotify = sddaemon.SdNotify

func notify(state string) {
	sent, err := sdNotify(false, state)
	if err != nil {
		log.Warningf("failed to notify systemd %q: %v", state, err)
		return
	}
	if !sent {
		log.Debugf("not running under systemd, %q not sent", state)
	}
}

// NotifyReady tells systemd startup is finished
func NotifyReady() {
	notify(sddaemon.SdNotifyReady)
}

// NotifyStopping tells systemd we are shutting down
func NotifyStopping() {
	notify(sddaemon.SdNotifyStopping)
}
