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

// Package daemon has the glue needed to run as a service: pid file, detaching, signals and systemd notifications.
package daemon

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// DefaultPIDFile is where systemv mode records its pid
const DefaultPIDFile = "/var/run/polite-hwclock.pid"

// WritePIDFile creates a pid file, failing if one already exists
func WritePIDFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "%d\n", unix.Getpid()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RemovePIDFile deletes a pid file
func RemovePIDFile(path string) error {
	return os.Remove(path)
}

// ReadPIDFile reads a pid file and returns the pid
func ReadPIDFile(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}
