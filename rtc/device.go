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

package rtc

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"
	"unsafe"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// pollSlice bounds a single poll(2) so a stop request is noticed while we wait for a tick
const pollSlice = 250 * time.Millisecond

// the status word is an unsigned long
const statusWordSize = int(unsafe.Sizeof(uint(0)))

// Device is an RTC character device opened read-only.
// It is not safe for concurrent use.
type Device struct {
	path   string
	file   *os.File
	armed  bool
	logger *log.Logger
}

// NewDevice returns a Device for path. Nothing is opened until first use.
func NewDevice(path string, logger *log.Logger) *Device {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Device{path: path, logger: logger}
}

// Open returns an opened Device for path with update interrupts enabled
func Open(path string, logger *log.Logger) (*Device, error) {
	d := NewDevice(path, logger)
	if err := d.Open(); err != nil {
		return nil, err
	}
	return d, nil
}

// FromFile returns a Device backed by an already open file
func FromFile(f *os.File, logger *log.Logger) *Device {
	d := NewDevice(f.Name(), logger)
	d.file = f
	return d
}

// Path returns path of the device node
func (d *Device) Path() string {
	return d.path
}

// File returns the underlying file, nil if the device is not open
func (d *Device) File() *os.File {
	return d.file
}

func (d *Device) fd() int {
	return int(d.file.Fd())
}

// Open opens the device read-only and enables update interrupts.
// Calling Open on an open device does nothing.
func (d *Device) Open() error {
	if d.file != nil {
		return nil
	}
	f, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("%w: opening %s read-only: %w", ErrDeviceUnavailable, d.path, err)
	}
	d.file = f
	if err := d.ArmTickInterrupt(); err != nil {
		d.file = nil
		if cerr := f.Close(); cerr != nil {
			d.logger.Errorf("closing %s: %v", d.path, cerr)
		}
		return err
	}
	return nil
}

// ArmTickInterrupt enables the once-per-second update interrupt (RTC_UIE_ON)
func (d *Device) ArmTickInterrupt() error {
	if d.file == nil {
		return fmt.Errorf("%w: %s is not open", ErrDeviceUnavailable, d.path)
	}
	d.logger.Debug("enabling rtc tick interrupts")
	if err := unix.IoctlSetInt(d.fd(), unix.RTC_UIE_ON, 0); err != nil {
		return fmt.Errorf("%w: turning on clock tick interrupts via ioctl(RTC_UIE_ON) on %s: %w", ErrHardwareControl, d.path, err)
	}
	d.armed = true
	return nil
}

// DisarmTickInterrupt disables update interrupts (RTC_UIE_OFF).
// It is used during cleanup so failures are only logged.
func (d *Device) DisarmTickInterrupt() {
	if d.file == nil || !d.armed {
		return
	}
	d.logger.Debug("disabling rtc tick interrupts")
	if err := unix.IoctlSetInt(d.fd(), unix.RTC_UIE_OFF, 0); err != nil {
		d.logger.Errorf("turning off clock tick interrupts via ioctl(RTC_UIE_OFF) on %s: %v", d.path, err)
		return
	}
	d.armed = false
}

// Close disarms interrupts and closes the device
func (d *Device) Close() {
	if d.file == nil {
		return
	}
	d.DisarmTickInterrupt()
	if err := d.file.Close(); err != nil {
		d.logger.Errorf("closing %s: %v", d.path, err)
	}
	d.file = nil
}

// WaitForTick blocks until the next update interrupt, timeout or ctx cancellation.
// After the interrupt fired the status word is read, otherwise the next wait would return immediately.
func (d *Device) WaitForTick(ctx context.Context, timeout time.Duration) (TickResult, error) {
	if err := d.Open(); err != nil {
		return TickFired, err
	}
	deadline := time.Now().Add(timeout)
	fds := []unix.PollFd{{Fd: int32(d.fd()), Events: unix.POLLIN}}
	for {
		if ctx.Err() != nil {
			d.logger.Info("waiting for clock tick interrupted by stop request, will exit ASAP")
			return TickInterrupted, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			d.logger.Debugf("waiting for clock tick interrupt timed out. timeout=%v", timeout)
			return TickTimedOut, nil
		}
		slice := min(remaining, pollSlice)
		n, err := unix.Poll(fds, max(int(slice.Milliseconds()), 1))
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return TickFired, fmt.Errorf("%w: waiting for clock tick interrupt on %s: %w", ErrHardwareRead, d.path, err)
		}
		if n == 0 {
			continue
		}
		if ctx.Err() != nil {
			d.logger.Info("waiting for clock tick interrupted by stop request, will exit ASAP")
			return TickInterrupted, nil
		}
		if _, err := d.readStatus(); err != nil {
			return TickFired, err
		}
		return TickFired, nil
	}
}

// readStatus consumes the interrupt status word, the least significant byte is the bitmask of fired interrupts
func (d *Device) readStatus() (byte, error) {
	buf := make([]byte, statusWordSize)
	n, err := unix.Read(d.fd(), buf)
	if err != nil {
		return 0, fmt.Errorf("%w: read() on %s: %w", ErrHardwareRead, d.path, err)
	}
	if n != len(buf) {
		return 0, fmt.Errorf("%w: read() on %s returned %d bytes, want %d", ErrHardwareRead, d.path, n, len(buf))
	}
	var word uint64
	if statusWordSize == 8 {
		word = binary.NativeEndian.Uint64(buf)
	} else {
		word = uint64(binary.NativeEndian.Uint32(buf))
	}
	mask := byte(word)
	d.logger.Debugf("read() on rtc returned interrupt bitmask=0x%02x", mask)
	return mask, nil
}

// ReadCalendar reads the current calendar registers (RTC_RD_TIME)
func (d *Device) ReadCalendar() (Reading, error) {
	if err := d.Open(); err != nil {
		return Reading{}, err
	}
	t, err := unix.IoctlGetRTCTime(d.fd())
	if err != nil {
		return Reading{}, fmt.Errorf("%w: reading rtc via ioctl(RTC_RD_TIME) on %s: %w", ErrHardwareRead, d.path, err)
	}
	return Reading{
		Sec:   int(t.Sec),
		Min:   int(t.Min),
		Hour:  int(t.Hour),
		Mday:  int(t.Mday),
		Mon:   int(t.Mon),
		Year:  int(t.Year),
		Wday:  int(t.Wday),
		Yday:  int(t.Yday),
		Isdst: int(t.Isdst),
	}, nil
}
