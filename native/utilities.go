// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/warthog618/go-pigpio"
)

const (
	maxDelayMicros = 1000000
	maxDelayMillis = 60000
)

// Utilities provides system information and delays.
type Utilities struct {
	h *host
}

// HardwareRevision returns the revision reported by the kernel, or 0 if it
// cannot be determined.
func (u *Utilities) HardwareRevision() (uint, error) {
	rev, err := readRevision(u.h.cfg.cpuinfo)
	if err != nil {
		u.h.logger.Debug("revision unavailable", "path", u.h.cfg.cpuinfo, "error", err)
		return 0, nil
	}
	return rev, nil
}

// readRevision returns the value of the Revision line of a cpuinfo file.
func readRevision(path string) (uint, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	for s.Scan() {
		key, val, ok := strings.Cut(s.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Revision" {
			continue
		}
		rev, err := strconv.ParseUint(strings.TrimSpace(val), 16, 32)
		if err != nil {
			return 0, err
		}
		return uint(rev), nil
	}
	if err := s.Err(); err != nil {
		return 0, err
	}
	return 0, os.ErrNotExist
}

func (u *Utilities) Version() (uint, error) {
	return pigpio.Version, nil
}

// Tick returns the monotonic clock in microseconds, the same clock that
// timestamps alerts.
func (u *Utilities) Tick() (uint32, error) {
	return u.h.tick(), nil
}

func (h *host) tick() uint32 {
	return uint32(monotonic() / time.Microsecond)
}

// monotonic returns the CLOCK_MONOTONIC time, the clock the kernel uses to
// timestamp edge events.
func monotonic() time.Duration {
	var ts unix.Timespec
	unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)
	return time.Duration(ts.Nano())
}

func (u *Utilities) DelayMicros(us uint) error {
	if us < 1 || us > maxDelayMicros {
		return pigpio.BadMicsDelay
	}
	d := time.Duration(us) * time.Microsecond
	if us <= maxTriggerLen {
		busyWait(d)
		return nil
	}
	time.Sleep(d)
	return nil
}

func (u *Utilities) DelayMillis(ms uint) error {
	if ms < 1 || ms > maxDelayMillis {
		return pigpio.BadMilsDelay
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return nil
}
