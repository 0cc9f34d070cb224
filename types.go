// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pigpio

import (
	"fmt"

	"github.com/pkg/errors"
)

// Handle identifies a resource opened within the backend, such as an I2C
// device, a serial port, a wave or a thread.
//
// Handles are only ever obtained from an open style operation and are invalid
// once the backend is closed or disconnected.
type Handle int

// Mode is the function assigned to a GPIO.
type Mode int

const (
	// GPIO is an input.
	ModeInput Mode = iota

	// GPIO is an output.
	ModeOutput

	// GPIO is assigned to one of its alternate functions.
	ModeAlt0
	ModeAlt1
	ModeAlt2
	ModeAlt3
	ModeAlt4
	ModeAlt5
)

var modeTokens = [...]string{"R", "W", "0", "1", "2", "3", "4", "5"}

// Token returns the wire token for the mode, e.g. "W" for ModeOutput.
func (m Mode) Token() string {
	if m < 0 || int(m) >= len(modeTokens) {
		return "?"
	}
	return modeTokens[m]
}

func (m Mode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeOutput:
		return "output"
	}
	if m > ModeOutput && int(m) < len(modeTokens) {
		return "alt" + modeTokens[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a wire token back to its Mode.
//
// Unknown tokens are an error, never a default.
func ParseMode(token string) (Mode, error) {
	for i, t := range modeTokens {
		if t == token {
			return Mode(i), nil
		}
	}
	return ModeInput, errors.Errorf("unexpected mode token: %q", token)
}

// Pull is the bias applied to a GPIO.
type Pull int

const (
	// No bias.
	PullOff Pull = iota

	// Pulled down to ground.
	PullDown

	// Pulled up to 3V3.
	PullUp
)

var pullTokens = [...]string{"O", "D", "U"}

// Token returns the wire token for the pull.
func (p Pull) Token() string {
	if p < 0 || int(p) >= len(pullTokens) {
		return "?"
	}
	return pullTokens[p]
}

func (p Pull) String() string {
	switch p {
	case PullOff:
		return "off"
	case PullDown:
		return "down"
	case PullUp:
		return "up"
	}
	return fmt.Sprintf("Pull(%d)", int(p))
}

// ParsePull maps a wire token back to its Pull.
func ParsePull(token string) (Pull, error) {
	for i, t := range pullTokens {
		if t == token {
			return Pull(i), nil
		}
	}
	return PullOff, errors.Errorf("unexpected pull token: %q", token)
}

// Level is the logical level of a GPIO.
type Level int

const (
	// Line is low.
	LevelLow Level = iota

	// Line is high.
	LevelHigh

	// Reported to alert functions when a watchdog expires without a level
	// change.
	LevelTimeout
)

// Token returns the wire token for the level.
func (l Level) Token() string {
	if l == LevelHigh {
		return "1"
	}
	return "0"
}

// ParseLevel converts a read result into a Level.
func ParseLevel(v int) (Level, error) {
	switch v {
	case 0:
		return LevelLow, nil
	case 1:
		return LevelHigh, nil
	}
	return LevelLow, errors.Errorf("unexpected level value: %d", v)
}

// AlertFunc is called when a GPIO changes level, or its watchdog expires.
//
// The tick is the backend's microsecond tick at the time of the change.
type AlertFunc func(pin int, level Level, tick uint32)

// Pulse is one step of a waveform.
//
// The GPIOs in the On mask are switched on, and those in the Off mask are
// switched off, then the sequence pauses for Delay microseconds.
type Pulse struct {
	On    uint32
	Off   uint32
	Delay uint32
}

// ThreadFunc is the body of a thread started with Threads.Start.
//
// The function should return promptly once stop is closed.
type ThreadFunc func(stop <-chan struct{})
