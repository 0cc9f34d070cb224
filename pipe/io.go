// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pipe

import (
	"context"
	"time"

	"github.com/warthog618/go-pigpio"
)

// IO provides GPIO control over the pipes.
//
// Bank operations and alert functions cannot be expressed in the line
// protocol and return ErrNotSupported.
type IO struct {
	adapter
}

// SetMode sends "m pin mode".
//
// A mode without a wire token returns BadMode without sending anything.
func (g *IO) SetMode(pin int, mode pigpio.Mode) error {
	if mode < pigpio.ModeInput || mode > pigpio.ModeAlt5 {
		return pigpio.BadMode
	}
	return g.result(NewCommand("m").Int(pin).Token(mode.Token()))
}

// Mode sends "mg pin" and decodes the mode token.
func (g *IO) Mode(pin int) (pigpio.Mode, error) {
	return g.t.SendMode(context.Background(), NewCommand("mg").Int(pin))
}

// SetPull sends "pud pin pull".
func (g *IO) SetPull(pin int, pull pigpio.Pull) error {
	if pull < pigpio.PullOff || pull > pigpio.PullUp {
		return pigpio.BadPull
	}
	return g.result(NewCommand("pud").Int(pin).Token(pull.Token()))
}

// Read sends "r pin".
func (g *IO) Read(pin int) (pigpio.Level, error) {
	return g.t.SendLevel(context.Background(), NewCommand("r").Int(pin))
}

// Write sends "w pin level".
//
// Only LevelLow and LevelHigh may be written, anything else returns BadLevel
// without sending anything.
func (g *IO) Write(pin int, level pigpio.Level) error {
	if !isDriveLevel(level) {
		return pigpio.BadLevel
	}
	return g.result(NewCommand("w").Int(pin).Token(level.Token()))
}

// Trigger sends "trig pin len level".
func (g *IO) Trigger(pin int, pulseLen uint, level pigpio.Level) error {
	if !isDriveLevel(level) {
		return pigpio.BadLevel
	}
	return g.result(NewCommand("trig").Int(pin).Uint(pulseLen).Token(level.Token()))
}

// SetWatchdog sends "wdog pin ms".
func (g *IO) SetWatchdog(pin int, timeout time.Duration) error {
	return g.result(NewCommand("wdog").Int(pin).Uint(uint(timeout.Milliseconds())))
}

// SetGlitchFilter sends "fg pin us".
func (g *IO) SetGlitchFilter(pin int, steady time.Duration) error {
	return g.result(NewCommand("fg").Int(pin).Uint(uint(steady.Microseconds())))
}

// SetNoiseFilter sends "fn pin steady active".
func (g *IO) SetNoiseFilter(pin int, steady, active time.Duration) error {
	return g.result(NewCommand("fn").Int(pin).
		Uint(uint(steady.Microseconds())).
		Uint(uint(active.Microseconds())))
}

// ReadBank returns ErrNotSupported.
func (g *IO) ReadBank() (uint32, error) {
	return 0, notSupported("IO.ReadBank")
}

// SetBank returns ErrNotSupported.
func (g *IO) SetBank(mask uint32) error {
	return notSupported("IO.SetBank")
}

// ClearBank returns ErrNotSupported.
func (g *IO) ClearBank(mask uint32) error {
	return notSupported("IO.ClearBank")
}

// SetAlertFunc is not supported as the pipes provide no means for the daemon
// to report level changes asynchronously.
func (g *IO) SetAlertFunc(pin int, fn pigpio.AlertFunc) error {
	return notSupported("IO.SetAlertFunc")
}

func isDriveLevel(l pigpio.Level) bool {
	return l == pigpio.LevelLow || l == pigpio.LevelHigh
}
