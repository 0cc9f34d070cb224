// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"

	"github.com/warthog618/go-pigpio"
)

const (
	maxTriggerLen = 100
	maxFilter     = 300 * time.Millisecond
	bankSize      = 32
)

// IO controls GPIOs through the GPIO character device.
//
// The character device cannot mux pins, so the alternate function modes and
// the noise filter return ErrNotSupported.
type IO struct {
	h *host
}

func (g *IO) SetMode(pin int, mode pigpio.Mode) error {
	if mode < pigpio.ModeInput || mode > pigpio.ModeAlt5 {
		return pigpio.BadMode
	}
	if mode != pigpio.ModeInput && mode != pigpio.ModeOutput {
		return notSupported("IO.SetMode")
	}
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	ln, err := g.h.request(pin)
	if err != nil {
		return err
	}
	if mode == pigpio.ModeInput {
		if !ln.output {
			return nil
		}
		return g.h.input(pin, ln)
	}
	v, err := ln.l.Value()
	if err != nil {
		return errors.Wrapf(err, "read line %d", pin)
	}
	_, err = g.h.output(pin, v)
	return err
}

// Mode returns ModeOutput or ModeInput.
//
// Lines not yet requested are reported as the kernel last left them.
func (g *IO) Mode(pin int) (pigpio.Mode, error) {
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	if err := g.h.checkPin(pin); err != nil {
		return pigpio.ModeInput, err
	}
	if ln, ok := g.h.lines[pin]; ok {
		if ln.output {
			return pigpio.ModeOutput, nil
		}
		return pigpio.ModeInput, nil
	}
	info, err := g.h.chip.LineInfo(pin)
	if err != nil {
		return pigpio.ModeInput, errors.Wrapf(err, "line info %d", pin)
	}
	if info.Config.Direction == gpiocdev.LineDirectionOutput {
		return pigpio.ModeOutput, nil
	}
	return pigpio.ModeInput, nil
}

func (g *IO) SetPull(pin int, pull pigpio.Pull) error {
	var opt gpiocdev.LineBias
	switch pull {
	case pigpio.PullOff:
		opt = gpiocdev.WithBiasDisabled
	case pigpio.PullDown:
		opt = gpiocdev.WithPullDown
	case pigpio.PullUp:
		opt = gpiocdev.WithPullUp
	default:
		return pigpio.BadPull
	}
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	ln, err := g.h.request(pin)
	if err != nil {
		return err
	}
	if err := ln.l.Reconfigure(opt); err != nil {
		return errors.Wrapf(err, "reconfigure line %d", pin)
	}
	ln.pull = pull
	return nil
}

func (g *IO) Read(pin int) (pigpio.Level, error) {
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	ln, err := g.h.request(pin)
	if err != nil {
		return pigpio.LevelLow, err
	}
	v, err := ln.l.Value()
	if err != nil {
		return pigpio.LevelLow, errors.Wrapf(err, "read line %d", pin)
	}
	return pigpio.ParseLevel(v)
}

// Write drives the GPIO, stopping any PWM or servo pulses on it.
func (g *IO) Write(pin int, level pigpio.Level) error {
	if level != pigpio.LevelLow && level != pigpio.LevelHigh {
		return pigpio.BadLevel
	}
	if err := g.h.stopPWM(pin); err != nil {
		return err
	}
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	return g.h.drive(pin, int(level))
}

// drive sets the pin to an output at the level.  Must be called with mu held.
func (h *host) drive(pin int, v int) error {
	ln, err := h.request(pin)
	if err != nil {
		return err
	}
	if !ln.output {
		_, err = h.output(pin, v)
		return err
	}
	if err := ln.l.SetValue(v); err != nil {
		return errors.Wrapf(err, "write line %d", pin)
	}
	return nil
}

// Trigger drives the level for the pulse length then reverts to the opposite
// level.
func (g *IO) Trigger(pin int, pulseLen uint, level pigpio.Level) error {
	if pulseLen < 1 || pulseLen > maxTriggerLen {
		return pigpio.BadPulseLength
	}
	if level != pigpio.LevelLow && level != pigpio.LevelHigh {
		return pigpio.BadLevel
	}
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	l, err := g.h.output(pin, 1-int(level))
	if err != nil {
		return err
	}
	if err := l.SetValue(int(level)); err != nil {
		return errors.Wrapf(err, "write line %d", pin)
	}
	busyWait(time.Duration(pulseLen) * time.Microsecond)
	if err := l.SetValue(1 - int(level)); err != nil {
		return errors.Wrapf(err, "write line %d", pin)
	}
	return nil
}

// busyWait spins for short periods that a sleep would overshoot.
func busyWait(d time.Duration) {
	end := time.Now().Add(d)
	for time.Now().Before(end) {
	}
}

// SetWatchdog requests edge events on the GPIO so that the watchdog is reset
// by level changes.
func (g *IO) SetWatchdog(pin int, timeout time.Duration) error {
	if timeout < 0 || timeout > pigpio.MaxWatchdog*time.Millisecond {
		return pigpio.BadWatchdog
	}
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	ln, err := g.h.request(pin)
	if err != nil {
		return err
	}
	ln.watchdog = timeout > 0
	if err := g.h.updateEdges(pin, ln); err != nil {
		return err
	}
	g.h.alerts.setWatchdog(pin, timeout)
	return nil
}

// SetGlitchFilter applies the steady period as the kernel debounce period of
// the line.
func (g *IO) SetGlitchFilter(pin int, steady time.Duration) error {
	if steady < 0 || steady > maxFilter {
		return pigpio.BadParam
	}
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	ln, err := g.h.request(pin)
	if err != nil {
		return err
	}
	ln.debounce = steady
	if ln.output {
		return nil
	}
	return g.h.input(pin, ln)
}

func (g *IO) SetNoiseFilter(pin int, steady, active time.Duration) error {
	return notSupported("IO.SetNoiseFilter")
}

// ReadBank returns the levels of those GPIOs 0-31 that the chip provides.
//
// Lines held by other consumers read as low.
func (g *IO) ReadBank() (uint32, error) {
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	if g.h.closed {
		return 0, pigpio.ErrClosed
	}
	var mask uint32
	for pin := range min(bankSize, g.h.chip.Lines()) {
		ln, err := g.h.request(pin)
		if err != nil {
			continue
		}
		if v, err := ln.l.Value(); err == nil && v != 0 {
			mask |= 1 << pin
		}
	}
	return mask, nil
}

func (g *IO) SetBank(mask uint32) error {
	return g.writeBank(mask, 1)
}

func (g *IO) ClearBank(mask uint32) error {
	return g.writeBank(mask, 0)
}

// writeBank drives the GPIOs in the mask, returning SomePermitted if any
// could not be driven.
func (g *IO) writeBank(mask uint32, v int) error {
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	if g.h.closed {
		return pigpio.ErrClosed
	}
	var failed bool
	for pin := range bankSize {
		if mask&(1<<pin) == 0 {
			continue
		}
		if err := g.h.drive(pin, v); err != nil {
			g.h.logger.Debug("bank write failed", "pin", pin, "error", err)
			failed = true
		}
	}
	if failed {
		return pigpio.SomePermitted
	}
	return nil
}

// SetAlertFunc requests edge events on the GPIO and delivers them to fn.
//
// Output lines cannot report edges, so fn is only called while the GPIO is
// an input, or by its watchdog.
func (g *IO) SetAlertFunc(pin int, fn pigpio.AlertFunc) error {
	g.h.mu.Lock()
	defer g.h.mu.Unlock()
	ln, err := g.h.request(pin)
	if err != nil {
		return err
	}
	g.h.alerts.register(pin, fn)
	ln.alert = fn != nil
	return g.h.updateEdges(pin, ln)
}
