// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pigsim

import (
	"github.com/pkg/errors"

	"github.com/warthog618/go-pigpio"
)

// Chip provides the interface to a simulated bank of GPIOs.
//
// Lines are identified by offset into the chip, with offsets
// being in the range 0..Config().NumLines-1.
// The daemon addresses the same lines by GPIO number, which is Base()+offset.
type Chip struct {
	// The GPIO number of offset 0.
	base int

	// The daemon serving the lines.
	d *daemon

	// The configuration for this chip
	cfg Bank
}

// Base returns the GPIO number of the first line of the chip.
func (c *Chip) Base() int {
	return c.base
}

// Config returns the configuration used for the Chip.
func (c *Chip) Config() Bank {
	return c.cfg
}

// GPIO returns the GPIO number used by the daemon for the line at offset.
func (c *Chip) GPIO(offset int) int {
	return c.base + offset
}

// Level returns the level of the line.
//
// If the line is an output then this is the level a client is driving it to,
// and otherwise it is the level the line is being pulled to.
func (c *Chip) Level(offset int) (int, error) {
	var v int
	err := c.withPin(offset, func(p *pin) error {
		v = p.level()
		return nil
	})
	return v, err
}

const (
	// Line is inactive.
	LevelInactive int = iota

	// Line is active.
	LevelActive
)

// Mode returns the mode a client has set for the line.
func (c *Chip) Mode(offset int) (pigpio.Mode, error) {
	var m pigpio.Mode
	err := c.withPin(offset, func(p *pin) error {
		m = p.mode
		return nil
	})
	return m, err
}

// Pull returns the current pull of the given line.
func (c *Chip) Pull(offset int) (pigpio.Pull, error) {
	var pull pigpio.Pull
	err := c.withPin(offset, func(p *pin) error {
		pull = p.pull
		return nil
	})
	return pull, err
}

// Pulldown sets the pull of the given line to pull-down.
func (c *Chip) Pulldown(offset int) error {
	return c.SetPull(offset, LevelInactive)
}

// Pullup sets the pull of the given line to pull-up.
func (c *Chip) Pullup(offset int) error {
	return c.SetPull(offset, LevelActive)
}

// SetPull sets the pull of the given line.
//
// This is the external pull applied to the line, so is not refused for
// hogged lines.
func (c *Chip) SetPull(offset int, level int) error {
	pull := pigpio.PullDown
	if level == LevelActive {
		pull = pigpio.PullUp
	}
	return c.withPin(offset, func(p *pin) error {
		p.pull = pull
		return nil
	})
}

// Toggle flips the pull of the given line.
//
// If it was pull-up it becomes pull-down, and vice versa.
func (c *Chip) Toggle(offset int) error {
	return c.withPin(offset, func(p *pin) error {
		if p.pull == pigpio.PullUp {
			p.pull = pigpio.PullDown
		} else {
			p.pull = pigpio.PullUp
		}
		return nil
	})
}

// DutyCycle returns the PWM duty cycle a client has set for the line.
func (c *Chip) DutyCycle(offset int) (uint, error) {
	var duty uint
	err := c.withPin(offset, func(p *pin) error {
		duty = p.duty
		return nil
	})
	return duty, err
}

// FeedBitBang queues data to be returned by bit-bang serial reads of the line.
func (c *Chip) FeedBitBang(offset int, data []byte) error {
	return c.withPin(offset, func(p *pin) error {
		p.bbData = append(p.bbData, data...)
		return nil
	})
}

// withPin calls fn with the state of the line locked.
func (c *Chip) withPin(offset int, fn func(p *pin) error) error {
	if offset < 0 || offset >= c.cfg.NumLines {
		return errors.Errorf("offset %d out of range", offset)
	}
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	return fn(&c.d.pins[c.base+offset])
}
