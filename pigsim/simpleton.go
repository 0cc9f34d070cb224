// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pigsim

import "github.com/warthog618/go-pigpio"

// Simpleton is a Sim with a single bank of GPIOs.
type Simpleton struct {
	Sim
}

func NewSimpleton(numLines int, options ...NewSimOption) (*Simpleton, error) {
	options = append([]NewSimOption{WithBank(NewBank("simpleton", numLines))}, options...)
	s, err := NewSim(options...)
	if s == nil {
		return nil, err
	}
	return &Simpleton{*s}, err
}

// Config returns the configuration used for the bank.
func (s *Simpleton) Config() Bank {
	return s.Chips[0].cfg
}

// Level returns the level of the GPIO.
//
// If a client has set the GPIO as an output then this is the level it is
// driving it to, and otherwise there is little point calling this method -
// you probably should be calling Pull instead.
func (s *Simpleton) Level(offset int) (int, error) {
	return s.Chips[0].Level(offset)
}

// Mode returns the mode a client has set for the GPIO.
func (s *Simpleton) Mode(offset int) (pigpio.Mode, error) {
	return s.Chips[0].Mode(offset)
}

// Pull returns the current the pull of the given GPIO.
func (s *Simpleton) Pull(offset int) (pigpio.Pull, error) {
	return s.Chips[0].Pull(offset)
}

// Pulldown sets the pull of the given GPIO to pull-down.
func (s *Simpleton) Pulldown(offset int) error {
	return s.Chips[0].Pulldown(offset)
}

// Pullup sets the pull of the given GPIO to pull-up.
func (s *Simpleton) Pullup(offset int) error {
	return s.Chips[0].Pullup(offset)
}

// SetPull sets the pull of the given GPIO.
func (s *Simpleton) SetPull(offset int, level int) error {
	return s.Chips[0].SetPull(offset, level)
}

// Toggle flips the pull of the given GPIO.
//
// If it was pull-up it becomes pull-down, and vice versa.
func (s *Simpleton) Toggle(offset int) error {
	return s.Chips[0].Toggle(offset)
}
