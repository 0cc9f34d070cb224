// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pipe

import (
	"github.com/warthog618/go-pigpio"
)

// Waves builds and transmits waveforms within the daemon.
//
// Chaining waves requires a binary control stream that the line protocol
// cannot carry, so Chain returns ErrNotSupported.
type Waves struct {
	adapter
}

// Clear sends "wvclr".
func (w *Waves) Clear() error {
	return w.result(NewCommand("wvclr"))
}

// New sends "wvnew".
func (w *Waves) New() error {
	return w.result(NewCommand("wvnew"))
}

// AddGeneric sends "wvag" with an on, off and delay triple per pulse.
func (w *Waves) AddGeneric(pulses []pigpio.Pulse) (uint, error) {
	c := NewCommand("wvag")
	for _, p := range pulses {
		c = c.Uint(uint(p.On)).Uint(uint(p.Off)).Uint(uint(p.Delay))
	}
	return w.value(c)
}

// Create sends "wvcre" and returns the wave id.
func (w *Waves) Create() (pigpio.Handle, error) {
	return w.handle(NewCommand("wvcre"))
}

// Delete sends "wvdel id".
func (w *Waves) Delete(id pigpio.Handle) error {
	return w.result(NewCommand("wvdel").Int(int(id)))
}

// SendOnce sends "wvtx id" and returns the number of DMA control blocks.
func (w *Waves) SendOnce(id pigpio.Handle) (uint, error) {
	return w.value(NewCommand("wvtx").Int(int(id)))
}

// SendRepeat sends "wvtxr id" and returns the number of DMA control blocks.
func (w *Waves) SendRepeat(id pigpio.Handle) (uint, error) {
	return w.value(NewCommand("wvtxr").Int(int(id)))
}

// Chain returns ErrNotSupported.
func (w *Waves) Chain(ids []pigpio.Handle) error {
	return notSupported("Waves.Chain")
}

// Busy sends "wvbsy".
func (w *Waves) Busy() (bool, error) {
	v, err := w.value(NewCommand("wvbsy"))
	return v != 0, err
}

// Stop sends "wvhlt".
func (w *Waves) Stop() error {
	return w.result(NewCommand("wvhlt"))
}
