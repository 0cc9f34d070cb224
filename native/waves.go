// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"

	"github.com/warthog618/go-pigpio"
)

// sequencer builds waveforms and plays them out on output lines.
type sequencer struct {
	h *host

	mu      sync.Mutex
	pending []pigpio.Pulse
	waves   *handles[[]pigpio.Pulse]
	tx      *worker
}

func newSequencer(h *host) *sequencer {
	return &sequencer{
		h:     h,
		waves: newHandles[[]pigpio.Pulse](maxWaves, pigpio.NoWaveformID),
	}
}

// halt stops any waveform being transmitted.
func (s *sequencer) halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.haltLocked()
}

func (s *sequencer) haltLocked() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	return tx.halt(s.h.cfg.stopTimeout)
}

// wave returns the pulses of the wave.
func (s *sequencer) wave(id pigpio.Handle) ([]pigpio.Pulse, error) {
	w, err := s.waves.get(id)
	if err != nil {
		return nil, pigpio.BadWaveID
	}
	return w, nil
}

// lines returns the output lines for the GPIOs switched by the pulses.
func (s *sequencer) lines(pulses []pigpio.Pulse) (map[int]*gpiocdev.Line, error) {
	var mask uint32
	for _, p := range pulses {
		mask |= p.On | p.Off
	}
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	ll := map[int]*gpiocdev.Line{}
	for pin := range bankSize {
		if mask&(1<<pin) == 0 {
			continue
		}
		l, err := s.h.output(pin, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "wave gpio %d", pin)
		}
		ll[pin] = l
	}
	return ll, nil
}

// transmit starts a worker playing the pulses, once or repeatedly.
func (s *sequencer) transmit(pulses []pigpio.Pulse, repeat bool) error {
	ll, err := s.lines(pulses)
	if err != nil {
		return err
	}
	if err := s.haltLocked(); err != nil {
		return err
	}
	s.tx = startWorker(func(stop <-chan struct{}) {
		for {
			if !play(stop, ll, pulses) || !repeat {
				return
			}
		}
	})
	return nil
}

// play switches the lines as each pulse requires, then waits for its delay.
//
// Returns false if stopped before the pulses are complete.
func play(stop <-chan struct{}, ll map[int]*gpiocdev.Line, pulses []pigpio.Pulse) bool {
	for _, p := range pulses {
		for pin, l := range ll {
			bit := uint32(1) << pin
			switch {
			case p.On&bit != 0:
				l.SetValue(1)
			case p.Off&bit != 0:
				l.SetValue(0)
			}
		}
		if !sleep(stop, time.Duration(p.Delay)*time.Microsecond) {
			return false
		}
	}
	return true
}

// Waves builds waveforms and transmits them from a worker goroutine.
//
// Timing is only as good as the scheduler allows.
type Waves struct {
	h *host
}

// Clear stops transmission and deletes all waveforms.
func (w *Waves) Clear() error {
	s := w.h.waves
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.haltLocked()
	s.pending = nil
	s.waves.drain()
	return err
}

// New discards the waveform under construction.
func (w *Waves) New() error {
	s := w.h.waves
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	return nil
}

func (w *Waves) AddGeneric(pulses []pigpio.Pulse) (uint, error) {
	s := w.h.waves
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending)+len(pulses) > maxPulses {
		return 0, pigpio.TooManyPulses
	}
	s.pending = append(s.pending, pulses...)
	return uint(len(s.pending)), nil
}

// Create turns the waveform under construction into a wave and starts a new
// waveform.
func (w *Waves) Create() (pigpio.Handle, error) {
	s := w.h.waves
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return -1, pigpio.EmptyWaveform
	}
	id, err := s.waves.add(s.pending)
	if err != nil {
		return -1, err
	}
	s.pending = nil
	return id, nil
}

func (w *Waves) Delete(id pigpio.Handle) error {
	if _, err := w.h.waves.waves.remove(id); err != nil {
		return pigpio.BadWaveID
	}
	return nil
}

// SendOnce transmits the wave once, replacing any wave being transmitted,
// and returns the number of pulses.
func (w *Waves) SendOnce(id pigpio.Handle) (uint, error) {
	return w.send(id, false)
}

// SendRepeat transmits the wave until stopped.
func (w *Waves) SendRepeat(id pigpio.Handle) (uint, error) {
	return w.send(id, true)
}

func (w *Waves) send(id pigpio.Handle, repeat bool) (uint, error) {
	s := w.h.waves
	s.mu.Lock()
	defer s.mu.Unlock()
	pulses, err := s.wave(id)
	if err != nil {
		return 0, err
	}
	if err := s.transmit(pulses, repeat); err != nil {
		return 0, err
	}
	return uint(len(pulses)), nil
}

// Chain transmits the waves once each, in order.
func (w *Waves) Chain(ids []pigpio.Handle) error {
	if len(ids) == 0 {
		return pigpio.BadParam
	}
	s := w.h.waves
	s.mu.Lock()
	defer s.mu.Unlock()
	var pulses []pigpio.Pulse
	for _, id := range ids {
		wave, err := s.wave(id)
		if err != nil {
			return err
		}
		pulses = append(pulses, wave...)
	}
	return s.transmit(pulses, false)
}

func (w *Waves) Busy() (bool, error) {
	s := w.h.waves
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx != nil && s.tx.running(), nil
}

func (w *Waves) Stop() error {
	return w.h.waves.halt()
}
