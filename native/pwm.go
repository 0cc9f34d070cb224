// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/warthog618/go-pigpio"
)

const (
	servoPeriod      = 20 * time.Millisecond
	maxHardwarePWMHz = 187500000
	hardwarePWMClock = 250000000
)

// pwmState is the PWM configuration of a GPIO and the worker generating
// its pulses.
type pwmState struct {
	freq  uint
	rng   uint
	duty  uint
	servo uint

	// hardware PWM, emulated in software
	hw     bool
	hwFreq uint
	hwDuty uint

	w *worker
}

func newPWMState() *pwmState {
	return &pwmState{
		freq: pigpio.DefaultPWMFrequency,
		rng:  pigpio.DefaultPWMRange,
	}
}

func (ps *pwmState) active() bool {
	return ps.w != nil
}

// stop halts the worker, if any.
func (ps *pwmState) stop(timeout time.Duration) error {
	if ps.w == nil {
		return nil
	}
	w := ps.w
	ps.w = nil
	return w.halt(timeout)
}

// pulses returns the period and on time of the pulses the state describes.
func (ps *pwmState) pulses() (period, on time.Duration) {
	switch {
	case ps.hw:
		period = time.Second / time.Duration(ps.hwFreq)
		on = period * time.Duration(ps.hwDuty) / pigpio.MaxHardwarePWMDuty
	case ps.servo != 0:
		period = servoPeriod
		on = time.Duration(ps.servo) * time.Microsecond
	default:
		period = time.Second / time.Duration(ps.freq)
		on = period * time.Duration(ps.duty) / time.Duration(ps.rng)
	}
	return period, on
}

// pulseTrain returns a worker body driving the line with the pulses.
func pulseTrain(l *gpiocdev.Line, period, on time.Duration) func(stop <-chan struct{}) {
	return func(stop <-chan struct{}) {
		switch {
		case on <= 0:
			l.SetValue(0)
			<-stop
			return
		case on >= period:
			l.SetValue(1)
			<-stop
			return
		}
		for {
			l.SetValue(1)
			if !sleep(stop, on) {
				return
			}
			l.SetValue(0)
			if !sleep(stop, period-on) {
				return
			}
		}
	}
}

// PWM generates PWM and servo pulses in software.
//
// Each GPIO generating pulses has its own worker goroutine, so the timing is
// only as good as the scheduler allows.  Hardware PWM is emulated the same
// way, restricted to the GPIOs that support it, while hardware clocks return
// ErrNotSupported.
type PWM struct {
	h *host
}

// pwmState returns the PWM state of the pin, creating it if necessary.  Must be
// called with mu held.
func (h *host) pwmState(pin int) (*pwmState, error) {
	if err := h.checkPin(pin); err != nil {
		return nil, err
	}
	ps, ok := h.pwm[pin]
	if !ok {
		ps = newPWMState()
		h.pwm[pin] = ps
	}
	return ps, nil
}

// restart replaces the worker driving the pin with one generating the
// current pulses.  Must be called with mu held.
func (h *host) restart(pin int, ps *pwmState) error {
	if err := ps.stop(h.cfg.stopTimeout); err != nil {
		return err
	}
	l, err := h.output(pin, 0)
	if err != nil {
		return err
	}
	period, on := ps.pulses()
	ps.w = startWorker(pulseTrain(l, period, on))
	return nil
}

// stopPWM stops any pulses on the pin, leaving the PWM configuration intact.
func (h *host) stopPWM(pin int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkPin(pin); err != nil {
		return err
	}
	ps, ok := h.pwm[pin]
	if !ok {
		return nil
	}
	ps.duty, ps.servo, ps.hw = 0, 0, false
	return ps.stop(h.cfg.stopTimeout)
}

func (p *PWM) SetDutyCycle(pin int, duty uint) error {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	ps, err := p.h.pwmState(pin)
	if err != nil {
		return err
	}
	if duty > ps.rng {
		return pigpio.BadDutyCycle
	}
	ps.duty, ps.servo, ps.hw = duty, 0, false
	return p.h.restart(pin, ps)
}

func (p *PWM) DutyCycle(pin int) (uint, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	ps, err := p.h.pwmState(pin)
	if err != nil {
		return 0, err
	}
	switch {
	case !ps.active() || ps.servo != 0:
		return 0, pigpio.NotPWMGPIO
	case ps.hw:
		return ps.hwDuty, nil
	}
	return ps.duty, nil
}

// SetRange sets the range, clamping the duty cycle to it.
func (p *PWM) SetRange(pin int, rng uint) (uint, error) {
	if rng < pigpio.MinPWMRange || rng > pigpio.MaxPWMRange {
		return 0, pigpio.BadDutyRange
	}
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	ps, err := p.h.pwmState(pin)
	if err != nil {
		return 0, err
	}
	ps.rng = rng
	ps.duty = min(ps.duty, rng)
	if ps.active() && !ps.hw && ps.servo == 0 {
		if err := p.h.restart(pin, ps); err != nil {
			return 0, err
		}
	}
	return pigpio.PWMRealRange(ps.freq), nil
}

func (p *PWM) Range(pin int) (uint, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	ps, err := p.h.pwmState(pin)
	if err != nil {
		return 0, err
	}
	if ps.hw {
		return pigpio.MaxHardwarePWMDuty, nil
	}
	return ps.rng, nil
}

func (p *PWM) RealRange(pin int) (uint, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	ps, err := p.h.pwmState(pin)
	if err != nil {
		return 0, err
	}
	if ps.hw {
		return hardwarePWMClock / ps.hwFreq, nil
	}
	return pigpio.PWMRealRange(ps.freq), nil
}

// SetFrequency snaps the frequency to the closest available.
func (p *PWM) SetFrequency(pin int, hz uint) (uint, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	ps, err := p.h.pwmState(pin)
	if err != nil {
		return 0, err
	}
	ps.freq = pigpio.ClosestPWMFrequency(hz)
	if ps.active() && !ps.hw && ps.servo == 0 {
		if err := p.h.restart(pin, ps); err != nil {
			return 0, err
		}
	}
	return ps.freq, nil
}

func (p *PWM) Frequency(pin int) (uint, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	ps, err := p.h.pwmState(pin)
	if err != nil {
		return 0, err
	}
	if ps.hw {
		return ps.hwFreq, nil
	}
	return ps.freq, nil
}

func (p *PWM) SetServoPulseWidth(pin int, width uint) error {
	if width != 0 && (width < pigpio.MinServoPulseWidth || width > pigpio.MaxServoPulseWidth) {
		return pigpio.BadPulseWidth
	}
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	ps, err := p.h.pwmState(pin)
	if err != nil {
		return err
	}
	ps.duty, ps.servo, ps.hw = 0, width, false
	if width == 0 {
		if err := ps.stop(p.h.cfg.stopTimeout); err != nil {
			return err
		}
		if ln, ok := p.h.lines[pin]; ok && ln.output {
			ln.l.SetValue(0)
		}
		return nil
	}
	return p.h.restart(pin, ps)
}

func (p *PWM) ServoPulseWidth(pin int) (uint, error) {
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	ps, err := p.h.pwmState(pin)
	if err != nil {
		return 0, err
	}
	if ps.servo == 0 {
		return 0, pigpio.NotServoGPIO
	}
	return ps.servo, nil
}

// SetHardwarePWM emulates hardware PWM on the GPIOs that support it.  A zero
// frequency stops the pulses.
func (p *PWM) SetHardwarePWM(pin int, hz uint, duty uint) error {
	if !pigpio.IsHardwarePWMPin(pin) {
		return pigpio.NotHPWMGPIO
	}
	if hz > maxHardwarePWMHz {
		return pigpio.BadHPWMFreq
	}
	if duty > pigpio.MaxHardwarePWMDuty {
		return pigpio.BadHPWMDuty
	}
	p.h.mu.Lock()
	defer p.h.mu.Unlock()
	ps, err := p.h.pwmState(pin)
	if err != nil {
		return err
	}
	if hz == 0 {
		ps.hw = false
		return ps.stop(p.h.cfg.stopTimeout)
	}
	ps.hw, ps.hwFreq, ps.hwDuty, ps.servo = true, hz, duty, 0
	return p.h.restart(pin, ps)
}

func (p *PWM) SetHardwareClock(pin int, hz uint) error {
	return notSupported("PWM.SetHardwareClock")
}
