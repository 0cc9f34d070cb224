// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pipe

// PWM provides PWM and servo control over the pipes.
type PWM struct {
	adapter
}

// SetDutyCycle sends "p pin duty".
func (p *PWM) SetDutyCycle(pin int, duty uint) error {
	return p.result(NewCommand("p").Int(pin).Uint(duty))
}

// DutyCycle sends "gdc pin".
func (p *PWM) DutyCycle(pin int) (uint, error) {
	return p.value(NewCommand("gdc").Int(pin))
}

// SetRange sends "prs pin range" and returns the real range.
func (p *PWM) SetRange(pin int, rng uint) (uint, error) {
	return p.value(NewCommand("prs").Int(pin).Uint(rng))
}

// Range sends "prg pin".
func (p *PWM) Range(pin int) (uint, error) {
	return p.value(NewCommand("prg").Int(pin))
}

// RealRange sends "prrg pin".
func (p *PWM) RealRange(pin int) (uint, error) {
	return p.value(NewCommand("prrg").Int(pin))
}

// SetFrequency sends "pfs pin hz" and returns the frequency selected.
func (p *PWM) SetFrequency(pin int, hz uint) (uint, error) {
	return p.value(NewCommand("pfs").Int(pin).Uint(hz))
}

// Frequency sends "pfg pin".
func (p *PWM) Frequency(pin int) (uint, error) {
	return p.value(NewCommand("pfg").Int(pin))
}

// SetServoPulseWidth sends "s pin width".
func (p *PWM) SetServoPulseWidth(pin int, width uint) error {
	return p.result(NewCommand("s").Int(pin).Uint(width))
}

// ServoPulseWidth sends "gpw pin".
func (p *PWM) ServoPulseWidth(pin int) (uint, error) {
	return p.value(NewCommand("gpw").Int(pin))
}

// SetHardwarePWM sends "hp pin hz duty".
func (p *PWM) SetHardwarePWM(pin int, hz uint, duty uint) error {
	return p.result(NewCommand("hp").Int(pin).Uint(hz).Uint(duty))
}

// SetHardwareClock sends "hc pin hz".
func (p *PWM) SetHardwareClock(pin int, hz uint) error {
	return p.result(NewCommand("hc").Int(pin).Uint(hz))
}
