// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pigpio

import "time"

// IO provides basic GPIO control.
//
// Pins are identified by their Broadcom GPIO number.
type IO interface {
	// SetMode sets the function of the GPIO.
	SetMode(pin int, mode Mode) error

	// Mode returns the current function of the GPIO.
	Mode(pin int) (Mode, error)

	// SetPull sets the bias of the GPIO.
	SetPull(pin int, pull Pull) error

	// Read returns the level of the GPIO.
	Read(pin int) (Level, error)

	// Write sets the level of the GPIO, switching it to an output if
	// necessary.
	Write(pin int, level Level) error

	// Trigger sends a pulse of the given level and length, in microseconds,
	// to the GPIO.
	Trigger(pin int, pulseLen uint, level Level) error

	// SetWatchdog arranges for the alert function of the GPIO to be called
	// with LevelTimeout if the GPIO does not change level within the
	// timeout.  A zero timeout cancels the watchdog.
	SetWatchdog(pin int, timeout time.Duration) error

	// SetGlitchFilter ignores level changes that are not stable for at
	// least the steady period.
	SetGlitchFilter(pin int, steady time.Duration) error

	// SetNoiseFilter ignores level changes until the level has been stable
	// for the steady period, then reports changes for the active period.
	SetNoiseFilter(pin int, steady, active time.Duration) error

	// ReadBank returns the levels of GPIOs 0-31 as a bit mask.
	ReadBank() (uint32, error)

	// SetBank drives the GPIOs in the mask high.
	SetBank(mask uint32) error

	// ClearBank drives the GPIOs in the mask low.
	ClearBank(mask uint32) error

	// SetAlertFunc registers a function to be called when the GPIO changes
	// level.  A nil function cancels the registration.
	SetAlertFunc(pin int, fn AlertFunc) error
}

// PWM provides software and hardware PWM, and servo pulses.
type PWM interface {
	SetDutyCycle(pin int, duty uint) error
	DutyCycle(pin int) (uint, error)

	// SetRange sets the duty cycle range and returns the real range, i.e.
	// the number of steps available at the current frequency.
	SetRange(pin int, rng uint) (uint, error)
	Range(pin int) (uint, error)
	RealRange(pin int) (uint, error)

	// SetFrequency sets the PWM frequency and returns the frequency
	// actually applied.
	SetFrequency(pin int, hz uint) (uint, error)
	Frequency(pin int) (uint, error)

	// SetServoPulseWidth starts servo pulses of the given width, in
	// microseconds.  Zero stops the pulses.
	SetServoPulseWidth(pin int, width uint) error
	ServoPulseWidth(pin int) (uint, error)

	// SetHardwarePWM sets the PWM frequency and duty, in millionths, of a
	// GPIO supporting hardware PWM.
	SetHardwarePWM(pin int, hz uint, duty uint) error

	// SetHardwareClock starts a hardware clock on a GPIO supporting it.
	SetHardwareClock(pin int, hz uint) error
}

// I2C provides access to devices on I2C buses.
type I2C interface {
	Open(bus int, addr uint8, flags uint) (Handle, error)
	Close(h Handle) error
	WriteQuick(h Handle, bit uint8) error
	// ReceiveByte and SendByte are the SMBus receive byte and send byte
	// transfers, which address no register.
	ReceiveByte(h Handle) (uint8, error)
	SendByte(h Handle, value uint8) error
	ReadByteData(h Handle, reg uint8) (uint8, error)
	WriteByteData(h Handle, reg uint8, value uint8) error
	ReadWordData(h Handle, reg uint8) (uint16, error)
	WriteWordData(h Handle, reg uint8, value uint16) error
	ReadDevice(h Handle, count int) ([]byte, error)
	WriteDevice(h Handle, data []byte) error
	ReadBlockData(h Handle, reg uint8, count int) ([]byte, error)
	WriteBlockData(h Handle, reg uint8, data []byte) error
}

// Serial provides access to serial devices and bit-banged serial reception.
type Serial interface {
	Open(device string, baud uint) (Handle, error)
	Close(h Handle) error
	Read(h Handle, count int) ([]byte, error)
	Write(h Handle, data []byte) error
	DataAvailable(h Handle) (int, error)

	// BitBangOpen starts receiving serial data on a GPIO.
	BitBangOpen(pin int, baud uint, bits uint) error

	// BitBangRead returns up to count bytes received on the GPIO.
	BitBangRead(pin int, count int) ([]byte, error)
	BitBangClose(pin int) error
}

// Threads runs functions in the background on behalf of the caller.
type Threads interface {
	Start(fn ThreadFunc) (Handle, error)

	// Stop signals the thread to stop and waits for it to do so.
	Stop(h Handle) error
}

// Utilities provides miscellaneous system operations.
type Utilities interface {
	HardwareRevision() (uint, error)
	Version() (uint, error)

	// Tick returns the current system tick, in microseconds.  Wraps every
	// 2^32 microseconds.
	Tick() (uint32, error)
	DelayMicros(us uint) error
	DelayMillis(ms uint) error
}

// Waves builds and transmits waveforms.
type Waves interface {
	Clear() error
	New() error

	// AddGeneric adds pulses to the waveform under construction and
	// returns the total number of pulses.
	AddGeneric(pulses []Pulse) (uint, error)
	Create() (Handle, error)
	Delete(id Handle) error
	SendOnce(id Handle) (uint, error)
	SendRepeat(id Handle) (uint, error)
	Chain(ids []Handle) error
	Busy() (bool, error)
	Stop() error
}

// Board collects the subsystem interfaces provided by a backend.
//
// The subsystem methods take no context. Backends that block on I/O bound
// each call with their own timeout, such as the pipe WithTimeout option.
type Board struct {
	IO        IO
	PWM       PWM
	I2C       I2C
	Serial    Serial
	Threads   Threads
	Utilities Utilities
	Waves     Waves

	// Backend names the backend providing the interfaces.
	Backend string

	closer func() error
}

// NewBoard collects the interfaces into a Board, with close releasing the
// backend.
func NewBoard(backend string, io IO, pwm PWM, i2c I2C, ser Serial, th Threads,
	util Utilities, waves Waves, close func() error) *Board {
	return &Board{
		IO:        io,
		PWM:       pwm,
		I2C:       i2c,
		Serial:    ser,
		Threads:   th,
		Utilities: util,
		Waves:     waves,
		Backend:   backend,
		closer:    close,
	}
}

// Close releases the backend.
func (b *Board) Close() error {
	if b.closer == nil {
		return nil
	}
	c := b.closer
	b.closer = nil
	return c()
}
