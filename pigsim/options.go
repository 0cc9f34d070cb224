// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pigsim

import "log/slog"

// NewSimOption defines the interface required to provide an option to NewSim.
type NewSimOption interface {
	applySimOption(*builder)
}

// WithBank returns an option that adds the given bank to the Sim.
func WithBank(b *Bank) Bank {
	return *b
}

func (o Bank) applySimOption(b *builder) {
	b.banks = append(b.banks, Bank(o))
}

// NewBankOption defines the interface required to provide an option to NewBank.
type NewBankOption interface {
	applyBankOption(*Bank)
}

// HoggedLine is an option that hogs a line.
type HoggedLine struct {
	offset int
	Hog
}

// WithHoggedLine returns an option to hog a simulated line.
//
// Hogging the line makes it appear in use by another consumer.
func WithHoggedLine(offset int, consumer string, direction HogDirection) HoggedLine {
	return HoggedLine{offset, Hog{consumer, direction}}
}

func (o HoggedLine) applyBankOption(b *Bank) {
	if b.Hogs == nil {
		b.Hogs = make(map[int]Hog)
	}
	b.Hogs[o.offset] = o.Hog
}

// NameOption defines the name for a Sim.
type NameOption string

// WithName returns an option that defines the name of a Sim.
//
// The name is used as the name of the directory containing the pipes.
func WithName(name string) NameOption {
	return NameOption(name)
}

func (o NameOption) applySimOption(b *builder) {
	b.name = string(o)
}

// DirOption defines the parent directory of the Sim pipes.
type DirOption string

// WithDir returns an option that places the Sim in the given directory
// rather than the system temporary directory.
func WithDir(dir string) DirOption {
	return DirOption(dir)
}

func (o DirOption) applySimOption(b *builder) {
	b.dir = string(o)
}

// NamedLine is an option that names a line.
type NamedLine struct {
	Offset int
	Name   string
}

// WithNamedLine returns an option that defines the name of a simulated line.
func WithNamedLine(offset int, name string) NamedLine {
	return NamedLine{offset, name}
}

func (o NamedLine) applyBankOption(b *Bank) {
	if b.Names == nil {
		b.Names = make(map[int]string)
	}
	b.Names[o.Offset] = o.Name
}

// I2CDevice is an option that attaches a simulated device to an I2C bus.
type I2CDevice struct {
	Bus  int
	Addr uint8

	// Initial register contents.
	Registers map[uint8]byte
}

// WithI2CDevice returns an option that attaches a device to the bus at the
// given address.
//
// Commands to addresses without a device fail as the hardware would, with
// read or write failures rather than at open.
func WithI2CDevice(bus int, addr uint8, registers map[uint8]byte) I2CDevice {
	return I2CDevice{bus, addr, registers}
}

func (o I2CDevice) applySimOption(b *builder) {
	b.i2c = append(b.i2c, o)
}

// SerialDevice is an option that provides a simulated serial device.
type SerialDevice struct {
	Name string

	// Data waiting to be read from the device.
	RX []byte
}

// WithSerialDevice returns an option that provides a serial device that can be
// opened by name.
func WithSerialDevice(name string, rx []byte) SerialDevice {
	return SerialDevice{name, rx}
}

func (o SerialDevice) applySimOption(b *builder) {
	b.serial = append(b.serial, o)
}

// RevisionOption sets the hardware revision reported by the Sim.
type RevisionOption uint

// WithRevision returns an option that sets the hardware revision reported by
// the Sim.
func WithRevision(rev uint) RevisionOption {
	return RevisionOption(rev)
}

func (o RevisionOption) applySimOption(b *builder) {
	b.revision = uint(o)
}

// LoggerOption provides a logger for the Sim.
type LoggerOption struct {
	*slog.Logger
}

// WithLogger returns an option that logs each command served by the Sim.
func WithLogger(l *slog.Logger) LoggerOption {
	return LoggerOption{l}
}

func (o LoggerOption) applySimOption(b *builder) {
	b.logger = o.Logger
}
