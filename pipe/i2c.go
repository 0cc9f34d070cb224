// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pipe

import (
	"github.com/warthog618/go-pigpio"
)

// I2C provides access to I2C devices through the daemon.
//
// Handles are allocated by the daemon and are only valid for the lifetime of
// the transport.
type I2C struct {
	adapter
}

// Open sends "i2co bus addr flags" and returns the handle allocated by the
// daemon.
func (i *I2C) Open(bus int, addr uint8, flags uint) (pigpio.Handle, error) {
	return i.handle(NewCommand("i2co").Int(bus).Hex(uint(addr)).Uint(flags))
}

// Close sends "i2cc h".
func (i *I2C) Close(h pigpio.Handle) error {
	return i.result(NewCommand("i2cc").Int(int(h)))
}

// WriteQuick sends "i2cwq h bit".
func (i *I2C) WriteQuick(h pigpio.Handle, bit uint8) error {
	return i.result(NewCommand("i2cwq").Int(int(h)).Uint(uint(bit)))
}

// ReceiveByte sends "i2crs h".
func (i *I2C) ReceiveByte(h pigpio.Handle) (uint8, error) {
	v, err := i.value(NewCommand("i2crs").Int(int(h)))
	return uint8(v), err
}

// SendByte sends "i2cws h value".
func (i *I2C) SendByte(h pigpio.Handle, value uint8) error {
	return i.result(NewCommand("i2cws").Int(int(h)).Uint(uint(value)))
}

// ReadByteData sends "i2crb h reg".
func (i *I2C) ReadByteData(h pigpio.Handle, reg uint8) (uint8, error) {
	v, err := i.value(NewCommand("i2crb").Int(int(h)).Uint(uint(reg)))
	return uint8(v), err
}

// WriteByteData sends "i2cwb h reg value".
func (i *I2C) WriteByteData(h pigpio.Handle, reg uint8, value uint8) error {
	return i.result(NewCommand("i2cwb").Int(int(h)).Uint(uint(reg)).Uint(uint(value)))
}

// ReadWordData sends "i2crw h reg".
func (i *I2C) ReadWordData(h pigpio.Handle, reg uint8) (uint16, error) {
	v, err := i.value(NewCommand("i2crw").Int(int(h)).Uint(uint(reg)))
	return uint16(v), err
}

// WriteWordData sends "i2cww h reg value".
func (i *I2C) WriteWordData(h pigpio.Handle, reg uint8, value uint16) error {
	return i.result(NewCommand("i2cww").Int(int(h)).Uint(uint(reg)).Uint(uint(value)))
}

// ReadDevice sends "i2crd h count" and returns the bytes read.
func (i *I2C) ReadDevice(h pigpio.Handle, count int) ([]byte, error) {
	return i.blob(NewCommand("i2crd").Int(int(h)).Int(count))
}

// WriteDevice sends "i2cwd h" with the data as an extension.
func (i *I2C) WriteDevice(h pigpio.Handle, data []byte) error {
	return i.result(NewCommand("i2cwd").Int(int(h)).Bytes(data))
}

// ReadBlockData sends "i2cri h reg count" and returns the bytes read.
func (i *I2C) ReadBlockData(h pigpio.Handle, reg uint8, count int) ([]byte, error) {
	return i.blob(NewCommand("i2cri").Int(int(h)).Uint(uint(reg)).Int(count))
}

// WriteBlockData sends "i2cwi h reg" with the data as an extension.
func (i *I2C) WriteBlockData(h pigpio.Handle, reg uint8, data []byte) error {
	return i.result(NewCommand("i2cwi").Int(int(h)).Uint(uint(reg)).Bytes(data))
}
