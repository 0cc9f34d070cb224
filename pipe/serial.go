// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pipe

import (
	"strings"

	"github.com/warthog618/go-pigpio"
)

// Serial provides access to serial devices, and to bit-banged serial
// reception, through the daemon.
type Serial struct {
	adapter
}

// Open sends "sero device baud 0".
//
// The device name is sent as a single token, so must not contain whitespace.
func (s *Serial) Open(device string, baud uint) (pigpio.Handle, error) {
	if device == "" || strings.ContainsAny(device, " \t\r\n") {
		return -1, pigpio.BadSerialDevice
	}
	return s.handle(NewCommand("sero").Token(device).Uint(baud).Uint(0))
}

// Close sends "serc h".
func (s *Serial) Close(h pigpio.Handle) error {
	return s.result(NewCommand("serc").Int(int(h)))
}

// Read sends "serr h count" and returns the bytes received.
func (s *Serial) Read(h pigpio.Handle, count int) ([]byte, error) {
	return s.blob(NewCommand("serr").Int(int(h)).Int(count))
}

// Write sends "serw h" with the data as an extension.
func (s *Serial) Write(h pigpio.Handle, data []byte) error {
	return s.result(NewCommand("serw").Int(int(h)).Bytes(data))
}

// DataAvailable sends "serda h".
func (s *Serial) DataAvailable(h pigpio.Handle) (int, error) {
	v, err := s.value(NewCommand("serda").Int(int(h)))
	return int(v), err
}

// BitBangOpen sends "slro pin baud bits".
func (s *Serial) BitBangOpen(pin int, baud uint, bits uint) error {
	return s.result(NewCommand("slro").Int(pin).Uint(baud).Uint(bits))
}

// BitBangRead sends "slr pin count" and returns the bytes received.
func (s *Serial) BitBangRead(pin int, count int) ([]byte, error) {
	return s.blob(NewCommand("slr").Int(pin).Int(count))
}

// BitBangClose sends "slrc pin".
func (s *Serial) BitBangClose(pin int) error {
	return s.result(NewCommand("slrc").Int(pin))
}
