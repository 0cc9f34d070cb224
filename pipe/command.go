// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pipe

import (
	"strconv"
)

// Command is a single line of the pipe protocol.
//
// It is a mnemonic followed by space separated arguments.
// Commands are built by chaining, and a partially built Command should not be
// extended more than once as the extensions may share storage.
//
//	NewCommand("i2co").Int(1).Hex(0x68).Uint(0) // "i2co 1 0x68 0"
type Command struct {
	name string
	buf  []byte
}

// NewCommand starts a command with the given mnemonic.
func NewCommand(name string) Command {
	b := make([]byte, 0, 32)
	return Command{name: name, buf: append(b, name...)}
}

// Name returns the mnemonic of the command.
func (c Command) Name() string {
	return c.name
}

// Int appends a signed decimal argument.
func (c Command) Int(v int) Command {
	c.buf = strconv.AppendInt(append(c.buf, ' '), int64(v), 10)
	return c
}

// Uint appends an unsigned decimal argument.
func (c Command) Uint(v uint) Command {
	c.buf = strconv.AppendUint(append(c.buf, ' '), uint64(v), 10)
	return c
}

// Hex appends a 0x prefixed hexadecimal argument.
func (c Command) Hex(v uint) Command {
	c.buf = append(c.buf, ' ', '0', 'x')
	if v < 0x10 {
		c.buf = append(c.buf, '0')
	}
	c.buf = strconv.AppendUint(c.buf, uint64(v), 16)
	return c
}

// Token appends an enumeration token, such as a mode or pull.
func (c Command) Token(t string) Command {
	c.buf = append(append(c.buf, ' '), t...)
	return c
}

// Bytes appends each byte as a separate decimal argument.
func (c Command) Bytes(data []byte) Command {
	for _, b := range data {
		c.buf = strconv.AppendUint(append(c.buf, ' '), uint64(b), 10)
	}
	return c
}

// String returns the command line without its terminator.
func (c Command) String() string {
	return string(c.buf)
}

// line returns the command as written to the pipe.
func (c Command) line() []byte {
	l := make([]byte, len(c.buf), len(c.buf)+1)
	copy(l, c.buf)
	return append(l, '\n')
}
