// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warthog618/go-pigpio/pipe"
)

func TestCommand(t *testing.T) {
	patterns := []struct {
		name string
		cmd  pipe.Command
		line string
	}{
		{"bare", pipe.NewCommand("hwver"), "hwver"},
		{"int", pipe.NewCommand("r").Int(17), "r 17"},
		{"negative", pipe.NewCommand("i2cc").Int(-1), "i2cc -1"},
		{"uint", pipe.NewCommand("mics").Uint(1000000), "mics 1000000"},
		{"token", pipe.NewCommand("m").Int(17).Token("W"), "m 17 W"},
		{"hex", pipe.NewCommand("i2co").Int(1).Hex(0x68).Uint(0), "i2co 1 0x68 0"},
		{"hex pad", pipe.NewCommand("i2co").Int(0).Hex(5).Uint(0), "i2co 0 0x05 0"},
		{"bytes", pipe.NewCommand("serw").Int(2).Bytes([]byte{0, 10, 255}), "serw 2 0 10 255"},
		{"no bytes", pipe.NewCommand("serw").Int(2).Bytes(nil), "serw 2"},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			assert.Equal(t, p.line, p.cmd.String())
		}
		t.Run(p.name, tf)
	}
}

func TestCommandName(t *testing.T) {
	c := pipe.NewCommand("wvag").Uint(1).Uint(0).Uint(100)
	assert.Equal(t, "wvag", c.Name())
}
