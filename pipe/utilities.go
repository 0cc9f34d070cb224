// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pipe

import (
	"context"

	"github.com/warthog618/go-pigpio"
)

// Utilities provides daemon information and delays.
type Utilities struct {
	adapter
}

// HardwareRevision sends "hwver".
func (u *Utilities) HardwareRevision() (uint, error) {
	return u.t.SendUint(context.Background(), NewCommand("hwver"))
}

// Version sends "pigpv".
func (u *Utilities) Version() (uint, error) {
	return u.t.SendUint(context.Background(), NewCommand("pigpv"))
}

// Tick sends "t".
//
// The daemon reports the tick as a signed 32-bit value, so it is
// reinterpreted as unsigned.
func (u *Utilities) Tick() (uint32, error) {
	v, err := u.t.SendInt(context.Background(), NewCommand("t"))
	return uint32(int32(v)), err
}

// DelayMicros delays the daemon, and so the caller, for the given period.
func (u *Utilities) DelayMicros(us uint) error {
	return u.result(NewCommand("mics").Uint(us))
}

// DelayMillis sends "mils ms".
func (u *Utilities) DelayMillis(ms uint) error {
	return u.result(NewCommand("mils").Uint(ms))
}

// Threads cannot be expressed in the line protocol, as they run caller code.
type Threads struct{}

// Start returns ErrNotSupported.
func (*Threads) Start(fn pigpio.ThreadFunc) (pigpio.Handle, error) {
	return -1, notSupported("Threads.Start")
}

// Stop returns ErrNotSupported.
func (*Threads) Stop(h pigpio.Handle) error {
	return notSupported("Threads.Stop")
}
