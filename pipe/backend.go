// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package pipe provides a Board backend that drives the pigpio daemon
// through its /dev/pigpio command pipes.
//
// The subsystem interfaces carry no context, so each call made through a
// Board is bounded only by the transport timeout set with WithTimeout.
// Callers requiring per-call cancellation should use the Transport Send
// methods directly, which honour the deadline and cancellation of the
// provided context.
package pipe

import (
	"context"

	"github.com/warthog618/go-pigpio"
)

// BackendName identifies the pipe backend in errors and logs.
const BackendName = "pipe"

// Open dials the daemon and returns a Board using the pipe backend.
//
// Closing the Board closes the transport.
func Open(p Paths, options ...Option) (*pigpio.Board, error) {
	t, err := Dial(p, options...)
	if err != nil {
		return nil, err
	}
	return NewBoard(t), nil
}

// NewBoard returns a Board whose subsystems all share the transport.
//
// The subsystems issue commands with a background context, so are bounded
// only by the transport timeout.
func NewBoard(t *Transport) *pigpio.Board {
	a := adapter{t}
	return pigpio.NewBoard(BackendName,
		&IO{a}, &PWM{a}, &I2C{a}, &Serial{a}, &Threads{}, &Utilities{a}, &Waves{a},
		t.Close)
}

// adapter maps subsystem operations onto the transport primitives.
type adapter struct {
	t *Transport
}

// result sends a command whose response is a result code, returning
// negative codes as errors.
func (a adapter) result(c Command) error {
	rc, err := a.t.SendResultCode(context.Background(), c)
	if err != nil {
		return err
	}
	return rc.Err()
}

// value sends a command whose response is either a non-negative value or a
// negative result code.
func (a adapter) value(c Command) (uint, error) {
	rc, err := a.t.SendResultCode(context.Background(), c)
	if err != nil {
		return 0, err
	}
	if rc < 0 {
		return 0, rc
	}
	return uint(rc), nil
}

// handle sends an open style command and returns the handle it yields.
func (a adapter) handle(c Command) (pigpio.Handle, error) {
	v, err := a.value(c)
	if err != nil {
		return -1, err
	}
	return pigpio.Handle(v), nil
}

func (a adapter) blob(c Command) ([]byte, error) {
	return a.t.SendBlob(context.Background(), c)
}

func notSupported(op string) error {
	return pigpio.NotSupported(BackendName, op)
}
