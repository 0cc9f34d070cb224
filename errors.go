// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pigpio

import (
	"github.com/pkg/errors"
)

var (
	// ErrProtocolDesync indicates a response could not be decoded as the
	// command expected.  The channel can no longer be trusted and the
	// backend must be reopened.
	ErrProtocolDesync = errors.New("protocol desync")

	// ErrTransportDisconnected indicates the daemon closed its end of the
	// channel.  Fatal to the backend.
	ErrTransportDisconnected = errors.New("transport disconnected")

	// ErrTimeout indicates a command did not complete before its deadline.
	// Fatal to the backend, as a late response would be misattributed.
	ErrTimeout = errors.New("command timed out")

	// ErrConnectionFailed indicates the backend could not be opened.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrNotSupported indicates the backend cannot perform the operation.
	ErrNotSupported = errors.New("not supported")

	// ErrClosed indicates the backend has been closed.
	ErrClosed = errors.New("backend closed")

	// ErrWorkerStuck indicates a background worker did not stop within its
	// allotted time and has been abandoned.
	ErrWorkerStuck = errors.New("worker did not stop")
)

// NotSupportedError identifies an operation that the backend cannot perform.
//
// It matches ErrNotSupported with errors.Is.
type NotSupportedError struct {
	// Op is the name of the unsupported operation, e.g. "IO.SetAlertFunc".
	Op string

	// Backend is the name of the backend that rejected the operation.
	Backend string
}

// NotSupported returns the error reported by a backend for an operation it
// cannot perform.
func NotSupported(backend, op string) error {
	return &NotSupportedError{Op: op, Backend: backend}
}

func (e *NotSupportedError) Error() string {
	return e.Backend + ": " + e.Op + ": " + ErrNotSupported.Error()
}

// Is matches ErrNotSupported.
func (e *NotSupportedError) Is(target error) bool {
	return target == ErrNotSupported
}

// IsFatal returns true if the error leaves the backend unusable, i.e. it must
// be closed and reopened.
func IsFatal(err error) bool {
	return errors.Is(err, ErrProtocolDesync) ||
		errors.Is(err, ErrTransportDisconnected) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrClosed)
}

// AsResultCode extracts the ResultCode from an error returned by a backend.
//
// Returns false if the error is not, or does not wrap, a ResultCode.
func AsResultCode(err error) (ResultCode, bool) {
	var rc ResultCode
	if errors.As(err, &rc) {
		return rc, true
	}
	return OK, false
}
