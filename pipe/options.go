// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pipe

import (
	"log/slog"
	"time"
)

// Option defines the interface required to provide an option to Dial and
// NewTransport.
type Option interface {
	applyOption(*Transport)
}

// TimeoutOption limits the time each command may take.
type TimeoutOption time.Duration

// WithTimeout returns an option that limits the time a command may take to
// complete, including both writing the command and reading the response.
//
// A zero timeout, the default, allows commands to block indefinitely, unless
// limited by their context.
func WithTimeout(d time.Duration) TimeoutOption {
	return TimeoutOption(d)
}

func (o TimeoutOption) applyOption(t *Transport) {
	t.timeout = time.Duration(o)
}

// LoggerOption provides the logger for the transport.
type LoggerOption struct {
	*slog.Logger
}

// WithLogger returns an option that logs commands to the logger.
//
// Each command is logged at debug level and fatal transport errors at error
// level.
func WithLogger(l *slog.Logger) LoggerOption {
	return LoggerOption{l}
}

func (o LoggerOption) applyOption(t *Transport) {
	if o.Logger != nil {
		t.logger = o.Logger
	}
}
