// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package config

import (
	"time"

	"github.com/pkg/errors"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendPipe, BackendNative:
	default:
		return errors.Errorf("backend: unsupported value %q", c.Backend)
	}
	if c.Pipe.TimeoutMS < 0 {
		return errors.Errorf("pipe.timeout_ms: must not be negative, got %d", c.Pipe.TimeoutMS)
	}
	if c.Native.StopTimeoutMS <= 0 {
		return errors.Errorf("native.stop_timeout_ms: must be positive, got %d", c.Native.StopTimeoutMS)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return errors.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// Timeout returns the per-command timeout of the pipe backend.
func (p Pipe) Timeout() time.Duration {
	return time.Duration(p.TimeoutMS) * time.Millisecond
}

// StopTimeout returns the time allowed for background workers to stop.
func (n Native) StopTimeout() time.Duration {
	return time.Duration(n.StopTimeoutMS) * time.Millisecond
}
