// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"log/slog"
	"time"
)

// Option defines the interface required to provide an option to Open.
type Option interface {
	applyOption(*config)
}

type config struct {
	chip        string
	consumer    string
	i2cPrefix   string
	cpuinfo     string
	stopTimeout time.Duration
	alertQueue  int
	logger      *slog.Logger
}

func defaultConfig() config {
	return config{
		chip:        "gpiochip0",
		consumer:    "pigpio",
		i2cPrefix:   "/dev/i2c-",
		cpuinfo:     "/proc/cpuinfo",
		stopTimeout: time.Second,
		alertQueue:  256,
		logger:      slog.New(slog.DiscardHandler),
	}
}

// ChipOption selects the GPIO chip.
type ChipOption string

// WithChip returns an option that selects the GPIO chip, by name or path.
//
// The default is "gpiochip0".
func WithChip(name string) ChipOption {
	return ChipOption(name)
}

func (o ChipOption) applyOption(c *config) {
	c.chip = string(o)
}

// ConsumerOption sets the consumer label applied to requested lines.
type ConsumerOption string

// WithConsumer returns an option that sets the consumer label the kernel
// reports for lines held by the backend.
func WithConsumer(consumer string) ConsumerOption {
	return ConsumerOption(consumer)
}

func (o ConsumerOption) applyOption(c *config) {
	c.consumer = string(o)
}

// I2CPrefixOption sets the path prefix of I2C bus devices.
type I2CPrefixOption string

// WithI2CPrefix returns an option that sets the path prefix of I2C bus
// devices, to which the bus number is appended.
//
// The default is "/dev/i2c-".
func WithI2CPrefix(prefix string) I2CPrefixOption {
	return I2CPrefixOption(prefix)
}

func (o I2CPrefixOption) applyOption(c *config) {
	c.i2cPrefix = string(o)
}

// CPUInfoOption sets the file the hardware revision is read from.
type CPUInfoOption string

// WithCPUInfo returns an option that reads the hardware revision from the
// given file rather than /proc/cpuinfo.
func WithCPUInfo(path string) CPUInfoOption {
	return CPUInfoOption(path)
}

func (o CPUInfoOption) applyOption(c *config) {
	c.cpuinfo = string(o)
}

// StopTimeoutOption limits how long a background worker is waited for.
type StopTimeoutOption time.Duration

// WithStopTimeout returns an option that limits how long stopping a thread,
// PWM or wave worker waits for it to exit before reporting ErrWorkerStuck.
//
// The default is one second.
func WithStopTimeout(d time.Duration) StopTimeoutOption {
	return StopTimeoutOption(d)
}

func (o StopTimeoutOption) applyOption(c *config) {
	c.stopTimeout = time.Duration(o)
}

// LoggerOption provides the logger for the backend.
type LoggerOption struct {
	*slog.Logger
}

// WithLogger returns an option that logs backend activity to the logger.
func WithLogger(l *slog.Logger) LoggerOption {
	return LoggerOption{l}
}

func (o LoggerOption) applyOption(c *config) {
	if o.Logger != nil {
		c.logger = o.Logger
	}
}
