// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package config

const (
	defaultCommandPath   = "/dev/pigpio"
	defaultResultPath    = "/dev/pigout"
	defaultErrorPath     = "/dev/pigerr"
	defaultTimeoutMS     = 5000
	defaultChip          = "gpiochip0"
	defaultI2CPrefix     = "/dev/i2c-"
	defaultConsumer      = "pigpio"
	defaultCPUInfo       = "/proc/cpuinfo"
	defaultStopTimeoutMS = 1000
	defaultLogLevel      = "info"
	defaultLogFormat     = "auto"
)

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Backend: BackendPipe,
		Pipe: Pipe{
			CommandPath: defaultCommandPath,
			ResultPath:  defaultResultPath,
			ErrorPath:   defaultErrorPath,
			TimeoutMS:   defaultTimeoutMS,
		},
		Native: Native{
			Chip:          defaultChip,
			I2CPrefix:     defaultI2CPrefix,
			Consumer:      defaultConsumer,
			CPUInfo:       defaultCPUInfo,
			StopTimeoutMS: defaultStopTimeoutMS,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
