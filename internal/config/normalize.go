// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package config

import "strings"

// normalize trims and lowercases the enumerated values and restores defaults
// for values left empty.
func (c *Config) normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendPipe
	}
	c.Pipe.CommandPath = orDefault(c.Pipe.CommandPath, defaultCommandPath)
	c.Pipe.ResultPath = orDefault(c.Pipe.ResultPath, defaultResultPath)
	c.Pipe.ErrorPath = orDefault(c.Pipe.ErrorPath, defaultErrorPath)
	c.Native.Chip = orDefault(c.Native.Chip, defaultChip)
	c.Native.I2CPrefix = orDefault(c.Native.I2CPrefix, defaultI2CPrefix)
	c.Native.Consumer = orDefault(c.Native.Consumer, defaultConsumer)
	c.Native.CPUInfo = orDefault(c.Native.CPUInfo, defaultCPUInfo)
	c.Logging.Level = strings.ToLower(orDefault(c.Logging.Level, defaultLogLevel))
	c.Logging.Format = strings.ToLower(orDefault(c.Logging.Format, defaultLogFormat))
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}
