// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package config loads the TOML configuration that selects and configures
// the backend.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// BackendEnv is the environment variable that overrides the configured
// backend.
const BackendEnv = "PIGPIO_BACKEND"

// Backend names.
const (
	BackendPipe   = "pipe"
	BackendNative = "native"
)

// Pipe configures the pipe backend.
type Pipe struct {
	CommandPath string `toml:"command_path"`
	ResultPath  string `toml:"result_path"`
	ErrorPath   string `toml:"error_path"`

	// TimeoutMS is the default time allowed for each command.
	// Zero disables the timeout.
	TimeoutMS int `toml:"timeout_ms"`
}

// Native configures the native backend.
type Native struct {
	Chip      string `toml:"chip"`
	I2CPrefix string `toml:"i2c_prefix"`
	Consumer  string `toml:"consumer"`
	CPUInfo   string `toml:"cpuinfo"`

	// StopTimeoutMS bounds how long background workers are waited for.
	StopTimeoutMS int `toml:"stop_timeout_ms"`
}

// Logging configures log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the complete configuration.
type Config struct {
	Backend string  `toml:"backend"`
	Pipe    Pipe    `toml:"pipe"`
	Native  Native  `toml:"native"`
	Logging Logging `toml:"logging"`
}

// Load reads the configuration file, applied over the defaults.
//
// An empty path loads the defaults alone.  The backend may be overridden by
// the PIGPIO_BACKEND environment variable.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open config")
		}
		defer f.Close()
		d := toml.NewDecoder(f)
		d.DisallowUnknownFields()
		if err := d.Decode(&cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}
	if b, ok := os.LookupEnv(BackendEnv); ok {
		cfg.Backend = b
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
