// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warthog618/go-pigpio/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pigpio.toml")
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(config.BackendEnv, "")
	os.Unsetenv(config.BackendEnv)

	cfg, err := config.Load("")
	require.Nil(t, err)
	def := config.Default()
	assert.Equal(t, &def, cfg)
	assert.Equal(t, config.BackendPipe, cfg.Backend)
	assert.Equal(t, "/dev/pigpio", cfg.Pipe.CommandPath)
	assert.Equal(t, 5*time.Second, cfg.Pipe.Timeout())
	assert.Equal(t, time.Second, cfg.Native.StopTimeout())
}

func TestLoad(t *testing.T) {
	t.Setenv(config.BackendEnv, "")
	os.Unsetenv(config.BackendEnv)

	path := writeConfig(t, `
backend = " Native "

[pipe]
command_path = "/tmp/cmd"
timeout_ms = 0

[native]
chip = "gpiochip4"
i2c_prefix = ""

[logging]
level = "DEBUG"
format = "json"
`)
	cfg, err := config.Load(path)
	require.Nil(t, err)
	assert.Equal(t, config.BackendNative, cfg.Backend)
	assert.Equal(t, "/tmp/cmd", cfg.Pipe.CommandPath)
	assert.Equal(t, "/dev/pigout", cfg.Pipe.ResultPath)
	assert.Equal(t, time.Duration(0), cfg.Pipe.Timeout())
	assert.Equal(t, "gpiochip4", cfg.Native.Chip)
	assert.Equal(t, "/dev/i2c-", cfg.Native.I2CPrefix)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadBackendOverride(t *testing.T) {
	path := writeConfig(t, `backend = "pipe"`)
	t.Setenv(config.BackendEnv, "native")

	cfg, err := config.Load(path)
	require.Nil(t, err)
	assert.Equal(t, config.BackendNative, cfg.Backend)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(config.BackendEnv, "")
	os.Unsetenv(config.BackendEnv)

	patterns := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad backend", `backend = "spi"`, "backend"},
		{"negative timeout", "[pipe]\ntimeout_ms = -1", "pipe.timeout_ms"},
		{"zero stop timeout", "[native]\nstop_timeout_ms = 0", "native.stop_timeout_ms"},
		{"bad level", "[logging]\nlevel = \"loud\"", "logging.level"},
		{"bad format", "[logging]\nformat = \"xml\"", "logging.format"},
		{"unknown key", "[pipe]\nspeed = 3", "parse config"},
		{"malformed", "backend = ", "parse config"},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, p.content))
			require.NotNil(t, err)
			assert.Contains(t, err.Error(), p.errMsg)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NotNil(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
