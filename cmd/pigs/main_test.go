// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warthog618/go-pigpio"
	"github.com/warthog618/go-pigpio/internal/config"
	"github.com/warthog618/go-pigpio/pigsim"
)

// setupSim starts a simulated daemon and returns a config file addressing
// it.
func setupSim(t *testing.T, options ...pigsim.NewSimOption) (*pigsim.Simpleton, string) {
	t.Helper()
	t.Setenv(config.BackendEnv, "pipe")
	options = append(options, pigsim.WithDir(t.TempDir()))
	s, err := pigsim.NewSimpleton(54, options...)
	require.Nil(t, err)
	t.Cleanup(s.Close)
	p := s.Paths()
	content := fmt.Sprintf(`
[pipe]
command_path = %q
result_path = %q
error_path = %q
timeout_ms = 2000

[logging]
format = "json"
level = "error"
`, p.Command, p.Result, p.Error)
	path := filepath.Join(t.TempDir(), "pigs.toml")
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return s, path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func checkCLI(t *testing.T, configPath string, expected string, args ...string) {
	t.Helper()
	out, err := runCLI(t, configPath, args...)
	require.Nil(t, err, args)
	assert.Equal(t, expected, out, args)
}

func TestCLIGPIO(t *testing.T) {
	s, cfg := setupSim(t)

	checkCLI(t, cfg, "", "mode", "17", "W")
	checkCLI(t, cfg, "W", "mode", "17")
	checkCLI(t, cfg, "", "write", "17", "1")
	checkCLI(t, cfg, "1", "read", "17")
	lvl, err := s.Level(17)
	assert.Nil(t, err)
	assert.Equal(t, 1, lvl)

	checkCLI(t, cfg, "", "mode", "4", "input")
	checkCLI(t, cfg, "R", "mode", "4")
	checkCLI(t, cfg, "", "pull", "4", "up")
	checkCLI(t, cfg, "1", "read", "4")
	checkCLI(t, cfg, "", "pull", "4", "D")
	checkCLI(t, cfg, "0", "read", "4")

	_, err = runCLI(t, cfg, "read", "60")
	assert.ErrorIs(t, err, pigpio.BadGPIO)
	_, err = runCLI(t, cfg, "mode", "4", "sideways")
	assert.NotNil(t, err)
	_, err = runCLI(t, cfg, "write", "17", "2")
	assert.NotNil(t, err)
	_, err = runCLI(t, cfg, "read")
	assert.NotNil(t, err)
}

func TestCLIPWM(t *testing.T) {
	_, cfg := setupSim(t)

	checkCLI(t, cfg, "", "pwm", "18", "128")
	checkCLI(t, cfg, "128", "pwm", "18")
	checkCLI(t, cfg, "", "range", "18", "1000")
	checkCLI(t, cfg, "1000", "range", "18")
	// snapped to the closest available frequency
	checkCLI(t, cfg, "800", "freq", "18", "850")
	checkCLI(t, cfg, "800", "freq", "18")
	checkCLI(t, cfg, "", "servo", "17", "1500")
	checkCLI(t, cfg, "1500", "servo", "17")

	_, err := runCLI(t, cfg, "servo", "17", "100")
	assert.ErrorIs(t, err, pigpio.BadPulseWidth)
}

func TestCLII2C(t *testing.T) {
	_, cfg := setupSim(t, pigsim.WithI2CDevice(1, 0x68, map[uint8]byte{0x75: 0x68}))

	checkCLI(t, cfg, "0", "i2c", "open", "1", "0x68")
	// handles outlive the invocation that opened them
	checkCLI(t, cfg, "104", "i2c", "read", "0", "0x75")
	checkCLI(t, cfg, "", "i2c", "write", "0", "0x10", "0xaa")
	checkCLI(t, cfg, "170", "i2c", "read", "0", "0x10")
	checkCLI(t, cfg, "", "i2c", "close", "0")

	_, err := runCLI(t, cfg, "i2c", "close", "0")
	assert.ErrorIs(t, err, pigpio.BadHandle)
	_, err = runCLI(t, cfg, "i2c", "open", "3", "0x68")
	assert.ErrorIs(t, err, pigpio.BadI2CBus)
}

func TestCLIUtilities(t *testing.T) {
	_, cfg := setupSim(t, pigsim.WithRevision(0xa020d3))

	checkCLI(t, cfg, "a020d3", "hwver")
	checkCLI(t, cfg, fmt.Sprint(pigpio.Version), "version")
	checkCLI(t, cfg, "pipe", "backend")
	checkCLI(t, cfg, pigpio.BadHandle.Error(), "error", "--", "-25")

	out, err := runCLI(t, cfg, "tick")
	assert.Nil(t, err)
	assert.NotEmpty(t, out)
}

func TestCLIConfigErrors(t *testing.T) {
	_, err := runCLI(t, filepath.Join(t.TempDir(), "missing.toml"), "hwver")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, cfg := setupSim(t)
	_, err = runCLI(t, cfg, "--log-level", "loud", "hwver")
	assert.NotNil(t, err)

	t.Setenv(config.BackendEnv, "native")
	path := filepath.Join(t.TempDir(), "native.toml")
	require.Nil(t, os.WriteFile(path, []byte("[native]\nchip = \"nonexistent_chip\"\n"), 0o644))
	_, err = runCLI(t, path, "hwver")
	assert.ErrorIs(t, err, pigpio.ErrConnectionFailed)
}
