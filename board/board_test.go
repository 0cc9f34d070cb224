// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package board_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiosim"

	"github.com/warthog618/go-pigpio"
	"github.com/warthog618/go-pigpio/board"
	"github.com/warthog618/go-pigpio/internal/config"
	"github.com/warthog618/go-pigpio/native"
	"github.com/warthog618/go-pigpio/pigsim"
	"github.com/warthog618/go-pigpio/pipe"
)

func pipeConfig(t *testing.T) (*pigsim.Simpleton, *config.Config) {
	t.Helper()
	s, err := pigsim.NewSimpleton(54, pigsim.WithDir(t.TempDir()))
	require.Nil(t, err)
	t.Cleanup(s.Close)
	cfg := config.Default()
	p := s.Paths()
	cfg.Pipe.CommandPath = p.Command
	cfg.Pipe.ResultPath = p.Result
	cfg.Pipe.ErrorPath = p.Error
	return s, &cfg
}

// checkScenario runs the same operations against any backend.
func checkScenario(t *testing.T, b *pigpio.Board) {
	t.Helper()
	require.Nil(t, b.IO.SetMode(17, pigpio.ModeOutput))
	m, err := b.IO.Mode(17)
	assert.Nil(t, err)
	assert.Equal(t, pigpio.ModeOutput, m)
	require.Nil(t, b.IO.Write(17, pigpio.LevelHigh))
	v, err := b.IO.Read(17)
	assert.Nil(t, err)
	assert.Equal(t, pigpio.LevelHigh, v)

	// capability detection without branching on the backend
	err = b.PWM.SetHardwareClock(4, 5000)
	if err != nil {
		assert.True(t, errors.Is(err, pigpio.ErrNotSupported), err)
	}
}

func TestOpenPipe(t *testing.T) {
	s, cfg := pipeConfig(t)

	b, err := board.Open(context.Background(), cfg, nil)
	require.Nil(t, err)
	defer b.Close()
	assert.Equal(t, pipe.BackendName, b.Backend)

	checkScenario(t, b)
	lvl, err := s.Level(17)
	assert.Nil(t, err)
	assert.Equal(t, 1, lvl)
}

func TestOpenPipeNoDaemon(t *testing.T) {
	cfg := config.Default()
	cfg.Pipe.CommandPath = "/nonexistent/pigpio"
	cfg.Pipe.ResultPath = "/nonexistent/pigout"
	cfg.Pipe.ErrorPath = ""

	_, err := board.Open(context.Background(), &cfg, nil)
	assert.ErrorIs(t, err, pigpio.ErrConnectionFailed)
}

func TestOpenNative(t *testing.T) {
	s, err := gpiosim.NewSimpleton(54)
	if err != nil {
		t.Skipf("gpio-sim unavailable: %v", err)
	}
	defer s.Close()
	cfg := config.Default()
	cfg.Backend = config.BackendNative
	cfg.Native.Chip = s.ChipName()

	b, err := board.Open(context.Background(), &cfg, nil)
	require.Nil(t, err)
	defer b.Close()
	assert.Equal(t, native.BackendName, b.Backend)

	checkScenario(t, b)
}

func TestOpenNativeNoChip(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = config.BackendNative
	cfg.Native.Chip = "nonexistent_chip"

	_, err := board.Open(context.Background(), &cfg, nil)
	assert.ErrorIs(t, err, pigpio.ErrConnectionFailed)
}

func TestOpenErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "spi"
	_, err := board.Open(context.Background(), &cfg, nil)
	assert.NotNil(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg = config.Default()
	_, err = board.Open(ctx, &cfg, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
