// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pigpio_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warthog618/go-pigpio"
)

func TestModeTokens(t *testing.T) {
	modes := []pigpio.Mode{
		pigpio.ModeInput, pigpio.ModeOutput,
		pigpio.ModeAlt0, pigpio.ModeAlt1, pigpio.ModeAlt2,
		pigpio.ModeAlt3, pigpio.ModeAlt4, pigpio.ModeAlt5,
	}
	for _, m := range modes {
		got, err := pigpio.ParseMode(m.Token())
		assert.Nil(t, err)
		assert.Equal(t, m, got)
	}
	assert.Equal(t, "W", pigpio.ModeOutput.Token())
	assert.Equal(t, "output", pigpio.ModeOutput.String())
	assert.Equal(t, "alt3", pigpio.ModeAlt3.String())
	assert.Equal(t, "?", pigpio.Mode(9).Token())

	_, err := pigpio.ParseMode("X")
	assert.NotNil(t, err)
	_, err = pigpio.ParseMode("w")
	assert.NotNil(t, err)
}

func TestPullTokens(t *testing.T) {
	for _, p := range []pigpio.Pull{pigpio.PullOff, pigpio.PullDown, pigpio.PullUp} {
		got, err := pigpio.ParsePull(p.Token())
		assert.Nil(t, err)
		assert.Equal(t, p, got)
	}
	assert.Equal(t, "up", pigpio.PullUp.String())
	_, err := pigpio.ParsePull("Z")
	assert.NotNil(t, err)
}

func TestParseLevel(t *testing.T) {
	l, err := pigpio.ParseLevel(0)
	assert.Nil(t, err)
	assert.Equal(t, pigpio.LevelLow, l)
	l, err = pigpio.ParseLevel(1)
	assert.Nil(t, err)
	assert.Equal(t, pigpio.LevelHigh, l)
	_, err = pigpio.ParseLevel(2)
	assert.NotNil(t, err)
	assert.Equal(t, "1", pigpio.LevelHigh.Token())
}

func TestResultCode(t *testing.T) {
	rc := pigpio.ResultCode(-25)
	assert.Equal(t, pigpio.BadHandle, rc)
	assert.Equal(t, "PI_BAD_HANDLE", rc.Name())
	assert.True(t, rc.IsError())
	assert.Equal(t, "PI_BAD_HANDLE (-25)", rc.Error())
	assert.ErrorIs(t, rc.Err(), pigpio.BadHandle)

	assert.Nil(t, pigpio.ResultCode(3).Err())
	assert.False(t, pigpio.ResultCode(0).IsError())
	assert.Equal(t, "pigpio result -9999", pigpio.ResultCode(-9999).Error())

	wrapped := errors.Wrap(pigpio.BadHandle, "i2cc")
	assert.ErrorIs(t, wrapped, pigpio.BadHandle)
	got, ok := pigpio.AsResultCode(wrapped)
	assert.True(t, ok)
	assert.Equal(t, pigpio.BadHandle, got)
	_, ok = pigpio.AsResultCode(pigpio.ErrTimeout)
	assert.False(t, ok)
}

func TestNotSupported(t *testing.T) {
	err := pigpio.NotSupported("pipe", "Waves.Chain")
	assert.ErrorIs(t, err, pigpio.ErrNotSupported)
	assert.ErrorIs(t, errors.Wrap(err, "chain"), pigpio.ErrNotSupported)
	assert.Equal(t, "pipe: Waves.Chain: not supported", err.Error())

	var nse *pigpio.NotSupportedError
	require.True(t, errors.As(err, &nse))
	assert.Equal(t, "Waves.Chain", nse.Op)
	assert.Equal(t, "pipe", nse.Backend)
	assert.False(t, pigpio.IsFatal(err))
}

func TestIsFatal(t *testing.T) {
	fatal := []error{
		pigpio.ErrProtocolDesync,
		pigpio.ErrTransportDisconnected,
		pigpio.ErrTimeout,
		pigpio.ErrClosed,
		errors.Wrap(pigpio.ErrTimeout, "r 4"),
	}
	for _, err := range fatal {
		assert.True(t, pigpio.IsFatal(err), err)
	}
	for _, err := range []error{pigpio.BadGPIO, pigpio.ErrConnectionFailed, pigpio.ErrWorkerStuck} {
		assert.False(t, pigpio.IsFatal(err), err)
	}
}

func TestClosestPWMFrequency(t *testing.T) {
	patterns := []struct {
		hz       uint
		expected uint
	}{
		{0, 10},
		{10, 10},
		{850, 800},
		{900, 1000},
		{1800, 2000},
		{8000, 8000},
		{100000, 8000},
	}
	for _, p := range patterns {
		assert.Equal(t, p.expected, pigpio.ClosestPWMFrequency(p.hz), p.hz)
	}
}

func TestPWMRealRange(t *testing.T) {
	assert.Equal(t, uint(250), pigpio.PWMRealRange(800))
	assert.Equal(t, uint(25), pigpio.PWMRealRange(8000))
	assert.Equal(t, uint(0), pigpio.PWMRealRange(0))
}

func TestHardwarePins(t *testing.T) {
	assert.True(t, pigpio.IsHardwarePWMPin(18))
	assert.False(t, pigpio.IsHardwarePWMPin(17))
	assert.True(t, pigpio.IsHardwareClockPin(4))
	assert.False(t, pigpio.IsHardwareClockPin(18))
	assert.True(t, pigpio.IsSerialBaud(115200))
	assert.False(t, pigpio.IsSerialBaud(100))
}

func TestBoardClose(t *testing.T) {
	closed := 0
	b := pigpio.NewBoard("fake", nil, nil, nil, nil, nil, nil, nil,
		func() error {
			closed++
			return nil
		})
	assert.Equal(t, "fake", b.Backend)
	assert.Nil(t, b.Close())
	assert.Nil(t, b.Close())
	assert.Equal(t, 1, closed)
}
