// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warthog618/go-pigpio/internal/logging"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})
	require.Nil(t, err)

	l.Debug("opened", "pin", 4)
	var rec map[string]any
	require.Nil(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "opened", rec["msg"])
	assert.Equal(t, "debug", rec["level"])
	assert.Equal(t, float64(4), rec["pin"])
	assert.Contains(t, rec, "ts")
	assert.NotContains(t, rec, "time")
}

func TestNewAuto(t *testing.T) {
	// a buffer is not a terminal
	var buf bytes.Buffer
	l, err := logging.New(logging.Options{Output: &buf})
	require.Nil(t, err)

	l.Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))

	buf.Reset()
	l.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New(logging.Options{Level: "WARN", Format: "console", Output: &buf})
	require.Nil(t, err)

	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Warn("shown", "gpio", 17)
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "gpio=17")
}

func TestNewErrors(t *testing.T) {
	_, err := logging.New(logging.Options{Level: "loud"})
	assert.NotNil(t, err)
	_, err = logging.New(logging.Options{Format: "xml"})
	assert.NotNil(t, err)
}

func TestNewComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New(logging.Options{Format: "json", Output: &buf})
	require.Nil(t, err)

	logging.NewComponentLogger(l, "pipe").Info("sent")
	assert.Contains(t, buf.String(), `"component":"pipe"`)

	// nil is discarded rather than panicking
	logging.NewComponentLogger(nil, "pipe").Info("dropped")
}
