// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warthog618/go-pigpio"
)

// feedFrames feeds the decoder the edges of the frames, starting at ts and
// separated by idle bits, and returns the time after the last frame.
func feedFrames(u *uartDecoder, ts time.Duration, bits uint, idle int, frames ...uint32) time.Duration {
	level := 1
	set := func(v int) {
		if v != level {
			u.edge(ts, v)
			level = v
		}
		ts += u.bitTime
	}
	for _, f := range frames {
		set(0)
		for i := range bits {
			set(int(f>>i) & 1)
		}
		set(1)
		for range idle {
			set(1)
		}
	}
	return ts
}

func TestUARTDecoder(t *testing.T) {
	patterns := []struct {
		name   string
		baud   uint
		bits   uint
		idle   int
		frames []uint32
		data   []byte
	}{
		{"byte", 9600, 8, 0, []uint32{0x55}, []byte{0x55}},
		{"back to back", 9600, 8, 0, []uint32{'h', 'i', 0x00, 0xff}, []byte("hi\x00\xff")},
		{"idle gaps", 115200, 8, 3, []uint32{0x80, 0x01}, []byte{0x80, 0x01}},
		{"seven bits", 300, 7, 1, []uint32{0x7f, 0x2a}, []byte{0x7f, 0x2a}},
		{"twelve bits", 9600, 12, 0, []uint32{0xabc}, []byte{0xbc, 0x0a}},
		{"thirty two bits", 19200, 32, 0, []uint32{0x12345678}, []byte{0x78, 0x56, 0x34, 0x12}},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			u := newUARTDecoder(p.baud, p.bits, 1)
			start := time.Hour
			end := feedFrames(u, start, p.bits, p.idle, p.frames...)
			data := u.read(64, end+time.Second)
			assert.Equal(t, p.data, data)
			assert.Empty(t, u.read(64, end+2*time.Second))
		})
	}
}

func TestUARTDecoderPartial(t *testing.T) {
	u := newUARTDecoder(9600, 8, 1)
	start := time.Hour
	end := feedFrames(u, start, 8, 0, 0x00)

	// stop bit not yet reached
	data := u.read(8, start+5*u.bitTime)
	assert.NotNil(t, data)
	assert.Empty(t, data)

	data = u.read(8, end)
	assert.Equal(t, []byte{0x00}, data)
}

func TestUARTDecoderCount(t *testing.T) {
	u := newUARTDecoder(9600, 8, 1)
	end := feedFrames(u, time.Hour, 8, 1, 'a', 'b', 'c')

	assert.Equal(t, []byte("ab"), u.read(2, end))
	assert.Equal(t, []byte("c"), u.read(2, end))
}

func TestHandles(t *testing.T) {
	hh := newHandles[string](2, pigpio.NoHandle)

	h, err := hh.add("a")
	require.Nil(t, err)
	assert.Equal(t, pigpio.Handle(0), h)
	h, err = hh.add("b")
	require.Nil(t, err)
	assert.Equal(t, pigpio.Handle(1), h)
	_, err = hh.add("c")
	assert.Equal(t, pigpio.NoHandle, err)

	// lowest free slot is reused
	v, err := hh.remove(0)
	assert.Nil(t, err)
	assert.Equal(t, "a", v)
	_, err = hh.remove(0)
	assert.Equal(t, pigpio.BadHandle, err)
	_, err = hh.get(0)
	assert.Equal(t, pigpio.BadHandle, err)
	h, err = hh.add("c")
	require.Nil(t, err)
	assert.Equal(t, pigpio.Handle(0), h)

	v, err = hh.get(1)
	assert.Nil(t, err)
	assert.Equal(t, "b", v)

	assert.ElementsMatch(t, []string{"b", "c"}, hh.drain())
	assert.Empty(t, hh.drain())
}

func TestWorkerHalt(t *testing.T) {
	w := startWorker(func(stop <-chan struct{}) { <-stop })
	assert.True(t, w.running())
	assert.Nil(t, w.halt(time.Second))
	assert.False(t, w.running())
	assert.Nil(t, w.halt(time.Second))

	release := make(chan struct{})
	defer close(release)
	w = startWorker(func(<-chan struct{}) { <-release })
	assert.Equal(t, pigpio.ErrWorkerStuck, w.halt(10*time.Millisecond))
	assert.True(t, w.running())
}

func TestReadRevision(t *testing.T) {
	_, err := readRevision("/nonexistent/cpuinfo")
	assert.NotNil(t, err)
}
