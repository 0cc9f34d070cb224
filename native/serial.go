// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/warthog618/go-pigpio"
)

var ttyBauds = map[uint]uint32{
	50:     unix.B50,
	75:     unix.B75,
	110:    unix.B110,
	134:    unix.B134,
	150:    unix.B150,
	200:    unix.B200,
	300:    unix.B300,
	600:    unix.B600,
	1200:   unix.B1200,
	1800:   unix.B1800,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
}

var ttyPrefixes = []string{"/dev/tty", "/dev/serial", "/dev/pts/"}

const (
	minBitBangBaud = 50
	maxBitBangBaud = 250000
	maxBitBangBits = 32
)

// tty is an open serial device.
type tty struct {
	fd   int
	name string
}

func openTTY(name string, baud uint) (*tty, error) {
	speed, ok := ttyBauds[baud]
	if !ok {
		return nil, pigpio.BadSerialSpeed
	}
	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	if err := makeRaw(fd, speed); err != nil {
		unix.Close(fd)
		return nil, errors.Wrapf(err, "configure %s", name)
	}
	return &tty{fd: fd, name: name}, nil
}

// makeRaw sets the terminal to 8N1 raw mode at the speed, with reads
// returning immediately.
func makeRaw(fd int, speed uint32) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL | speed
	t.Ispeed = speed
	t.Ospeed = speed
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0
	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}

func (t *tty) close() error {
	return unix.Close(t.fd)
}

// Serial accesses tty devices, and decodes serial data bit-banged on GPIOs.
type Serial struct {
	h *host
}

// Open opens a tty device at the baud rate, configured raw 8N1.
//
// Only devices under /dev/tty, /dev/serial and /dev/pts/ may be opened.
func (s *Serial) Open(device string, baud uint) (pigpio.Handle, error) {
	if !hasTTYPrefix(device) {
		return -1, pigpio.BadSerialDevice
	}
	if !pigpio.IsSerialBaud(baud) {
		return -1, pigpio.BadSerialSpeed
	}
	t, err := openTTY(device, baud)
	if err != nil {
		s.h.logger.Debug("serial open failed", "device", device, "error", err)
		if _, ok := pigpio.AsResultCode(err); ok {
			return -1, err
		}
		return -1, pigpio.SerialOpenFailed
	}
	h, err := s.h.serial.add(t)
	if err != nil {
		t.close()
		return -1, err
	}
	return h, nil
}

func hasTTYPrefix(device string) bool {
	for _, p := range ttyPrefixes {
		if strings.HasPrefix(device, p) {
			return true
		}
	}
	return false
}

func (s *Serial) Close(h pigpio.Handle) error {
	t, err := s.h.serial.remove(h)
	if err != nil {
		return err
	}
	return t.close()
}

// Read returns up to count bytes, and an empty slice if nothing is waiting.
func (s *Serial) Read(h pigpio.Handle, count int) ([]byte, error) {
	t, err := s.h.serial.get(h)
	if err != nil {
		return nil, err
	}
	if count < 1 || count > maxDeviceRead {
		return nil, pigpio.BadSerialCount
	}
	buf := make([]byte, count)
	n, err := unix.Read(t.fd, buf)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) {
			return []byte{}, nil
		}
		s.h.logger.Debug("serial read failed", "device", t.name, "error", err)
		return nil, pigpio.SerialReadFailed
	}
	return buf[:n], nil
}

func (s *Serial) Write(h pigpio.Handle, data []byte) error {
	t, err := s.h.serial.get(h)
	if err != nil {
		return err
	}
	for len(data) > 0 {
		n, err := unix.Write(t.fd, data)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				time.Sleep(time.Millisecond)
				continue
			}
			s.h.logger.Debug("serial write failed", "device", t.name, "error", err)
			return pigpio.SerialWriteFailed
		}
		data = data[n:]
	}
	return nil
}

func (s *Serial) DataAvailable(h pigpio.Handle) (int, error) {
	t, err := s.h.serial.get(h)
	if err != nil {
		return 0, err
	}
	n, err := unix.IoctlGetInt(t.fd, unix.TIOCINQ)
	if err != nil {
		return 0, pigpio.SerialReadFailed
	}
	return n, nil
}

// BitBangOpen starts decoding serial data from the edges on the GPIO.
func (s *Serial) BitBangOpen(pin int, baud uint, bits uint) error {
	if baud < minBitBangBaud || baud > maxBitBangBaud {
		return pigpio.BadWaveBaud
	}
	if bits < 1 || bits > maxBitBangBits {
		return pigpio.BadDataBits
	}
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	ln, err := s.h.request(pin)
	if err != nil {
		return err
	}
	s.h.bbmu.Lock()
	if _, ok := s.h.bitbang[pin]; ok {
		s.h.bbmu.Unlock()
		return pigpio.GPIOInUse
	}
	v, _ := ln.l.Value()
	s.h.bitbang[pin] = newUARTDecoder(baud, bits, v)
	s.h.bbmu.Unlock()
	if ln.output {
		return s.h.input(pin, ln)
	}
	return s.h.updateEdges(pin, ln)
}

func (s *Serial) BitBangRead(pin int, count int) ([]byte, error) {
	if count < 1 || count > maxDeviceRead {
		return nil, pigpio.BadSerialCount
	}
	s.h.mu.Lock()
	err := s.h.checkPin(pin)
	s.h.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.h.bbmu.Lock()
	dec, ok := s.h.bitbang[pin]
	s.h.bbmu.Unlock()
	if !ok {
		return nil, pigpio.NotSerialGPIO
	}
	return dec.read(count, monotonic()), nil
}

func (s *Serial) BitBangClose(pin int) error {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	if err := s.h.checkPin(pin); err != nil {
		return err
	}
	s.h.bbmu.Lock()
	_, ok := s.h.bitbang[pin]
	delete(s.h.bitbang, pin)
	s.h.bbmu.Unlock()
	if !ok {
		return pigpio.NotSerialGPIO
	}
	if ln, ok := s.h.lines[pin]; ok {
		return s.h.updateEdges(pin, ln)
	}
	return nil
}

type edge struct {
	ts    time.Duration
	level int
}

// uartDecoder rebuilds serial frames, idle high with a start bit, LSB first
// data bits and a stop bit, from the timestamps of the edges on a line.
//
// Frames of up to 8 bits are returned as one byte, up to 16 as two and
// larger as four, little-endian.
type uartDecoder struct {
	mu      sync.Mutex
	bitTime time.Duration
	bits    uint
	level   int
	inFrame bool
	start   time.Duration
	edges   []edge
	data    []byte
}

func newUARTDecoder(baud, bits uint, level int) *uartDecoder {
	return &uartDecoder{
		bitTime: time.Second / time.Duration(baud),
		bits:    bits,
		level:   level,
	}
}

// edge records a level change at the time ts.
func (u *uartDecoder) edge(ts time.Duration, level int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.flush(ts)
	switch {
	case u.inFrame:
		u.edges = append(u.edges, edge{ts, level})
	case level == 0 && u.level != 0:
		u.inFrame = true
		u.start = ts
	}
	u.level = level
}

// read returns up to count decoded bytes, completing any frame that has
// ended by the time now.
func (u *uartDecoder) read(count int, now time.Duration) []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.flush(now)
	n := min(count, len(u.data))
	data := append([]byte{}, u.data[:n]...)
	u.data = u.data[n:]
	return data
}

// flush decodes the current frame if it has ended by the time now.
func (u *uartDecoder) flush(now time.Duration) {
	if !u.inFrame {
		return
	}
	// sampled mid-bit, so the frame is complete midway through the stop bit
	end := u.start + time.Duration(u.bits+1)*u.bitTime + u.bitTime/2
	if now < end {
		return
	}
	var v uint32
	for i := range u.bits {
		t := u.start + time.Duration(i+1)*u.bitTime + u.bitTime/2
		if u.levelAt(t) != 0 {
			v |= 1 << i
		}
	}
	switch {
	case u.bits <= 8:
		u.data = append(u.data, byte(v))
	case u.bits <= 16:
		u.data = append(u.data, byte(v), byte(v>>8))
	default:
		u.data = append(u.data, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	u.inFrame = false
	u.edges = u.edges[:0]
}

// levelAt returns the level of the line at time t within the current frame.
func (u *uartDecoder) levelAt(t time.Duration) int {
	level := 0
	for _, e := range u.edges {
		if e.ts > t {
			break
		}
		level = e.level
	}
	return level
}
