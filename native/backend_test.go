// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native_test

import (
	"os"
	"path"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiosim"
	"golang.org/x/sys/unix"

	"github.com/warthog618/go-pigpio"
	"github.com/warthog618/go-pigpio/native"
)

const numLines = 54

// newSimBoard opens a native board on a gpio-sim chip, skipping the test if
// gpio-sim is unavailable.
func newSimBoard(t *testing.T, options ...native.Option) (*gpiosim.Simpleton, *pigpio.Board) {
	t.Helper()
	s, err := gpiosim.NewSimpleton(numLines)
	if err != nil {
		t.Skipf("gpio-sim unavailable: %v", err)
	}
	t.Cleanup(s.Close)
	options = append([]native.Option{native.WithChip(s.ChipName())}, options...)
	b, err := native.Open(options...)
	require.Nil(t, err)
	t.Cleanup(func() { b.Close() })
	return s, b
}

func checkSimLevel(t *testing.T, s *gpiosim.Simpleton, pin, xv int) {
	t.Helper()
	assert.Eventually(t, func() bool {
		v, err := s.Level(pin)
		return err == nil && v == xv
	}, time.Second, time.Millisecond, "pin %d", pin)
}

func checkNotSupported(t *testing.T, err error, op string) {
	t.Helper()
	require.ErrorIs(t, err, pigpio.ErrNotSupported)
	var nse *pigpio.NotSupportedError
	require.True(t, errors.As(err, &nse))
	assert.Equal(t, op, nse.Op)
	assert.Equal(t, native.BackendName, nse.Backend)
	assert.False(t, pigpio.IsFatal(err))
}

func TestOpenNoChip(t *testing.T) {
	b, err := native.Open(native.WithChip("nosuchchip"))
	assert.ErrorIs(t, err, pigpio.ErrConnectionFailed)
	assert.Nil(t, b)
}

func TestIO(t *testing.T) {
	s, b := newSimBoard(t)

	// m 17 W, w 17 1, r 17
	require.Nil(t, b.IO.SetMode(17, pigpio.ModeOutput))
	m, err := b.IO.Mode(17)
	assert.Nil(t, err)
	assert.Equal(t, pigpio.ModeOutput, m)
	require.Nil(t, b.IO.Write(17, pigpio.LevelHigh))
	checkSimLevel(t, s, 17, 1)
	v, err := b.IO.Read(17)
	assert.Nil(t, err)
	assert.Equal(t, pigpio.LevelHigh, v)
	require.Nil(t, b.IO.Write(17, pigpio.LevelLow))
	checkSimLevel(t, s, 17, 0)

	// write switches an input to output
	m, err = b.IO.Mode(22)
	assert.Nil(t, err)
	assert.Equal(t, pigpio.ModeInput, m)
	require.Nil(t, b.IO.Write(22, pigpio.LevelHigh))
	m, err = b.IO.Mode(22)
	assert.Nil(t, err)
	assert.Equal(t, pigpio.ModeOutput, m)

	// inputs follow the sim pull
	require.Nil(t, b.IO.SetMode(5, pigpio.ModeInput))
	require.Nil(t, s.Pullup(5))
	v, err = b.IO.Read(5)
	assert.Nil(t, err)
	assert.Equal(t, pigpio.LevelHigh, v)
	require.Nil(t, s.Pulldown(5))
	v, err = b.IO.Read(5)
	assert.Nil(t, err)
	assert.Equal(t, pigpio.LevelLow, v)

	// back to input
	require.Nil(t, b.IO.SetMode(17, pigpio.ModeInput))
	m, err = b.IO.Mode(17)
	assert.Nil(t, err)
	assert.Equal(t, pigpio.ModeInput, m)

	for _, pull := range []pigpio.Pull{pigpio.PullUp, pigpio.PullDown, pigpio.PullOff} {
		assert.Nil(t, b.IO.SetPull(6, pull))
	}
	assert.Equal(t, pigpio.BadPull, b.IO.SetPull(6, pigpio.Pull(3)))

	// trigger leaves the opposite level
	require.Nil(t, b.IO.Trigger(9, 10, pigpio.LevelHigh))
	checkSimLevel(t, s, 9, 0)
	assert.Equal(t, pigpio.BadPulseLength, b.IO.Trigger(9, 0, pigpio.LevelHigh))
	assert.Equal(t, pigpio.BadPulseLength, b.IO.Trigger(9, 101, pigpio.LevelHigh))
	assert.Equal(t, pigpio.BadLevel, b.IO.Trigger(9, 10, pigpio.LevelTimeout))
	assert.Equal(t, pigpio.BadLevel, b.IO.Write(9, pigpio.LevelTimeout))

	// filters
	assert.Nil(t, b.IO.SetGlitchFilter(5, 100*time.Microsecond))
	assert.Nil(t, b.IO.SetGlitchFilter(5, 0))
	assert.Equal(t, pigpio.BadParam, b.IO.SetGlitchFilter(5, time.Second))
	checkNotSupported(t, b.IO.SetNoiseFilter(5, time.Millisecond, time.Millisecond), "IO.SetNoiseFilter")

	// pins off the chip
	for _, pin := range []int{-1, numLines} {
		_, err = b.IO.Mode(pin)
		assert.Equal(t, pigpio.BadGPIO, err)
		_, err = b.IO.Read(pin)
		assert.Equal(t, pigpio.BadGPIO, err)
		assert.Equal(t, pigpio.BadGPIO, b.IO.Write(pin, pigpio.LevelHigh))
		assert.Equal(t, pigpio.BadGPIO, b.IO.SetWatchdog(pin, time.Millisecond))
	}
	assert.Equal(t, pigpio.BadWatchdog, b.IO.SetWatchdog(5, time.Minute+time.Millisecond))
}

func TestIOModes(t *testing.T) {
	_, b := newSimBoard(t)

	for _, m := range []pigpio.Mode{pigpio.ModeAlt0, pigpio.ModeAlt3, pigpio.ModeAlt5} {
		checkNotSupported(t, b.IO.SetMode(4, m), "IO.SetMode")
	}
	assert.Equal(t, pigpio.BadMode, b.IO.SetMode(4, pigpio.Mode(8)))
	assert.Equal(t, pigpio.BadMode, b.IO.SetMode(4, pigpio.Mode(-1)))
}

func TestIOBank(t *testing.T) {
	s, b := newSimBoard(t)

	require.Nil(t, b.IO.SetBank(0x06))
	checkSimLevel(t, s, 1, 1)
	checkSimLevel(t, s, 2, 1)
	mask, err := b.IO.ReadBank()
	assert.Nil(t, err)
	assert.Equal(t, uint32(0x06), mask&0x06)

	require.Nil(t, b.IO.ClearBank(0x02))
	checkSimLevel(t, s, 1, 0)
	checkSimLevel(t, s, 2, 1)

	require.Nil(t, s.Pullup(7))
	mask, err = b.IO.ReadBank()
	assert.Nil(t, err)
	assert.Equal(t, uint32(0x84), mask&0x86)
}

type alertRecord struct {
	pin   int
	level pigpio.Level
	tick  uint32
}

func waitAlert(t *testing.T, ch <-chan alertRecord) alertRecord {
	t.Helper()
	select {
	case a := <-ch:
		return a
	case <-time.After(time.Second):
		require.Fail(t, "timeout waiting for alert")
	}
	return alertRecord{}
}

func TestAlerts(t *testing.T) {
	s, b := newSimBoard(t)

	ch := make(chan alertRecord, 10)
	fn := func(pin int, level pigpio.Level, tick uint32) {
		ch <- alertRecord{pin, level, tick}
	}
	require.Nil(t, b.IO.SetAlertFunc(8, fn))

	require.Nil(t, s.Pullup(8))
	a := waitAlert(t, ch)
	assert.Equal(t, 8, a.pin)
	assert.Equal(t, pigpio.LevelHigh, a.level)
	require.Nil(t, s.Pulldown(8))
	a2 := waitAlert(t, ch)
	assert.Equal(t, pigpio.LevelLow, a2.level)
	assert.Less(t, a2.tick-a.tick, uint32(time.Second/time.Microsecond))

	// ticks share the Tick clock
	now, err := b.Utilities.Tick()
	assert.Nil(t, err)
	assert.Less(t, now-a2.tick, uint32(time.Second/time.Microsecond))

	// cancelled
	require.Nil(t, b.IO.SetAlertFunc(8, nil))
	require.Nil(t, s.Pullup(8))
	select {
	case a := <-ch:
		assert.Fail(t, "unexpected alert", "%v", a)
	case <-time.After(20 * time.Millisecond):
	}
	assert.Equal(t, pigpio.BadGPIO, b.IO.SetAlertFunc(numLines, fn))
}

func TestWatchdog(t *testing.T) {
	s, b := newSimBoard(t)

	ch := make(chan alertRecord, 10)
	require.Nil(t, b.IO.SetAlertFunc(10, func(pin int, level pigpio.Level, tick uint32) {
		ch <- alertRecord{pin, level, tick}
	}))
	require.Nil(t, b.IO.SetWatchdog(10, 20*time.Millisecond))
	a := waitAlert(t, ch)
	assert.Equal(t, 10, a.pin)
	assert.Equal(t, pigpio.LevelTimeout, a.level)

	// repeats while the line is quiet
	a = waitAlert(t, ch)
	assert.Equal(t, pigpio.LevelTimeout, a.level)

	// edges still delivered
	require.Nil(t, s.Pullup(10))
	for a.level == pigpio.LevelTimeout {
		a = waitAlert(t, ch)
	}
	assert.Equal(t, pigpio.LevelHigh, a.level)

	require.Nil(t, b.IO.SetWatchdog(10, 0))
	// drain anything already queued
	time.Sleep(30 * time.Millisecond)
	for len(ch) > 0 {
		<-ch
	}
	select {
	case a := <-ch:
		assert.Fail(t, "unexpected alert", "%v", a)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPWM(t *testing.T) {
	s, b := newSimBoard(t)

	rng, err := b.PWM.Range(5)
	assert.Nil(t, err)
	assert.Equal(t, uint(pigpio.DefaultPWMRange), rng)
	f, err := b.PWM.Frequency(5)
	assert.Nil(t, err)
	assert.Equal(t, uint(pigpio.DefaultPWMFrequency), f)
	_, err = b.PWM.DutyCycle(5)
	assert.Equal(t, pigpio.NotPWMGPIO, err)

	f, err = b.PWM.SetFrequency(5, 850)
	assert.Nil(t, err)
	assert.Equal(t, uint(800), f)
	rr, err := b.PWM.SetRange(5, 1000)
	assert.Nil(t, err)
	assert.Equal(t, uint(250), rr)
	rr, err = b.PWM.RealRange(5)
	assert.Nil(t, err)
	assert.Equal(t, uint(250), rr)
	_, err = b.PWM.SetRange(5, 24)
	assert.Equal(t, pigpio.BadDutyRange, err)
	_, err = b.PWM.SetRange(5, 40001)
	assert.Equal(t, pigpio.BadDutyRange, err)

	// fully on and fully off
	require.Nil(t, b.PWM.SetDutyCycle(5, 1000))
	checkSimLevel(t, s, 5, 1)
	d, err := b.PWM.DutyCycle(5)
	assert.Nil(t, err)
	assert.Equal(t, uint(1000), d)
	require.Nil(t, b.PWM.SetDutyCycle(5, 0))
	checkSimLevel(t, s, 5, 0)
	assert.Equal(t, pigpio.BadDutyCycle, b.PWM.SetDutyCycle(5, 1001))

	// range clamps duty
	require.Nil(t, b.PWM.SetDutyCycle(5, 900))
	_, err = b.PWM.SetRange(5, 500)
	assert.Nil(t, err)
	d, err = b.PWM.DutyCycle(5)
	assert.Nil(t, err)
	assert.Equal(t, uint(500), d)

	// write stops pulses
	require.Nil(t, b.IO.Write(5, pigpio.LevelLow))
	checkSimLevel(t, s, 5, 0)
	_, err = b.PWM.DutyCycle(5)
	assert.Equal(t, pigpio.NotPWMGPIO, err)

	// servo
	_, err = b.PWM.ServoPulseWidth(6)
	assert.Equal(t, pigpio.NotServoGPIO, err)
	require.Nil(t, b.PWM.SetServoPulseWidth(6, 1500))
	w, err := b.PWM.ServoPulseWidth(6)
	assert.Nil(t, err)
	assert.Equal(t, uint(1500), w)
	require.Nil(t, b.PWM.SetServoPulseWidth(6, 0))
	checkSimLevel(t, s, 6, 0)
	for _, w := range []uint{1, 499, 2501} {
		assert.Equal(t, pigpio.BadPulseWidth, b.PWM.SetServoPulseWidth(6, w))
	}

	// hardware
	assert.Equal(t, pigpio.NotHPWMGPIO, b.PWM.SetHardwarePWM(4, 1000, 500000))
	assert.Equal(t, pigpio.BadHPWMFreq, b.PWM.SetHardwarePWM(18, 187500001, 500000))
	assert.Equal(t, pigpio.BadHPWMDuty, b.PWM.SetHardwarePWM(18, 1000, 1000001))
	require.Nil(t, b.PWM.SetHardwarePWM(18, 1000, pigpio.MaxHardwarePWMDuty))
	checkSimLevel(t, s, 18, 1)
	f, err = b.PWM.Frequency(18)
	assert.Nil(t, err)
	assert.Equal(t, uint(1000), f)
	rr, err = b.PWM.RealRange(18)
	assert.Nil(t, err)
	assert.Equal(t, uint(250000), rr)
	require.Nil(t, b.PWM.SetHardwarePWM(18, 0, 0))
	checkNotSupported(t, b.PWM.SetHardwareClock(4, 5000), "PWM.SetHardwareClock")

	assert.Equal(t, pigpio.BadGPIO, b.PWM.SetDutyCycle(numLines, 1))
}

func TestI2C(t *testing.T) {
	dir := t.TempDir()
	_, b := newSimBoard(t, native.WithI2CPrefix(path.Join(dir, "i2c-")))

	// missing bus
	_, err := b.I2C.Open(1, 0x68, 0)
	assert.Equal(t, pigpio.I2COpenFailed, err)

	// not an i2c device
	require.Nil(t, os.WriteFile(path.Join(dir, "i2c-1"), nil, 0644))
	_, err = b.I2C.Open(1, 0x68, 0)
	assert.Equal(t, pigpio.I2COpenFailed, err)

	_, err = b.I2C.Open(-1, 0x68, 0)
	assert.Equal(t, pigpio.BadI2CBus, err)
	_, err = b.I2C.Open(1, 0x80, 0)
	assert.Equal(t, pigpio.BadI2CAddr, err)
	_, err = b.I2C.Open(1, 0x68, 1)
	assert.Equal(t, pigpio.BadFlags, err)

	h := pigpio.Handle(3)
	assert.Equal(t, pigpio.BadHandle, b.I2C.Close(h))
	_, err = b.I2C.ReceiveByte(h)
	assert.Equal(t, pigpio.BadHandle, err)
	assert.Equal(t, pigpio.BadHandle, b.I2C.WriteByteData(h, 1, 2))
	_, err = b.I2C.ReadWordData(h, 1)
	assert.Equal(t, pigpio.BadHandle, err)
	_, err = b.I2C.ReadDevice(h, 4)
	assert.Equal(t, pigpio.BadHandle, err)

	_, err = b.I2C.ReadDevice(h, 0)
	assert.Equal(t, pigpio.BadParam, err)
	_, err = b.I2C.ReadBlockData(h, 0, 33)
	assert.Equal(t, pigpio.BadParam, err)
	assert.Equal(t, pigpio.BadParam, b.I2C.WriteBlockData(h, 0, make([]byte, 33)))
	assert.Equal(t, pigpio.BadParam, b.I2C.WriteQuick(h, 2))
	assert.Equal(t, pigpio.BadParam, b.I2C.WriteDevice(h, nil))
}

// openPTY returns the master of a new pseudo-terminal and the path of its
// slave.
func openPTY(t *testing.T) (int, string) {
	t.Helper()
	fd, err := unix.Open("/dev/ptmx", unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	t.Cleanup(func() { unix.Close(fd) })
	require.Nil(t, unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0))
	n, err := unix.IoctlGetInt(fd, unix.TIOCGPTN)
	require.Nil(t, err)
	return fd, "/dev/pts/" + strconv.Itoa(n)
}

func TestSerial(t *testing.T) {
	_, b := newSimBoard(t)
	master, slave := openPTY(t)

	h, err := b.Serial.Open(slave, 9600)
	require.Nil(t, err)
	assert.GreaterOrEqual(t, int(h), 0)

	// nothing waiting
	data, err := b.Serial.Read(h, 16)
	assert.Nil(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)

	_, err = unix.Write(master, []byte("hello"))
	require.Nil(t, err)
	assert.Eventually(t, func() bool {
		n, err := b.Serial.DataAvailable(h)
		return err == nil && n == 5
	}, time.Second, time.Millisecond)
	data, err = b.Serial.Read(h, 3)
	assert.Nil(t, err)
	assert.Equal(t, []byte("hel"), data)
	data, err = b.Serial.Read(h, 16)
	assert.Nil(t, err)
	assert.Equal(t, []byte("lo"), data)

	require.Nil(t, b.Serial.Write(h, []byte("world\n")))
	buf := make([]byte, 16)
	n, err := unix.Read(master, buf)
	require.Nil(t, err)
	assert.Equal(t, []byte("world\n"), buf[:n])

	_, err = b.Serial.Read(h, 0)
	assert.Equal(t, pigpio.BadSerialCount, err)

	require.Nil(t, b.Serial.Close(h))
	assert.Equal(t, pigpio.BadHandle, b.Serial.Close(h))
	_, err = b.Serial.Read(h, 1)
	assert.Equal(t, pigpio.BadHandle, err)
	_, err = b.Serial.DataAvailable(h)
	assert.Equal(t, pigpio.BadHandle, err)

	_, err = b.Serial.Open("/tmp/notatty", 9600)
	assert.Equal(t, pigpio.BadSerialDevice, err)
	_, err = b.Serial.Open(slave, 9601)
	assert.Equal(t, pigpio.BadSerialSpeed, err)
	_, err = b.Serial.Open("/dev/ttyNOSUCHDEVICE", 9600)
	assert.Equal(t, pigpio.SerialOpenFailed, err)
}

func TestSerialBitBang(t *testing.T) {
	_, b := newSimBoard(t)

	_, err := b.Serial.BitBangRead(12, 8)
	assert.Equal(t, pigpio.NotSerialGPIO, err)
	assert.Equal(t, pigpio.NotSerialGPIO, b.Serial.BitBangClose(12))

	require.Nil(t, b.Serial.BitBangOpen(12, 9600, 8))
	assert.Equal(t, pigpio.GPIOInUse, b.Serial.BitBangOpen(12, 9600, 8))
	data, err := b.Serial.BitBangRead(12, 8)
	assert.Nil(t, err)
	assert.Empty(t, data)
	_, err = b.Serial.BitBangRead(12, 0)
	assert.Equal(t, pigpio.BadSerialCount, err)
	require.Nil(t, b.Serial.BitBangClose(12))

	assert.Equal(t, pigpio.BadWaveBaud, b.Serial.BitBangOpen(12, 49, 8))
	assert.Equal(t, pigpio.BadWaveBaud, b.Serial.BitBangOpen(12, 250001, 8))
	assert.Equal(t, pigpio.BadDataBits, b.Serial.BitBangOpen(12, 9600, 0))
	assert.Equal(t, pigpio.BadDataBits, b.Serial.BitBangOpen(12, 9600, 33))
	assert.Equal(t, pigpio.BadGPIO, b.Serial.BitBangOpen(numLines, 9600, 8))
}

func TestThreads(t *testing.T) {
	_, b := newSimBoard(t, native.WithStopTimeout(50*time.Millisecond))

	_, err := b.Threads.Start(nil)
	assert.Equal(t, pigpio.BadParam, err)

	started := make(chan struct{})
	stopped := make(chan struct{})
	h, err := b.Threads.Start(func(stop <-chan struct{}) {
		close(started)
		<-stop
		close(stopped)
	})
	require.Nil(t, err)
	assert.Equal(t, pigpio.Handle(0), h)
	<-started

	// returned without being stopped
	h2, err := b.Threads.Start(func(<-chan struct{}) {})
	require.Nil(t, err)
	assert.Equal(t, pigpio.Handle(1), h2)

	require.Nil(t, b.Threads.Stop(h))
	select {
	case <-stopped:
	default:
		assert.Fail(t, "thread not stopped")
	}
	assert.Equal(t, pigpio.BadHandle, b.Threads.Stop(h))
	assert.Nil(t, b.Threads.Stop(h2))

	// ignores stop
	release := make(chan struct{})
	defer close(release)
	h, err = b.Threads.Start(func(<-chan struct{}) { <-release })
	require.Nil(t, err)
	assert.ErrorIs(t, b.Threads.Stop(h), pigpio.ErrWorkerStuck)
	assert.Equal(t, pigpio.BadHandle, b.Threads.Stop(h))
}

func TestUtilities(t *testing.T) {
	cpuinfo := path.Join(t.TempDir(), "cpuinfo")
	require.Nil(t, os.WriteFile(cpuinfo,
		[]byte("processor\t: 0\nHardware\t: BCM2835\nRevision\t: a02082\nSerial\t\t: 00000000\n"),
		0644))
	_, b := newSimBoard(t, native.WithCPUInfo(cpuinfo))

	rev, err := b.Utilities.HardwareRevision()
	assert.Nil(t, err)
	assert.Equal(t, uint(0xa02082), rev)

	v, err := b.Utilities.Version()
	assert.Nil(t, err)
	assert.Equal(t, uint(pigpio.Version), v)

	t1, err := b.Utilities.Tick()
	assert.Nil(t, err)
	require.Nil(t, b.Utilities.DelayMillis(2))
	t2, err := b.Utilities.Tick()
	assert.Nil(t, err)
	assert.GreaterOrEqual(t, t2-t1, uint32(2000))

	assert.Nil(t, b.Utilities.DelayMicros(10))
	assert.Equal(t, pigpio.BadMicsDelay, b.Utilities.DelayMicros(0))
	assert.Equal(t, pigpio.BadMicsDelay, b.Utilities.DelayMicros(1000001))
	assert.Equal(t, pigpio.BadMilsDelay, b.Utilities.DelayMillis(0))
	assert.Equal(t, pigpio.BadMilsDelay, b.Utilities.DelayMillis(60001))
}

func TestUtilitiesNoRevision(t *testing.T) {
	_, b := newSimBoard(t, native.WithCPUInfo(path.Join(t.TempDir(), "missing")))

	rev, err := b.Utilities.HardwareRevision()
	assert.Nil(t, err)
	assert.Zero(t, rev)
}

func TestWaves(t *testing.T) {
	s, b := newSimBoard(t)

	_, err := b.Waves.Create()
	assert.Equal(t, pigpio.EmptyWaveform, err)

	n, err := b.Waves.AddGeneric([]pigpio.Pulse{
		{On: 1 << 20, Delay: 100},
		{Off: 1 << 20, On: 1 << 21, Delay: 100},
	})
	assert.Nil(t, err)
	assert.Equal(t, uint(2), n)
	id, err := b.Waves.Create()
	require.Nil(t, err)
	assert.Equal(t, pigpio.Handle(0), id)

	n, err = b.Waves.SendOnce(id)
	assert.Nil(t, err)
	assert.Equal(t, uint(2), n)
	assert.Eventually(t, func() bool {
		busy, err := b.Waves.Busy()
		return err == nil && !busy
	}, time.Second, time.Millisecond)
	checkSimLevel(t, s, 20, 0)
	checkSimLevel(t, s, 21, 1)

	_, err = b.Waves.SendOnce(7)
	assert.Equal(t, pigpio.BadWaveID, err)
	assert.Equal(t, pigpio.BadWaveID, b.Waves.Chain([]pigpio.Handle{id, 7}))
	assert.Equal(t, pigpio.BadParam, b.Waves.Chain(nil))

	// chain
	_, err = b.Waves.AddGeneric([]pigpio.Pulse{{Off: 1 << 21, Delay: 100}})
	require.Nil(t, err)
	id2, err := b.Waves.Create()
	require.Nil(t, err)
	assert.Equal(t, pigpio.Handle(1), id2)
	require.Nil(t, b.Waves.Chain([]pigpio.Handle{id, id2}))
	assert.Eventually(t, func() bool {
		busy, err := b.Waves.Busy()
		return err == nil && !busy
	}, time.Second, time.Millisecond)
	checkSimLevel(t, s, 21, 0)

	// repeat until stopped
	_, err = b.Waves.SendRepeat(id)
	require.Nil(t, err)
	busy, err := b.Waves.Busy()
	assert.Nil(t, err)
	assert.True(t, busy)
	require.Nil(t, b.Waves.Stop())
	busy, err = b.Waves.Busy()
	assert.Nil(t, err)
	assert.False(t, busy)

	require.Nil(t, b.Waves.Delete(id))
	assert.Equal(t, pigpio.BadWaveID, b.Waves.Delete(id))

	// new discards pending pulses
	_, err = b.Waves.AddGeneric([]pigpio.Pulse{{On: 1, Delay: 1}})
	require.Nil(t, err)
	require.Nil(t, b.Waves.New())
	_, err = b.Waves.Create()
	assert.Equal(t, pigpio.EmptyWaveform, err)

	_, err = b.Waves.AddGeneric(make([]pigpio.Pulse, 12001))
	assert.Equal(t, pigpio.TooManyPulses, err)

	require.Nil(t, b.Waves.Clear())
	_, err = b.Waves.SendOnce(id2)
	assert.Equal(t, pigpio.BadWaveID, err)
}

func TestBoardClose(t *testing.T) {
	_, b := newSimBoard(t)

	require.Nil(t, b.PWM.SetDutyCycle(5, 100))
	_, err := b.Threads.Start(func(stop <-chan struct{}) { <-stop })
	require.Nil(t, err)

	require.Nil(t, b.Close())
	assert.Nil(t, b.Close())

	_, err = b.IO.Read(5)
	assert.ErrorIs(t, err, pigpio.ErrClosed)
	assert.True(t, pigpio.IsFatal(err))
	_, err = b.Threads.Start(func(<-chan struct{}) {})
	assert.ErrorIs(t, err, pigpio.ErrClosed)
}
