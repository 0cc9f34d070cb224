// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pigsim

import (
	"time"

	"github.com/warthog618/go-pigpio"
)

type handler func(d *daemon, a *args) reply

var commands = map[string]handler{
	// io
	"m":    (*daemon).setMode,
	"mg":   (*daemon).getMode,
	"pud":  (*daemon).setPull,
	"r":    (*daemon).read,
	"w":    (*daemon).write,
	"trig": (*daemon).trigger,
	"wdog": (*daemon).watchdog,
	"fg":   (*daemon).glitchFilter,
	"fn":   (*daemon).noiseFilter,

	// pwm
	"p":    (*daemon).setDutyCycle,
	"gdc":  (*daemon).dutyCycle,
	"prs":  (*daemon).setRange,
	"prg":  (*daemon).getRange,
	"prrg": (*daemon).realRange,
	"pfs":  (*daemon).setFrequency,
	"pfg":  (*daemon).frequency,
	"s":    (*daemon).setServo,
	"gpw":  (*daemon).servo,
	"hp":   (*daemon).hardwarePWM,
	"hc":   (*daemon).hardwareClock,

	// i2c
	"i2co":  (*daemon).i2cOpen,
	"i2cc":  (*daemon).i2cClose,
	"i2cwq": (*daemon).i2cWriteQuick,
	"i2crs": (*daemon).i2cReadByte,
	"i2cws": (*daemon).i2cWriteByte,
	"i2crb": (*daemon).i2cReadByteData,
	"i2cwb": (*daemon).i2cWriteByteData,
	"i2crw": (*daemon).i2cReadWordData,
	"i2cww": (*daemon).i2cWriteWordData,
	"i2crd": (*daemon).i2cReadDevice,
	"i2cwd": (*daemon).i2cWriteDevice,
	"i2cri": (*daemon).i2cReadBlockData,
	"i2cwi": (*daemon).i2cWriteBlockData,

	// serial
	"sero":  (*daemon).serialOpen,
	"serc":  (*daemon).serialClose,
	"serr":  (*daemon).serialRead,
	"serw":  (*daemon).serialWrite,
	"serda": (*daemon).serialDataAvailable,
	"slro":  (*daemon).bitBangOpen,
	"slr":   (*daemon).bitBangRead,
	"slrc":  (*daemon).bitBangClose,

	// utilities
	"hwver": (*daemon).hardwareRevision,
	"pigpv": (*daemon).version,
	"t":     (*daemon).tick,
	"mics":  (*daemon).delayMicros,
	"mils":  (*daemon).delayMillis,

	// waves
	"wvclr": (*daemon).waveClear,
	"wvnew": (*daemon).waveNew,
	"wvag":  (*daemon).waveAddGeneric,
	"wvcre": (*daemon).waveCreate,
	"wvdel": (*daemon).waveDelete,
	"wvtx":  (*daemon).waveSendOnce,
	"wvtxr": (*daemon).waveSendRepeat,
	"wvbsy": (*daemon).waveBusy,
	"wvhlt": (*daemon).waveHalt,
}

func (d *daemon) setMode(a *args) reply {
	a.need(2)
	p := d.pin(a, 0)
	tok := a.str(1)
	if a.err != 0 {
		return reply{}
	}
	m, err := pigpio.ParseMode(tok)
	if err != nil {
		return fail(pigpio.BadMode)
	}
	if p.hog != nil {
		return fail(pigpio.NotPermitted)
	}
	p.mode = m
	return ok()
}

func (d *daemon) getMode(a *args) reply {
	a.need(1)
	p := d.pin(a, 0)
	if a.err != 0 {
		return reply{}
	}
	return token(p.mode.Token())
}

func (d *daemon) setPull(a *args) reply {
	a.need(2)
	p := d.pin(a, 0)
	tok := a.str(1)
	if a.err != 0 {
		return reply{}
	}
	pull, err := pigpio.ParsePull(tok)
	if err != nil {
		return fail(pigpio.BadPull)
	}
	if p.hog != nil {
		return fail(pigpio.NotPermitted)
	}
	p.pull = pull
	return ok()
}

func (d *daemon) read(a *args) reply {
	a.need(1)
	p := d.pin(a, 0)
	if a.err != 0 {
		return reply{}
	}
	return value(p.level())
}

func (d *daemon) write(a *args) reply {
	a.need(2)
	p := d.pin(a, 0)
	lvl := a.ranged(1, 0, 1, pigpio.BadLevel)
	if a.err != 0 {
		return reply{}
	}
	if p.hog != nil {
		return fail(pigpio.NotPermitted)
	}
	p.mode = pigpio.ModeOutput
	p.out = lvl
	p.pwm, p.duty, p.servo = false, 0, 0
	return ok()
}

// trigger emits a pulse, leaving the pin at the opposite level.
func (d *daemon) trigger(a *args) reply {
	a.need(3)
	p := d.pin(a, 0)
	a.ranged(1, 1, 100, pigpio.BadPulseLength)
	lvl := a.ranged(2, 0, 1, pigpio.BadLevel)
	if a.err != 0 {
		return reply{}
	}
	if p.hog != nil {
		return fail(pigpio.NotPermitted)
	}
	p.mode = pigpio.ModeOutput
	p.out = 1 - lvl
	return ok()
}

func (d *daemon) watchdog(a *args) reply {
	a.need(2)
	p := d.pin(a, 0)
	ms := a.ranged(1, 0, pigpio.MaxWatchdog, pigpio.BadWatchdog)
	if a.err != 0 {
		return reply{}
	}
	p.watchdog = uint(ms)
	return ok()
}

func (d *daemon) glitchFilter(a *args) reply {
	a.need(2)
	p := d.pin(a, 0)
	steady := a.ranged(1, 0, 300000, pigpio.BadParam)
	if a.err != 0 {
		return reply{}
	}
	p.glitch = uint(steady)
	return ok()
}

func (d *daemon) noiseFilter(a *args) reply {
	a.need(3)
	p := d.pin(a, 0)
	steady := a.ranged(1, 0, 300000, pigpio.BadParam)
	active := a.ranged(2, 0, 1000000, pigpio.BadParam)
	if a.err != 0 {
		return reply{}
	}
	p.noise = [2]uint{uint(steady), uint(active)}
	return ok()
}

func (d *daemon) setDutyCycle(a *args) reply {
	a.need(2)
	p := d.pin(a, 0)
	duty := a.ranged(1, 0, 40000, pigpio.BadDutyCycle)
	if a.err != 0 {
		return reply{}
	}
	if uint(duty) > p.rng {
		return fail(pigpio.BadDutyCycle)
	}
	if p.hog != nil {
		return fail(pigpio.NotPermitted)
	}
	p.mode = pigpio.ModeOutput
	p.pwm, p.duty, p.servo = true, uint(duty), 0
	return ok()
}

func (d *daemon) dutyCycle(a *args) reply {
	a.need(1)
	p := d.pin(a, 0)
	if a.err != 0 {
		return reply{}
	}
	if !p.pwm {
		return fail(pigpio.NotPWMGPIO)
	}
	return value(int(p.duty))
}

func (d *daemon) setRange(a *args) reply {
	a.need(2)
	p := d.pin(a, 0)
	rng := a.ranged(1, pigpio.MinPWMRange, pigpio.MaxPWMRange, pigpio.BadDutyRange)
	if a.err != 0 {
		return reply{}
	}
	p.rng = uint(rng)
	if p.duty > p.rng {
		p.duty = p.rng
	}
	return value(int(pigpio.PWMRealRange(p.freq)))
}

func (d *daemon) getRange(a *args) reply {
	a.need(1)
	p := d.pin(a, 0)
	if a.err != 0 {
		return reply{}
	}
	return value(int(p.rng))
}

func (d *daemon) realRange(a *args) reply {
	a.need(1)
	p := d.pin(a, 0)
	if a.err != 0 {
		return reply{}
	}
	return value(int(pigpio.PWMRealRange(p.freq)))
}

// setFrequency sets the closest available frequency.
func (d *daemon) setFrequency(a *args) reply {
	a.need(2)
	p := d.pin(a, 0)
	hz := a.ranged(1, 0, 1<<31-1, pigpio.BadParam)
	if a.err != 0 {
		return reply{}
	}
	p.freq = pigpio.ClosestPWMFrequency(uint(hz))
	return value(int(p.freq))
}

func (d *daemon) frequency(a *args) reply {
	a.need(1)
	p := d.pin(a, 0)
	if a.err != 0 {
		return reply{}
	}
	return value(int(p.freq))
}

func (d *daemon) setServo(a *args) reply {
	a.need(2)
	p := d.pin(a, 0)
	width := a.ranged(1, 0, pigpio.MaxServoPulseWidth, pigpio.BadPulseWidth)
	if a.err != 0 {
		return reply{}
	}
	if width != 0 && width < pigpio.MinServoPulseWidth {
		return fail(pigpio.BadPulseWidth)
	}
	if p.hog != nil {
		return fail(pigpio.NotPermitted)
	}
	if width != 0 {
		p.mode = pigpio.ModeOutput
	}
	p.pwm, p.duty, p.servo = false, 0, uint(width)
	return ok()
}

func (d *daemon) servo(a *args) reply {
	a.need(1)
	p := d.pin(a, 0)
	if a.err != 0 {
		return reply{}
	}
	if p.servo == 0 {
		return fail(pigpio.NotServoGPIO)
	}
	return value(int(p.servo))
}

func (d *daemon) hardwarePWM(a *args) reply {
	a.need(3)
	gpio := a.int(0)
	p := d.pin(a, 0)
	hz := a.ranged(1, 0, 187500000, pigpio.BadHPWMFreq)
	duty := a.ranged(2, 0, pigpio.MaxHardwarePWMDuty, pigpio.BadHPWMDuty)
	if a.err != 0 {
		return reply{}
	}
	if !pigpio.IsHardwarePWMPin(gpio) {
		return fail(pigpio.NotHPWMGPIO)
	}
	if p.hog != nil {
		return fail(pigpio.NotPermitted)
	}
	p.mode = pigpio.ModeAlt0
	if gpio == 18 || gpio == 19 {
		p.mode = pigpio.ModeAlt5
	}
	p.pwm, p.servo = hz != 0, 0
	p.duty = uint(duty)
	return ok()
}

func (d *daemon) hardwareClock(a *args) reply {
	a.need(2)
	gpio := a.int(0)
	p := d.pin(a, 0)
	hz := a.ranged(1, 0, 250000000, pigpio.BadHClkFreq)
	if a.err != 0 {
		return reply{}
	}
	if !pigpio.IsHardwareClockPin(gpio) {
		return fail(pigpio.NotHClkGPIO)
	}
	if hz != 0 && hz < 4689 {
		return fail(pigpio.BadHClkFreq)
	}
	if p.hog != nil {
		return fail(pigpio.NotPermitted)
	}
	p.mode = pigpio.ModeAlt0
	if gpio == 20 || gpio == 21 {
		p.mode = pigpio.ModeAlt5
	}
	return ok()
}

func (d *daemon) i2cOpen(a *args) reply {
	a.need(3)
	bus := a.ranged(0, 0, 1, pigpio.BadI2CBus)
	addr := a.ranged(1, 0, 0x7f, pigpio.BadI2CAddr)
	a.ranged(2, 0, 0, pigpio.BadFlags)
	if a.err != 0 {
		return reply{}
	}
	h, found := allocate(d.i2cHandles, maxHandles)
	if !found {
		return fail(pigpio.NoHandle)
	}
	d.i2cHandles[h] = i2cHandle{bus, uint8(addr)}
	return value(h)
}

func (d *daemon) i2cClose(a *args) reply {
	a.need(1)
	h := a.int(0)
	if a.err != 0 {
		return reply{}
	}
	if _, found := d.i2cHandles[h]; !found {
		return fail(pigpio.BadHandle)
	}
	delete(d.i2cHandles, h)
	return ok()
}

// i2c resolves the handle argument to the device it addresses, which is nil
// if nothing is attached at that address.
func (d *daemon) i2c(a *args) (*i2cDevice, bool) {
	h := a.int(0)
	if a.err != 0 {
		return nil, false
	}
	ih, found := d.i2cHandles[h]
	if !found {
		a.err = pigpio.BadHandle
		return nil, false
	}
	return d.i2cDevice(ih.bus, ih.addr), true
}

func (d *daemon) i2cWriteQuick(a *args) reply {
	a.need(2)
	dev, valid := d.i2c(a)
	a.ranged(1, 0, 1, pigpio.BadParam)
	if !valid || a.err != 0 {
		return reply{}
	}
	if dev == nil {
		return fail(pigpio.I2CWriteFailed)
	}
	return ok()
}

func (d *daemon) i2cReadByte(a *args) reply {
	a.need(1)
	dev, valid := d.i2c(a)
	if !valid {
		return reply{}
	}
	if dev == nil {
		return fail(pigpio.I2CReadFailed)
	}
	v := dev.regs[dev.ptr]
	dev.ptr++
	return value(int(v))
}

// i2cWriteByte sets the register pointer of the device.
func (d *daemon) i2cWriteByte(a *args) reply {
	a.need(2)
	dev, valid := d.i2c(a)
	v := a.ranged(1, 0, 255, pigpio.BadParam)
	if !valid || a.err != 0 {
		return reply{}
	}
	if dev == nil {
		return fail(pigpio.I2CWriteFailed)
	}
	dev.ptr = uint8(v)
	return ok()
}

func (d *daemon) i2cReadByteData(a *args) reply {
	a.need(2)
	dev, valid := d.i2c(a)
	reg := a.ranged(1, 0, 255, pigpio.BadParam)
	if !valid || a.err != 0 {
		return reply{}
	}
	if dev == nil {
		return fail(pigpio.I2CReadFailed)
	}
	return value(int(dev.regs[reg]))
}

func (d *daemon) i2cWriteByteData(a *args) reply {
	a.need(3)
	dev, valid := d.i2c(a)
	reg := a.ranged(1, 0, 255, pigpio.BadParam)
	v := a.ranged(2, 0, 255, pigpio.BadParam)
	if !valid || a.err != 0 {
		return reply{}
	}
	if dev == nil {
		return fail(pigpio.I2CWriteFailed)
	}
	dev.regs[reg] = byte(v)
	return ok()
}

// i2cReadWordData reads the little endian word at reg.
func (d *daemon) i2cReadWordData(a *args) reply {
	a.need(2)
	dev, valid := d.i2c(a)
	reg := a.ranged(1, 0, 255, pigpio.BadParam)
	if !valid || a.err != 0 {
		return reply{}
	}
	if dev == nil {
		return fail(pigpio.I2CReadFailed)
	}
	lo := dev.regs[uint8(reg)]
	hi := dev.regs[uint8(reg+1)]
	return value(int(lo) | int(hi)<<8)
}

func (d *daemon) i2cWriteWordData(a *args) reply {
	a.need(3)
	dev, valid := d.i2c(a)
	reg := a.ranged(1, 0, 255, pigpio.BadParam)
	v := a.ranged(2, 0, 0xffff, pigpio.BadParam)
	if !valid || a.err != 0 {
		return reply{}
	}
	if dev == nil {
		return fail(pigpio.I2CWriteFailed)
	}
	dev.regs[uint8(reg)] = byte(v)
	dev.regs[uint8(reg+1)] = byte(v >> 8)
	return ok()
}

// i2cReadDevice reads sequential registers from the register pointer.
func (d *daemon) i2cReadDevice(a *args) reply {
	a.need(2)
	dev, valid := d.i2c(a)
	count := a.ranged(1, 1, maxDeviceRead, pigpio.BadParam)
	if !valid || a.err != 0 {
		return reply{}
	}
	if dev == nil {
		return fail(pigpio.I2CReadFailed)
	}
	data := make([]byte, count)
	for i := range data {
		data[i] = dev.regs[dev.ptr]
		dev.ptr++
	}
	return blob(data)
}

// i2cWriteDevice sets the register pointer to the first byte and writes the
// remainder to sequential registers.
func (d *daemon) i2cWriteDevice(a *args) reply {
	a.atLeast(2)
	dev, valid := d.i2c(a)
	data := a.bytes(1)
	if !valid || a.err != 0 {
		return reply{}
	}
	if dev == nil {
		return fail(pigpio.I2CWriteFailed)
	}
	dev.ptr = data[0]
	for _, b := range data[1:] {
		dev.regs[dev.ptr] = b
		dev.ptr++
	}
	return ok()
}

func (d *daemon) i2cReadBlockData(a *args) reply {
	a.need(3)
	dev, valid := d.i2c(a)
	reg := a.ranged(1, 0, 255, pigpio.BadParam)
	count := a.ranged(2, 1, 32, pigpio.BadParam)
	if !valid || a.err != 0 {
		return reply{}
	}
	if dev == nil {
		return fail(pigpio.I2CReadFailed)
	}
	data := make([]byte, count)
	for i := range data {
		data[i] = dev.regs[uint8(reg+i)]
	}
	return blob(data)
}

func (d *daemon) i2cWriteBlockData(a *args) reply {
	a.atLeast(3)
	dev, valid := d.i2c(a)
	reg := a.ranged(1, 0, 255, pigpio.BadParam)
	data := a.bytes(2)
	if !valid || a.err != 0 {
		return reply{}
	}
	if len(data) > 32 {
		return fail(pigpio.BadParam)
	}
	if dev == nil {
		return fail(pigpio.I2CWriteFailed)
	}
	for i, b := range data {
		dev.regs[uint8(reg+i)] = b
	}
	return ok()
}

func (d *daemon) serialOpen(a *args) reply {
	a.need(3)
	name := a.str(0)
	baud := a.int(1)
	a.ranged(2, 0, 0, pigpio.BadFlags)
	if a.err != 0 {
		return reply{}
	}
	dev, found := d.serial[name]
	if !found {
		return fail(pigpio.BadSerialDevice)
	}
	if !pigpio.IsSerialBaud(uint(baud)) {
		return fail(pigpio.BadSerialSpeed)
	}
	h, found := allocate(d.serHandles, maxHandles)
	if !found {
		return fail(pigpio.NoHandle)
	}
	d.serHandles[h] = dev
	return value(h)
}

func (d *daemon) serialHandle(a *args) *serialDevice {
	h := a.int(0)
	if a.err != 0 {
		return nil
	}
	dev, found := d.serHandles[h]
	if !found {
		a.err = pigpio.BadHandle
	}
	return dev
}

func (d *daemon) serialClose(a *args) reply {
	a.need(1)
	h := a.int(0)
	if a.err != 0 {
		return reply{}
	}
	if _, found := d.serHandles[h]; !found {
		return fail(pigpio.BadHandle)
	}
	delete(d.serHandles, h)
	return ok()
}

// serialRead returns up to count bytes, and an empty blob if nothing is
// waiting.
func (d *daemon) serialRead(a *args) reply {
	a.need(2)
	dev := d.serialHandle(a)
	count := a.ranged(1, 1, maxDeviceRead, pigpio.BadSerialCount)
	if a.err != 0 {
		return reply{}
	}
	n := min(count, len(dev.rx))
	data := dev.rx[:n:n]
	dev.rx = dev.rx[n:]
	return blob(data)
}

func (d *daemon) serialWrite(a *args) reply {
	a.atLeast(2)
	dev := d.serialHandle(a)
	data := a.bytes(1)
	if a.err != 0 {
		return reply{}
	}
	dev.tx = append(dev.tx, data...)
	return ok()
}

func (d *daemon) serialDataAvailable(a *args) reply {
	a.need(1)
	dev := d.serialHandle(a)
	if a.err != 0 {
		return reply{}
	}
	return value(len(dev.rx))
}

func (d *daemon) bitBangOpen(a *args) reply {
	a.need(3)
	p := d.pin(a, 0)
	a.ranged(1, 50, 250000, pigpio.BadWaveBaud)
	a.ranged(2, 1, 32, pigpio.BadDataBits)
	if a.err != 0 {
		return reply{}
	}
	if p.bbOpen {
		return fail(pigpio.GPIOInUse)
	}
	p.bbOpen = true
	return ok()
}

func (d *daemon) bitBangRead(a *args) reply {
	a.need(2)
	p := d.pin(a, 0)
	count := a.ranged(1, 1, maxDeviceRead, pigpio.BadSerialCount)
	if a.err != 0 {
		return reply{}
	}
	if !p.bbOpen {
		return fail(pigpio.NotSerialGPIO)
	}
	n := min(count, len(p.bbData))
	data := p.bbData[:n:n]
	p.bbData = p.bbData[n:]
	return blob(data)
}

func (d *daemon) bitBangClose(a *args) reply {
	a.need(1)
	p := d.pin(a, 0)
	if a.err != 0 {
		return reply{}
	}
	if !p.bbOpen {
		return fail(pigpio.NotSerialGPIO)
	}
	p.bbOpen = false
	p.bbData = nil
	return ok()
}

func (d *daemon) hardwareRevision(a *args) reply {
	a.need(0)
	return value(int(d.revision))
}

func (d *daemon) version(a *args) reply {
	a.need(0)
	return value(Version)
}

// tick is the microseconds since the daemon started, wrapping as a signed
// 32-bit value.
func (d *daemon) tick(a *args) reply {
	a.need(0)
	us := uint32(time.Since(d.started).Microseconds())
	return value(int(int32(us)))
}

func (d *daemon) delayMicros(a *args) reply {
	a.need(1)
	us := a.ranged(0, 1, 1000000, pigpio.BadMicsDelay)
	if a.err != 0 {
		return reply{}
	}
	return reply{delay: time.Duration(us) * time.Microsecond}
}

func (d *daemon) delayMillis(a *args) reply {
	a.need(1)
	ms := a.ranged(0, 1, 60000, pigpio.BadMilsDelay)
	if a.err != 0 {
		return reply{}
	}
	return reply{delay: time.Duration(ms) * time.Millisecond}
}

func (d *daemon) waveClear(a *args) reply {
	a.need(0)
	d.pending = nil
	clear(d.waves)
	d.busyUntil, d.repeating = time.Time{}, false
	return ok()
}

func (d *daemon) waveNew(a *args) reply {
	a.need(0)
	d.pending = nil
	return ok()
}

// waveAddGeneric appends pulses, as on/off/delay triples, to the pending
// waveform and returns the number of pulses pending.
func (d *daemon) waveAddGeneric(a *args) reply {
	if len(a.a) == 0 || len(a.a)%3 != 0 {
		a.err = pigpio.BadParamNum
		return reply{}
	}
	var pulses []pigpio.Pulse
	for i := 0; i < len(a.a); i += 3 {
		pulses = append(pulses, pigpio.Pulse{
			On:    a.word(i),
			Off:   a.word(i + 1),
			Delay: a.word(i + 2),
		})
	}
	if a.err != 0 {
		return reply{}
	}
	if len(d.pending)+len(pulses) > maxPulses {
		return fail(pigpio.TooManyPulses)
	}
	d.pending = append(d.pending, pulses...)
	return value(len(d.pending))
}

func (d *daemon) waveCreate(a *args) reply {
	a.need(0)
	if a.err != 0 {
		return reply{}
	}
	if len(d.pending) == 0 {
		return fail(pigpio.EmptyWaveform)
	}
	id, found := allocate(d.waves, maxWaves)
	if !found {
		return fail(pigpio.NoWaveformID)
	}
	d.waves[id] = d.pending
	d.pending = nil
	return value(id)
}

func (d *daemon) wave(a *args) []pigpio.Pulse {
	id := a.int(0)
	if a.err != 0 {
		return nil
	}
	w, found := d.waves[id]
	if !found {
		a.err = pigpio.BadWaveID
	}
	return w
}

func (d *daemon) waveDelete(a *args) reply {
	a.need(1)
	id := a.int(0)
	if a.err != 0 {
		return reply{}
	}
	if _, found := d.waves[id]; !found {
		return fail(pigpio.BadWaveID)
	}
	delete(d.waves, id)
	return ok()
}

// transmit applies the pulses to the output pins and marks the waveform
// busy for its duration.
func (d *daemon) transmit(w []pigpio.Pulse) {
	var total time.Duration
	for _, pulse := range w {
		for g := 0; g < 32 && g < len(d.pins); g++ {
			p := &d.pins[g]
			if p.mode != pigpio.ModeOutput || p.hog != nil {
				continue
			}
			if pulse.On&(1<<g) != 0 {
				p.out = LevelActive
			}
			if pulse.Off&(1<<g) != 0 {
				p.out = LevelInactive
			}
		}
		total += time.Duration(pulse.Delay) * time.Microsecond
	}
	d.busyUntil = time.Now().Add(total)
}

func (d *daemon) waveSendOnce(a *args) reply {
	a.need(1)
	w := d.wave(a)
	if a.err != 0 {
		return reply{}
	}
	d.transmit(w)
	d.repeating = false
	return value(len(w))
}

func (d *daemon) waveSendRepeat(a *args) reply {
	a.need(1)
	w := d.wave(a)
	if a.err != 0 {
		return reply{}
	}
	d.transmit(w)
	d.repeating = true
	return value(len(w))
}

func (d *daemon) waveBusy(a *args) reply {
	a.need(0)
	if d.repeating || time.Now().Before(d.busyUntil) {
		return value(1)
	}
	return value(0)
}

func (d *daemon) waveHalt(a *args) reply {
	a.need(0)
	d.busyUntil, d.repeating = time.Time{}, false
	return ok()
}
