// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pigsim

import (
	"bufio"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/warthog618/go-pigpio"
	"github.com/warthog618/go-pigpio/pipe"
)

const (
	// Version is the pigpio version reported by the daemon.
	Version = pigpio.Version

	// DefaultRevision is the hardware revision reported unless overridden by
	// WithRevision, that of a Pi 3B.
	DefaultRevision = 0xa02082

	maxHandles    = 64
	maxWaves      = 250
	maxPulses     = 12000
	maxDeviceRead = 8192
)

// pin is the daemon state of one GPIO.
type pin struct {
	name string
	hog  *Hog
	mode pigpio.Mode
	pull pigpio.Pull
	out  int

	pwm   bool
	duty  uint
	rng   uint
	freq  uint
	servo uint

	watchdog uint
	glitch   uint
	noise    [2]uint

	bbOpen bool
	bbData []byte
}

// level returns the level the pin is driven or pulled to.
func (p *pin) level() int {
	if p.mode == pigpio.ModeOutput {
		return p.out
	}
	if p.pull == pigpio.PullUp {
		return LevelActive
	}
	return LevelInactive
}

type i2cDevice struct {
	bus  int
	addr uint8
	regs [256]byte
	ptr  uint8
}

type i2cHandle struct {
	bus  int
	addr uint8
}

type serialDevice struct {
	rx []byte
	tx []byte
}

// daemon serves the pipe protocol against simulated hardware.
type daemon struct {
	mu sync.Mutex

	pins       []pin
	i2cDevs    []*i2cDevice
	i2cHandles map[int]i2cHandle
	serial     map[string]*serialDevice
	serHandles map[int]*serialDevice

	pending   []pigpio.Pulse
	waves     map[int][]pigpio.Pulse
	busyUntil time.Time
	repeating bool

	revision uint
	started  time.Time
	logger   *slog.Logger

	// test hooks
	injected []string
	stalls   int

	cmd  *os.File
	res  *os.File
	errf *os.File
	done chan struct{}
	once sync.Once
}

func newDaemon(p pipe.Paths, numPins int, b *builder) (*daemon, error) {
	d := &daemon{
		pins:       make([]pin, numPins),
		i2cHandles: map[int]i2cHandle{},
		serial:     map[string]*serialDevice{},
		serHandles: map[int]*serialDevice{},
		waves:      map[int][]pigpio.Pulse{},
		revision:   b.revision,
		started:    time.Now(),
		logger:     b.logger,
		done:       make(chan struct{}),
	}
	if d.revision == 0 {
		d.revision = DefaultRevision
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	for i := range d.pins {
		d.pins[i].rng = pigpio.DefaultPWMRange
		d.pins[i].freq = pigpio.DefaultPWMFrequency
	}
	for _, o := range b.i2c {
		dev := &i2cDevice{bus: o.Bus, addr: o.Addr}
		for r, v := range o.Registers {
			dev.regs[r] = v
		}
		d.i2cDevs = append(d.i2cDevs, dev)
	}
	for _, o := range b.serial {
		d.serial[o.Name] = &serialDevice{rx: append([]byte(nil), o.RX...)}
	}
	// Opened read-write, as pigpiod does, so opens never block and the pipes
	// stay connected while clients come and go.
	files := make([]*os.File, 3)
	for i, fp := range []string{p.Command, p.Result, p.Error} {
		f, err := os.OpenFile(fp, os.O_RDWR|unix.O_NONBLOCK, 0)
		if err != nil {
			for _, f := range files[:i] {
				f.Close()
			}
			return nil, errors.Wrapf(err, "open %s", fp)
		}
		files[i] = f
	}
	d.cmd, d.res, d.errf = files[0], files[1], files[2]
	return d, nil
}

// applyHogs applies the names and hogs of the chip's bank to the pins.
func (d *daemon) applyHogs(c *Chip) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for o, n := range c.cfg.Names {
		if o >= 0 && o < c.cfg.NumLines {
			d.pins[c.base+o].name = n
		}
	}
	for o, h := range c.cfg.Hogs {
		if o < 0 || o >= c.cfg.NumLines {
			continue
		}
		p := &d.pins[c.base+o]
		hog := h
		p.hog = &hog
		switch h.Direction {
		case HogDirectionOutputLow:
			p.mode, p.out = pigpio.ModeOutput, LevelInactive
		case HogDirectionOutputHigh:
			p.mode, p.out = pigpio.ModeOutput, LevelActive
		default:
			p.mode = pigpio.ModeInput
		}
	}
}

func (d *daemon) start() {
	go d.serve()
}

// stop closes the pipes and waits for the server to exit.
func (d *daemon) stop() {
	d.once.Do(func() {
		d.cmd.Close()
		d.res.Close()
		d.errf.Close()
		<-d.done
	})
}

func (d *daemon) serve() {
	defer close(d.done)
	r := bufio.NewReader(d.cmd)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		rsp, ok := d.handle(line)
		if !ok {
			continue
		}
		if rsp.delay > 0 {
			time.Sleep(rsp.delay)
		}
		if _, err := d.res.Write(rsp.bytes()); err != nil {
			return
		}
		if rsp.code < 0 {
			d.reportError(line, pigpio.ResultCode(rsp.code))
		}
	}
}

// reportError writes a description of the failure to the error pipe,
// dropping it if nobody is reading.
func (d *daemon) reportError(line string, rc pigpio.ResultCode) {
	d.errf.SetWriteDeadline(time.Now().Add(10 * time.Millisecond))
	d.errf.Write([]byte(line + ": " + rc.Error() + "\n"))
}

// handle executes one command line, returning false if no response is to be
// sent.
func (d *daemon) handle(line string) (reply, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stalls > 0 {
		d.stalls--
		return reply{}, false
	}
	if len(d.injected) > 0 {
		raw := d.injected[0]
		d.injected = d.injected[1:]
		return reply{raw: raw, injected: true}, true
	}
	f := strings.Fields(line)
	if len(f) == 0 {
		return fail(pigpio.UnknownCommand), true
	}
	h, ok := commands[f[0]]
	if !ok {
		return fail(pigpio.UnknownCommand), true
	}
	a := &args{a: f[1:]}
	rsp := h(d, a)
	if a.err != 0 {
		rsp = fail(a.err)
	}
	d.logger.Debug("served", "cmd", line, "code", rsp.code)
	return rsp, true
}

// reply is the response to one command.
type reply struct {
	code  int
	token string
	blob  bool
	data  []byte
	delay time.Duration

	raw      string
	injected bool
}

func ok() reply {
	return reply{}
}

func value(v int) reply {
	return reply{code: v}
}

func fail(rc pigpio.ResultCode) reply {
	return reply{code: int(rc)}
}

func token(t string) reply {
	return reply{token: t}
}

func blob(data []byte) reply {
	return reply{code: len(data), blob: true, data: data}
}

func (r reply) bytes() []byte {
	if r.injected {
		return []byte(r.raw)
	}
	if r.token != "" {
		return []byte(r.token + "\n")
	}
	b := strconv.AppendInt(nil, int64(r.code), 10)
	b = append(b, '\n')
	if r.blob && r.code > 0 {
		b = append(b, r.data...)
	}
	return b
}

// args parses command arguments, recording the first failure.
type args struct {
	a   []string
	err pigpio.ResultCode
}

// need checks the number of arguments is exactly n.
func (a *args) need(n int) bool {
	if a.err == 0 && len(a.a) != n {
		a.err = pigpio.BadParamNum
	}
	return a.err == 0
}

// atLeast checks the number of arguments is at least n.
func (a *args) atLeast(n int) bool {
	if a.err == 0 && len(a.a) < n {
		a.err = pigpio.BadParamNum
	}
	return a.err == 0
}

func (a *args) int(i int) int {
	if a.err != 0 {
		return 0
	}
	if i >= len(a.a) {
		a.err = pigpio.BadParamNum
		return 0
	}
	v, err := strconv.ParseInt(a.a[i], 0, 64)
	if err != nil {
		a.err = pigpio.BadParam
	}
	return int(v)
}

// ranged parses an argument that must be within [min, max].
func (a *args) ranged(i, min, max int, rc pigpio.ResultCode) int {
	v := a.int(i)
	if a.err == 0 && (v < min || v > max) {
		a.err = rc
	}
	return v
}

// word parses an unsigned 32-bit argument, such as a GPIO mask.
func (a *args) word(i int) uint32 {
	if a.err != 0 {
		return 0
	}
	if i >= len(a.a) {
		a.err = pigpio.BadParamNum
		return 0
	}
	v, err := strconv.ParseUint(a.a[i], 0, 32)
	if err != nil {
		a.err = pigpio.BadParam
	}
	return uint32(v)
}

func (a *args) str(i int) string {
	if a.err != 0 {
		return ""
	}
	if i >= len(a.a) {
		a.err = pigpio.BadParamNum
		return ""
	}
	return a.a[i]
}

// bytes parses the arguments from i onwards as byte values.
func (a *args) bytes(i int) []byte {
	var data []byte
	for ; i < len(a.a); i++ {
		data = append(data, byte(a.ranged(i, 0, 255, pigpio.BadParam)))
	}
	return data
}

// pin parses the argument as a GPIO number.
func (d *daemon) pin(a *args, i int) *pin {
	v := a.int(i)
	if a.err != 0 {
		return nil
	}
	if v < 0 || v >= len(d.pins) {
		a.err = pigpio.BadGPIO
		return nil
	}
	return &d.pins[v]
}

// allocate returns the lowest free slot in the table.
func allocate[T any](table map[int]T, limit int) (int, bool) {
	for h := 0; h < limit; h++ {
		if _, ok := table[h]; !ok {
			return h, true
		}
	}
	return -1, false
}

func (d *daemon) i2cDevice(bus int, addr uint8) *i2cDevice {
	for _, dev := range d.i2cDevs {
		if dev.bus == bus && dev.addr == addr {
			return dev
		}
	}
	return nil
}
