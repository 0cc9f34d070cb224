// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
	"golang.org/x/sys/unix"

	"github.com/warthog618/go-pigpio"
)

// BackendName identifies the native backend in errors and logs.
const BackendName = "native"

const (
	maxHandles = 64
	maxWaves   = 250
	maxPulses  = 12000
)

// Open requests the GPIO chip and returns a Board controlling the hardware
// from within the process.
//
// The available options are [WithChip], [WithConsumer], [WithI2CPrefix],
// [WithCPUInfo], [WithStopTimeout] and [WithLogger].
//
// Lines are only requested from the chip when first used, so lines held by
// other processes remain available to them until then.
func Open(options ...Option) (*pigpio.Board, error) {
	cfg := defaultConfig()
	for _, o := range options {
		o.applyOption(&cfg)
	}
	chip, err := gpiocdev.NewChip(cfg.chip, gpiocdev.WithConsumer(cfg.consumer))
	if err != nil {
		return nil, errors.Wrapf(pigpio.ErrConnectionFailed, "open %s: %v", cfg.chip, err)
	}
	h := newHost(cfg, chip)
	return pigpio.NewBoard(BackendName,
		&IO{h}, &PWM{h}, &I2C{h}, &Serial{h}, &Threads{h}, &Utilities{h}, &Waves{h},
		h.close), nil
}

// host is the state shared by the subsystems.
type host struct {
	cfg    config
	logger *slog.Logger
	chip   *gpiocdev.Chip

	// mu covers lines, pwm and closed.
	mu     sync.Mutex
	lines  map[int]*line
	pwm    map[int]*pwmState
	closed bool

	// bbmu covers bitbang, and is taken from the event handler so must
	// never be held while lines are closed.
	bbmu    sync.Mutex
	bitbang map[int]*uartDecoder

	alerts  *dispatcher
	i2c     *handles[*i2cDevice]
	serial  *handles[*tty]
	threads *handles[*worker]
	waves   *sequencer
}

// line is a requested GPIO line and the configuration applied to it.
type line struct {
	l        *gpiocdev.Line
	output   bool
	pull     pigpio.Pull
	debounce time.Duration
	edges    bool
	alert    bool
	watchdog bool
}

func newHost(cfg config, chip *gpiocdev.Chip) *host {
	h := &host{
		cfg:     cfg,
		logger:  cfg.logger.With("backend", BackendName),
		chip:    chip,
		lines:   map[int]*line{},
		pwm:     map[int]*pwmState{},
		bitbang: map[int]*uartDecoder{},
		i2c:     newHandles[*i2cDevice](maxHandles, pigpio.NoHandle),
		serial:  newHandles[*tty](maxHandles, pigpio.NoHandle),
		threads: newHandles[*worker](maxHandles, pigpio.NoHandle),
	}
	h.alerts = newDispatcher(cfg.alertQueue, h.tick)
	h.waves = newSequencer(h)
	h.logger.Debug("opened", "chip", chip.Name, "lines", chip.Lines())
	return h
}

// close stops the workers and releases everything the backend holds.
//
// Workers that fail to stop are abandoned and reported as ErrWorkerStuck, but
// the remaining resources are still released.
func (h *host) close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return pigpio.ErrClosed
	}
	h.closed = true
	pwm := h.pwm
	h.pwm = map[int]*pwmState{}
	h.mu.Unlock()

	var stuck error
	if err := h.waves.halt(); err != nil {
		stuck = err
	}
	for pin, ps := range pwm {
		if err := ps.stop(h.cfg.stopTimeout); err != nil {
			h.logger.Warn("pwm worker stuck", "pin", pin)
			stuck = err
		}
	}
	for _, w := range h.threads.drain() {
		if err := w.halt(h.cfg.stopTimeout); err != nil {
			h.logger.Warn("thread stuck")
			stuck = err
		}
	}
	h.alerts.stop()
	if n := h.alerts.dropped(); n > 0 {
		h.logger.Warn("alerts dropped", "count", n)
	}

	h.mu.Lock()
	for pin, ln := range h.lines {
		ln.l.Close()
		delete(h.lines, pin)
	}
	h.mu.Unlock()
	h.chip.Close()

	for _, dev := range h.i2c.drain() {
		dev.close()
	}
	for _, t := range h.serial.drain() {
		t.close()
	}
	h.logger.Debug("closed")
	return stuck
}

// checkPin returns an error if the backend is closed or the pin is not on the
// chip.  Must be called with mu held.
func (h *host) checkPin(pin int) error {
	if h.closed {
		return pigpio.ErrClosed
	}
	if pin < 0 || pin >= h.chip.Lines() {
		return pigpio.BadGPIO
	}
	return nil
}

// request returns the requested line for the pin, requesting it as-is if
// necessary.  Must be called with mu held.
func (h *host) request(pin int) (*line, error) {
	if err := h.checkPin(pin); err != nil {
		return nil, err
	}
	if ln, ok := h.lines[pin]; ok {
		return ln, nil
	}
	l, err := h.chip.RequestLine(pin,
		gpiocdev.AsIs,
		gpiocdev.WithConsumer(h.cfg.consumer),
		gpiocdev.WithEventHandler(h.onEvent))
	if err != nil {
		if errors.Is(err, unix.EBUSY) {
			return nil, pigpio.GPIOInUse
		}
		return nil, errors.Wrapf(err, "request line %d", pin)
	}
	// The direction must be explicit before bias, debounce or edges can be
	// applied, so adopt the direction the line already has.
	ln := &line{l: l}
	info, err := l.Info()
	if err == nil {
		ln.output = info.Config.Direction == gpiocdev.LineDirectionOutput
		ln.pull = pullFromBias(info.Config.Bias)
		if ln.output {
			var v int
			if v, err = l.Value(); err == nil {
				err = l.Reconfigure(gpiocdev.AsOutput(v))
			}
		} else {
			err = l.Reconfigure(gpiocdev.AsInput)
		}
	}
	if err != nil {
		l.Close()
		return nil, errors.Wrapf(err, "configure line %d", pin)
	}
	h.lines[pin] = ln
	h.logger.Debug("requested line", "pin", pin, "output", ln.output)
	return ln, nil
}

// output returns the line for the pin, switching it to an output if
// necessary.  The level is preserved if the line is already an output.
//
// Must be called with mu held.
func (h *host) output(pin int, level int) (*gpiocdev.Line, error) {
	ln, err := h.request(pin)
	if err != nil {
		return nil, err
	}
	if ln.output {
		return ln.l, nil
	}
	if err := ln.l.Reconfigure(gpiocdev.AsOutput(level), gpiocdev.WithoutEdges); err != nil {
		return nil, errors.Wrapf(err, "reconfigure line %d", pin)
	}
	ln.output, ln.edges = true, false
	return ln.l, nil
}

// input switches the line to an input, restoring any debounce and edge
// detection the line requires.  Must be called with mu held.
func (h *host) input(pin int, ln *line) error {
	opts := []gpiocdev.LineConfigOption{
		gpiocdev.AsInput,
		gpiocdev.WithDebounce(ln.debounce),
		gpiocdev.WithoutEdges,
	}
	edges := h.wantsEdges(pin, ln)
	if edges {
		opts[2] = gpiocdev.WithBothEdges
	}
	if err := ln.l.Reconfigure(opts...); err != nil {
		return errors.Wrapf(err, "reconfigure line %d", pin)
	}
	ln.output, ln.edges = false, edges
	return nil
}

// updateEdges enables or disables edge detection on an input line to match
// its listeners.  Must be called with mu held.
func (h *host) updateEdges(pin int, ln *line) error {
	want := h.wantsEdges(pin, ln)
	if ln.output || want == ln.edges {
		return nil
	}
	opt := gpiocdev.WithoutEdges
	if want {
		opt = gpiocdev.WithBothEdges
	}
	if err := ln.l.Reconfigure(opt); err != nil {
		return errors.Wrapf(err, "reconfigure line %d", pin)
	}
	ln.edges = want
	return nil
}

func (h *host) wantsEdges(pin int, ln *line) bool {
	if ln.alert || ln.watchdog {
		return true
	}
	h.bbmu.Lock()
	defer h.bbmu.Unlock()
	_, ok := h.bitbang[pin]
	return ok
}

// onEvent receives edge events from the kernel and forwards them to the
// bit-bang decoders and alert functions.
func (h *host) onEvent(evt gpiocdev.LineEvent) {
	level := pigpio.LevelLow
	if evt.Type == gpiocdev.LineEventRisingEdge {
		level = pigpio.LevelHigh
	}
	h.bbmu.Lock()
	dec := h.bitbang[evt.Offset]
	h.bbmu.Unlock()
	if dec != nil {
		dec.edge(evt.Timestamp, int(level))
	}
	h.alerts.post(alert{pin: evt.Offset, level: level, tick: uint32(evt.Timestamp / time.Microsecond)})
}

func pullFromBias(b gpiocdev.LineBias) pigpio.Pull {
	switch b {
	case gpiocdev.LineBiasPullUp:
		return pigpio.PullUp
	case gpiocdev.LineBiasPullDown:
		return pigpio.PullDown
	}
	return pigpio.PullOff
}

func notSupported(op string) error {
	return pigpio.NotSupported(BackendName, op)
}
