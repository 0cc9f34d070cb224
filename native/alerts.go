// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-pigpio"
)

type alert struct {
	pin   int
	level pigpio.Level
	tick  uint32
}

// dispatcher delivers alerts to the registered alert functions from a single
// goroutine, so alert functions are never called concurrently.
//
// Edge events are posted from the gpiocdev event handler, which must not
// block, so alerts that arrive while the queue is full are dropped and
// counted.
type dispatcher struct {
	q     chan alert
	drops atomic.Uint32
	tick  func() uint32
	w     *worker

	mu    sync.Mutex
	funcs map[int]pigpio.AlertFunc
	dogs  map[int]*watchdog
}

type watchdog struct {
	t      *time.Timer
	period time.Duration
}

func newDispatcher(size int, tick func() uint32) *dispatcher {
	if size <= 0 {
		size = 64
	}
	d := &dispatcher{
		q:     make(chan alert, size),
		tick:  tick,
		funcs: map[int]pigpio.AlertFunc{},
		dogs:  map[int]*watchdog{},
	}
	d.w = startWorker(d.run)
	return d
}

func (d *dispatcher) run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case a := <-d.q:
			d.deliver(a)
		}
	}
}

func (d *dispatcher) deliver(a alert) {
	d.mu.Lock()
	fn := d.funcs[a.pin]
	if a.level != pigpio.LevelTimeout {
		if wd, ok := d.dogs[a.pin]; ok {
			wd.t.Reset(wd.period)
		}
	}
	d.mu.Unlock()
	if fn != nil {
		fn(a.pin, a.level, a.tick)
	}
}

// post queues the alert without blocking.
func (d *dispatcher) post(a alert) {
	select {
	case d.q <- a:
	default:
		d.drops.Add(1)
	}
}

func (d *dispatcher) dropped() uint32 {
	return d.drops.Load()
}

// register sets the alert function for the pin, or removes it if fn is nil.
func (d *dispatcher) register(pin int, fn pigpio.AlertFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if fn == nil {
		delete(d.funcs, pin)
		return
	}
	d.funcs[pin] = fn
}

// setWatchdog arranges for LevelTimeout alerts to be posted for the pin
// each period that passes without an edge.  A zero period cancels the
// watchdog.
func (d *dispatcher) setWatchdog(pin int, period time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if wd, ok := d.dogs[pin]; ok {
		wd.t.Stop()
		delete(d.dogs, pin)
	}
	if period <= 0 {
		return
	}
	wd := &watchdog{period: period}
	wd.t = time.AfterFunc(period, func() {
		d.post(alert{pin: pin, level: pigpio.LevelTimeout, tick: d.tick()})
		d.mu.Lock()
		if d.dogs[pin] == wd {
			wd.t.Reset(period)
		}
		d.mu.Unlock()
	})
	d.dogs[pin] = wd
}

func (d *dispatcher) stop() {
	d.mu.Lock()
	for pin, wd := range d.dogs {
		wd.t.Stop()
		delete(d.dogs, pin)
	}
	d.mu.Unlock()
	// alert functions are caller code, so the dispatcher may be abandoned
	d.w.halt(time.Second)
}
