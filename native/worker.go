// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"sync"
	"time"

	"github.com/warthog618/go-pigpio"
)

// worker is a goroutine that runs until asked to stop.
type worker struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// startWorker runs fn in a new goroutine.
//
// The fn must return promptly once stop is closed.
func startWorker(fn func(stop <-chan struct{})) *worker {
	w := &worker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(w.done)
		fn(w.stop)
	}()
	return w
}

// halt asks the worker to stop and waits up to timeout for it to exit.
//
// A worker that has not exited is abandoned and ErrWorkerStuck returned.
func (w *worker) halt(timeout time.Duration) error {
	w.stopOnce.Do(func() { close(w.stop) })
	select {
	case <-w.done:
		return nil
	case <-time.After(timeout):
		return pigpio.ErrWorkerStuck
	}
}

// running returns true until the worker exits.
func (w *worker) running() bool {
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// sleep waits for the period, returning false if stop is closed first.
func sleep(stop <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-stop:
			return false
		default:
			return true
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-stop:
		return false
	case <-t.C:
		return true
	}
}
