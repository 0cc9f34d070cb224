// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"github.com/warthog618/go-pigpio"
)

// Threads runs caller functions on goroutines that can be stopped by handle.
type Threads struct {
	h *host
}

// Start runs fn on a new goroutine.
//
// The handle remains valid until Stop is called, even if fn returns first.
func (t *Threads) Start(fn pigpio.ThreadFunc) (pigpio.Handle, error) {
	if fn == nil {
		return -1, pigpio.BadParam
	}
	t.h.mu.Lock()
	closed := t.h.closed
	t.h.mu.Unlock()
	if closed {
		return -1, pigpio.ErrClosed
	}
	w := startWorker(fn)
	h, err := t.h.threads.add(w)
	if err != nil {
		w.halt(t.h.cfg.stopTimeout)
		return -1, err
	}
	return h, nil
}

// Stop closes the stop channel of the thread and waits for it to return.
//
// A thread that does not return within the stop timeout is abandoned and
// ErrWorkerStuck returned.
func (t *Threads) Stop(h pigpio.Handle) error {
	w, err := t.h.threads.remove(h)
	if err != nil {
		return err
	}
	return w.halt(t.h.cfg.stopTimeout)
}
