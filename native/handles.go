// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"sync"

	"github.com/warthog618/go-pigpio"
)

// handles maps the handles returned to callers to the resources they
// identify.
//
// New handles take the lowest free slot, as pigpio allocates them.
type handles[T any] struct {
	mu    sync.Mutex
	items map[pigpio.Handle]T
	limit int
	full  pigpio.ResultCode
}

func newHandles[T any](limit int, full pigpio.ResultCode) *handles[T] {
	return &handles[T]{
		items: make(map[pigpio.Handle]T),
		limit: limit,
		full:  full,
	}
}

func (hh *handles[T]) add(item T) (pigpio.Handle, error) {
	hh.mu.Lock()
	defer hh.mu.Unlock()
	for h := pigpio.Handle(0); int(h) < hh.limit; h++ {
		if _, ok := hh.items[h]; !ok {
			hh.items[h] = item
			return h, nil
		}
	}
	return -1, hh.full
}

func (hh *handles[T]) get(h pigpio.Handle) (T, error) {
	hh.mu.Lock()
	defer hh.mu.Unlock()
	item, ok := hh.items[h]
	if !ok {
		return item, pigpio.BadHandle
	}
	return item, nil
}

// remove releases the handle and returns the item it identified.
func (hh *handles[T]) remove(h pigpio.Handle) (T, error) {
	hh.mu.Lock()
	defer hh.mu.Unlock()
	item, ok := hh.items[h]
	if !ok {
		return item, pigpio.BadHandle
	}
	delete(hh.items, h)
	return item, nil
}

// drain removes and returns all the items.
func (hh *handles[T]) drain() []T {
	hh.mu.Lock()
	defer hh.mu.Unlock()
	items := make([]T, 0, len(hh.items))
	for h, item := range hh.items {
		items = append(items, item)
		delete(hh.items, h)
	}
	return items
}
