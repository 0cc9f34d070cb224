// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pipe

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/warthog618/go-pigpio"
)

// Transport exchanges commands and responses with the daemon.
//
// A Transport is safe for concurrent use.  Each command holds the transport
// exclusively from the start of its write until its response has been read,
// so responses are never misattributed.
//
// Any failure of the channel itself (disconnection, a malformed response or
// a timeout) is fatal.  The first such error is retained and returned by all
// subsequent calls, and the Transport must be closed and a new one dialled.
type Transport struct {
	mu sync.Mutex

	w  io.Writer
	r  *bufio.Reader
	wd writeDeadliner
	rd readDeadliner

	er  *bufio.Reader
	erd readDeadliner
	emu sync.Mutex

	closers []io.Closer
	timeout time.Duration
	logger  *slog.Logger

	// first fatal error, or ErrClosed
	err error

	closing   atomic.Bool
	closeOnce sync.Once
}

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Dial opens the daemon pipes and returns a Transport using them.
func Dial(p Paths, options ...Option) (*Transport, error) {
	ch, err := OpenChannels(p)
	if err != nil {
		return nil, err
	}
	return NewTransport(ch, options...), nil
}

// NewTransport returns a Transport exchanging commands over the channels.
func NewTransport(ch Channels, options ...Option) *Transport {
	t := &Transport{
		w:       ch.Command,
		r:       bufio.NewReader(ch.Result),
		closers: ch.closers(),
		logger:  slog.New(slog.DiscardHandler),
	}
	t.wd, _ = ch.Command.(writeDeadliner)
	t.rd, _ = ch.Result.(readDeadliner)
	if ch.Error != nil {
		t.er = bufio.NewReader(ch.Error)
		t.erd, _ = ch.Error.(readDeadliner)
	}
	for _, o := range options {
		o.applyOption(t)
	}
	return t
}

// Close releases the channels.
//
// A command blocked awaiting its response is interrupted and fails with
// ErrClosed, as do any subsequent commands.
func (t *Transport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		// not under mu, which a blocked exchange holds until its read fails
		t.closing.Store(true)
		for _, c := range t.closers {
			if cerr := c.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		t.mu.Lock()
		t.err = pigpio.ErrClosed
		t.mu.Unlock()
	})
	return err
}

// Err returns the fatal error that disabled the transport, if any.
func (t *Transport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Send sends the command and discards the response.
//
// Failures of the transport are still reported.
func (t *Transport) Send(ctx context.Context, c Command) error {
	return t.exchange(ctx, c, func(r *bufio.Reader) error {
		_, err := readLine(r)
		return err
	})
}

// SendInt sends the command and returns its signed integer response.
func (t *Transport) SendInt(ctx context.Context, c Command) (int, error) {
	var v int
	err := t.exchange(ctx, c, func(r *bufio.Reader) (err error) {
		v, err = decodeInt(r)
		return
	})
	return v, err
}

// SendUint sends the command and returns its unsigned integer response.
//
// A negative response is a protocol violation.
func (t *Transport) SendUint(ctx context.Context, c Command) (uint, error) {
	var v uint
	err := t.exchange(ctx, c, func(r *bufio.Reader) (err error) {
		v, err = decodeUint(r)
		return
	})
	return v, err
}

// SendResultCode sends the command and returns its result code.
//
// Negative codes are returned as the code with a nil error, leaving the
// caller to decide whether they constitute a failure.
func (t *Transport) SendResultCode(ctx context.Context, c Command) (pigpio.ResultCode, error) {
	var rc pigpio.ResultCode
	err := t.exchange(ctx, c, func(r *bufio.Reader) (err error) {
		rc, err = decodeResultCode(r)
		return
	})
	return rc, err
}

// SendBlob sends the command and returns its binary response.
//
// A zero length response returns an empty, non-nil, slice.
// A negative length is returned as a ResultCode error.
func (t *Transport) SendBlob(ctx context.Context, c Command) ([]byte, error) {
	var data []byte
	err := t.exchange(ctx, c, func(r *bufio.Reader) (err error) {
		data, err = decodeBlob(r)
		return
	})
	return data, err
}

// SendLevel sends the command and decodes its response as a GPIO level.
//
// Negative responses are returned as a ResultCode error, and any value other
// than 0 or 1 is a protocol violation.
func (t *Transport) SendLevel(ctx context.Context, c Command) (pigpio.Level, error) {
	var l pigpio.Level
	err := t.exchange(ctx, c, func(r *bufio.Reader) (err error) {
		l, err = decodeLevel(r)
		return
	})
	return l, err
}

// SendMode sends the command and decodes its response as a mode token.
func (t *Transport) SendMode(ctx context.Context, c Command) (pigpio.Mode, error) {
	var m pigpio.Mode
	err := t.exchange(ctx, c, func(r *bufio.Reader) (err error) {
		m, err = decodeMode(r)
		return
	})
	return m, err
}

// DaemonMessage returns the next line of text written by the daemon to its
// error pipe.
//
// Blocks until a line is available or the context is done.  Failures here do
// not affect the command channel.
func (t *Transport) DaemonMessage(ctx context.Context) (string, error) {
	if t.er == nil {
		return "", errors.New("no error channel")
	}
	t.emu.Lock()
	defer t.emu.Unlock()
	if t.erd != nil {
		interrupted := make(chan struct{})
		stop := context.AfterFunc(ctx, func() {
			t.erd.SetReadDeadline(time.Unix(1, 0))
			close(interrupted)
		})
		defer func() {
			if !stop() {
				<-interrupted
				t.erd.SetReadDeadline(time.Time{})
			}
		}()
	}
	line, err := readLine(t.er)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if t.closing.Load() {
			return "", pigpio.ErrClosed
		}
		return "", errors.Wrap(pigpio.ErrTransportDisconnected, err.Error())
	}
	return line, nil
}

// exchange performs one write then one read while holding the transport.
func (t *Transport) exchange(ctx context.Context, c Command, decode func(*bufio.Reader) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	// nothing written yet, so the channel is still in sync
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	cancel := t.armDeadlines(ctx, start)
	defer cancel()

	if _, err := t.w.Write(c.line()); err != nil {
		return t.fail(c, err)
	}
	if err := decode(t.r); err != nil {
		if _, ok := pigpio.AsResultCode(err); ok {
			t.logger.Debug("command", "cmd", c.String(), "result", err.Error(),
				"elapsed", time.Since(start))
			return err
		}
		return t.fail(c, err)
	}
	t.logger.Debug("command", "cmd", c.String(), "elapsed", time.Since(start))
	return nil
}

// armDeadlines applies the context deadline, or the default timeout if it
// is sooner, to the channels, and interrupts blocked IO if the context is
// cancelled.  The returned function disarms them.
func (t *Transport) armDeadlines(ctx context.Context, start time.Time) func() {
	deadline, ok := ctx.Deadline()
	if t.timeout > 0 {
		if d := start.Add(t.timeout); !ok || d.Before(deadline) {
			deadline, ok = d, true
		}
	}
	if ok {
		t.setDeadlines(deadline)
	}
	interrupted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		t.setDeadlines(time.Unix(1, 0))
		close(interrupted)
	})
	return func() {
		fired := !stop()
		if fired {
			<-interrupted
		}
		if ok || fired {
			t.setDeadlines(time.Time{})
		}
	}
}

func (t *Transport) setDeadlines(d time.Time) {
	if t.wd != nil {
		t.wd.SetWriteDeadline(d)
	}
	if t.rd != nil {
		t.rd.SetReadDeadline(d)
	}
}

// fail classifies a channel error and disables the transport.
func (t *Transport) fail(c Command, err error) error {
	var kind error
	switch {
	case t.closing.Load():
		kind = errors.Wrap(pigpio.ErrClosed, c.Name())
	case errors.Is(err, pigpio.ErrProtocolDesync):
		kind = errors.Wrap(err, c.Name())
	case errors.Is(err, os.ErrDeadlineExceeded):
		kind = errors.Wrap(pigpio.ErrTimeout, c.Name())
	default:
		// EOF, EPIPE and any other failure of the pipes
		kind = errors.Wrapf(pigpio.ErrTransportDisconnected, "%s: %v", c.Name(), err)
	}
	t.err = kind
	t.logger.Error("transport failed", "cmd", c.String(), "error", kind.Error())
	return kind
}
