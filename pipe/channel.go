// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pipe

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/warthog618/go-pigpio"
)

// Paths identifies the three named pipes served by the daemon.
type Paths struct {
	// The pipe commands are written to.
	Command string

	// The pipe results are read from.
	Result string

	// The pipe error text is read from.
	Error string
}

// DefaultPaths are the pipes created by pigpiod.
var DefaultPaths = Paths{
	Command: "/dev/pigpio",
	Result:  "/dev/pigout",
	Error:   "/dev/pigerr",
}

// Channels is the set of streams connecting a Transport to the daemon.
//
// Streams that implement io.Closer are closed when the Transport is closed.
// Streams that implement SetReadDeadline or SetWriteDeadline, as *os.File
// does for pipes, support command timeouts and cancellation.
type Channels struct {
	Command io.Writer
	Result  io.Reader

	// Error is optional.
	Error io.Reader
}

// OpenChannels opens the pipes identified by p.
//
// The command pipe is opened non-blocking so that the open fails
// immediately, rather than blocking, if the daemon is not listening.
func OpenChannels(p Paths) (Channels, error) {
	var ch Channels
	cmd, err := openFifo(p.Command, unix.O_WRONLY)
	if err != nil {
		return ch, err
	}
	res, err := openFifo(p.Result, unix.O_RDONLY)
	if err != nil {
		cmd.Close()
		return ch, err
	}
	ch.Command = cmd
	ch.Result = res
	if p.Error == "" {
		return ch, nil
	}
	ef, err := openFifo(p.Error, unix.O_RDONLY)
	if err != nil {
		cmd.Close()
		res.Close()
		return Channels{}, err
	}
	ch.Error = ef
	return ch, nil
}

// openFifo opens a named pipe in non-blocking mode, so the returned file
// uses the runtime poller and supports deadlines.
func openFifo(path string, flag int) (*os.File, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, errors.Wrapf(pigpio.ErrConnectionFailed, "%s: %v", path, err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFIFO {
		return nil, errors.Wrapf(pigpio.ErrConnectionFailed, "%s: not a named pipe", path)
	}
	f, err := os.OpenFile(path, flag|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		if errors.Is(err, unix.ENXIO) {
			return nil, errors.Wrapf(pigpio.ErrConnectionFailed, "%s: daemon not listening", path)
		}
		return nil, errors.Wrapf(pigpio.ErrConnectionFailed, "%s: %v", path, err)
	}
	return f, nil
}

func (ch Channels) closers() []io.Closer {
	var cc []io.Closer
	for _, s := range []any{ch.Command, ch.Result, ch.Error} {
		if c, ok := s.(io.Closer); ok {
			cc = append(cc, c)
		}
	}
	return cc
}
