// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pipe

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/warthog618/go-pigpio"
)

// Responses are one line of decimal text, except for blobs which are a line
// containing the decimal byte count followed immediately by exactly that
// many raw bytes:
//
//	"3\n\x01\x02\x03"
//
// A count of zero is an empty blob.  A negative count is a result code and
// no payload follows.

// maxBlob is the largest payload accepted before the count is considered
// corrupt.
const maxBlob = 1 << 16

// readLine reads one response line, without its terminator.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// parseInt parses a signed decimal response.
func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(pigpio.ErrProtocolDesync, "malformed integer %q", s)
	}
	return v, nil
}

func decodeInt(r *bufio.Reader) (int, error) {
	line, err := readLine(r)
	if err != nil {
		return 0, err
	}
	return parseInt(line)
}

func decodeUint(r *bufio.Reader) (uint, error) {
	v, err := decodeInt(r)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.Wrapf(pigpio.ErrProtocolDesync, "unexpected negative value %d", v)
	}
	return uint(v), nil
}

func decodeResultCode(r *bufio.Reader) (pigpio.ResultCode, error) {
	v, err := decodeInt(r)
	return pigpio.ResultCode(v), err
}

// decodeBlob reads a counted payload.
//
// A negative count is returned as a ResultCode error, which leaves the
// channel in sync.
func decodeBlob(r *bufio.Reader) ([]byte, error) {
	n, err := decodeInt(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, pigpio.ResultCode(n)
	}
	if n > maxBlob {
		return nil, errors.Wrapf(pigpio.ErrProtocolDesync, "blob length %d exceeds %d", n, maxBlob)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

// decodeLevel decodes a GPIO level.
//
// Negative integers are result codes; anything else must be 0 or 1.
func decodeLevel(r *bufio.Reader) (pigpio.Level, error) {
	v, err := decodeInt(r)
	if err != nil {
		return pigpio.LevelLow, err
	}
	if v < 0 {
		return pigpio.LevelLow, pigpio.ResultCode(v)
	}
	l, err := pigpio.ParseLevel(v)
	if err != nil {
		return l, errors.Wrap(pigpio.ErrProtocolDesync, err.Error())
	}
	return l, nil
}

// decodeMode decodes a mode token.
//
// Negative integers are result codes; anything else must be a known token.
func decodeMode(r *bufio.Reader) (pigpio.Mode, error) {
	line, err := readLine(r)
	if err != nil {
		return pigpio.ModeInput, err
	}
	tok := strings.TrimSpace(line)
	if v, err := strconv.Atoi(tok); err == nil && v < 0 {
		return pigpio.ModeInput, pigpio.ResultCode(v)
	}
	m, err := pigpio.ParseMode(tok)
	if err != nil {
		return m, errors.Wrap(pigpio.ErrProtocolDesync, err.Error())
	}
	return m, nil
}
