// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/warthog618/go-pigpio"
)

// withBoard runs fn against the configured board, closing the board after.
func withBoard(ctx *commandContext, fn func(cmd *cobra.Command, b *pigpio.Board, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		b, err := ctx.ensureBoard(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := ctx.close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd, b, args)
	}
}

// parseUint parses decimal, or hex and octal with the usual prefixes.
func parseUint(name, s string, bits int) (uint, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, errors.Errorf("invalid %s %q", name, s)
	}
	return uint(v), nil
}

func parseGPIO(s string) (int, error) {
	v, err := parseUint("gpio", s, 8)
	return int(v), err
}

func parseHandle(s string) (pigpio.Handle, error) {
	v, err := parseUint("handle", s, 16)
	return pigpio.Handle(v), err
}

var modeNames = map[string]pigpio.Mode{
	"input":  pigpio.ModeInput,
	"output": pigpio.ModeOutput,
}

// parseMode accepts the wire tokens, R, W and 0 to 5, or a mode name.
func parseMode(s string) (pigpio.Mode, error) {
	if m, ok := modeNames[strings.ToLower(s)]; ok {
		return m, nil
	}
	if m, err := pigpio.ParseMode(strings.ToUpper(s)); err == nil {
		return m, nil
	}
	return pigpio.ModeInput, errors.Errorf("invalid mode %q", s)
}

var pullNames = map[string]pigpio.Pull{
	"off":  pigpio.PullOff,
	"down": pigpio.PullDown,
	"up":   pigpio.PullUp,
}

// parsePull accepts the wire tokens, O, D and U, or a pull name.
func parsePull(s string) (pigpio.Pull, error) {
	if p, ok := pullNames[strings.ToLower(s)]; ok {
		return p, nil
	}
	if p, err := pigpio.ParsePull(strings.ToUpper(s)); err == nil {
		return p, nil
	}
	return pigpio.PullOff, errors.Errorf("invalid pull %q", s)
}

func printValue(cmd *cobra.Command, v any) {
	fmt.Fprintln(cmd.OutOrStdout(), v)
}
