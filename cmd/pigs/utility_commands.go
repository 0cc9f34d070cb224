// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/warthog618/go-pigpio"
)

func newUtilityCommands(ctx *commandContext) []*cobra.Command {
	value := func(use, short string, fn func(b *pigpio.Board) (any, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
				v, err := fn(b)
				if err != nil {
					return err
				}
				printValue(cmd, v)
				return nil
			}),
		}
	}

	hwverCmd := value("hwver", "Print the hardware revision",
		func(b *pigpio.Board) (any, error) {
			v, err := b.Utilities.HardwareRevision()
			return fmt.Sprintf("%x", v), err
		})
	versionCmd := value("version", "Print the pigpio version",
		func(b *pigpio.Board) (any, error) { return b.Utilities.Version() })
	tickCmd := value("tick", "Print the current microsecond tick",
		func(b *pigpio.Board) (any, error) { return b.Utilities.Tick() })
	backendCmd := value("backend", "Print the name of the configured backend",
		func(b *pigpio.Board) (any, error) { return b.Backend, nil })

	errorCmd := &cobra.Command{
		Use:   "error <code>",
		Short: "Describe a pigpio result code",
		Long:  "Describe a pigpio result code.  Negative codes must follow --, e.g. pigs error -- -25.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Errorf("invalid code %q", args[0])
			}
			printValue(cmd, pigpio.ResultCode(v).Error())
			return nil
		},
	}

	return []*cobra.Command{hwverCmd, versionCmd, tickCmd, backendCmd, errorCmd}
}
