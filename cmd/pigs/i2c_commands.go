// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/warthog618/go-pigpio"
)

func newI2CCommand(ctx *commandContext) *cobra.Command {
	i2cCmd := &cobra.Command{
		Use:   "i2c",
		Short: "Access I2C devices",
		Long: "Access I2C devices.\n\n" +
			"Handles opened through the pipe backend remain open in the daemon until closed. " +
			"Handles opened through the native backend are closed when the command exits.",
	}

	openCmd := &cobra.Command{
		Use:   "open <bus> <addr> [flags]",
		Short: "Open a device and print its handle",
		Args:  cobra.RangeArgs(2, 3),
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			bus, err := parseUint("bus", args[0], 8)
			if err != nil {
				return err
			}
			addr, err := parseUint("address", args[1], 8)
			if err != nil {
				return err
			}
			var flags uint
			if len(args) == 3 {
				if flags, err = parseUint("flags", args[2], 32); err != nil {
					return err
				}
			}
			h, err := b.I2C.Open(int(bus), uint8(addr), flags)
			if err != nil {
				return err
			}
			printValue(cmd, h)
			return nil
		}),
	}

	closeCmd := &cobra.Command{
		Use:   "close <handle>",
		Short: "Close a device",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			h, err := parseHandle(args[0])
			if err != nil {
				return err
			}
			return b.I2C.Close(h)
		}),
	}

	readCmd := &cobra.Command{
		Use:   "read <handle> <reg>",
		Short: "Read a byte from a device register",
		Args:  cobra.ExactArgs(2),
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			h, err := parseHandle(args[0])
			if err != nil {
				return err
			}
			reg, err := parseUint("register", args[1], 8)
			if err != nil {
				return err
			}
			v, err := b.I2C.ReadByteData(h, uint8(reg))
			if err != nil {
				return err
			}
			printValue(cmd, v)
			return nil
		}),
	}

	writeCmd := &cobra.Command{
		Use:   "write <handle> <reg> <value>",
		Short: "Write a byte to a device register",
		Args:  cobra.ExactArgs(3),
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			h, err := parseHandle(args[0])
			if err != nil {
				return err
			}
			reg, err := parseUint("register", args[1], 8)
			if err != nil {
				return err
			}
			v, err := parseUint("value", args[2], 8)
			if err != nil {
				return err
			}
			return b.I2C.WriteByteData(h, uint8(reg), uint8(v))
		}),
	}

	i2cCmd.AddCommand(openCmd, closeCmd, readCmd, writeCmd)
	return i2cCmd
}
