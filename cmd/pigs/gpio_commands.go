// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/warthog618/go-pigpio"
)

func newGPIOCommands(ctx *commandContext) []*cobra.Command {
	modeCmd := &cobra.Command{
		Use:   "mode <gpio> [mode]",
		Short: "Get or set the mode of a GPIO",
		Long:  "Get the mode of a GPIO, or set it to R, W, 0-5, input or output.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			pin, err := parseGPIO(args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				m, err := b.IO.Mode(pin)
				if err != nil {
					return err
				}
				printValue(cmd, m.Token())
				return nil
			}
			m, err := parseMode(args[1])
			if err != nil {
				return err
			}
			return b.IO.SetMode(pin, m)
		}),
	}

	pullCmd := &cobra.Command{
		Use:   "pull <gpio> <pull>",
		Short: "Set the pull of a GPIO",
		Long:  "Set the pull of a GPIO to O, D, U, off, down or up.",
		Args:  cobra.ExactArgs(2),
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			pin, err := parseGPIO(args[0])
			if err != nil {
				return err
			}
			p, err := parsePull(args[1])
			if err != nil {
				return err
			}
			return b.IO.SetPull(pin, p)
		}),
	}

	readCmd := &cobra.Command{
		Use:   "read <gpio>",
		Short: "Read the level of a GPIO",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			pin, err := parseGPIO(args[0])
			if err != nil {
				return err
			}
			v, err := b.IO.Read(pin)
			if err != nil {
				return err
			}
			printValue(cmd, v.Token())
			return nil
		}),
	}

	writeCmd := &cobra.Command{
		Use:   "write <gpio> <level>",
		Short: "Drive a GPIO to a level",
		Args:  cobra.ExactArgs(2),
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			pin, err := parseGPIO(args[0])
			if err != nil {
				return err
			}
			v, err := parseUint("level", args[1], 8)
			if err != nil {
				return err
			}
			l, err := pigpio.ParseLevel(int(v))
			if err != nil {
				return err
			}
			return b.IO.Write(pin, l)
		}),
	}

	triggerCmd := &cobra.Command{
		Use:   "trigger <gpio> <micros> <level>",
		Short: "Send a pulse of the level on a GPIO",
		Args:  cobra.ExactArgs(3),
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			pin, err := parseGPIO(args[0])
			if err != nil {
				return err
			}
			us, err := parseUint("pulse length", args[1], 32)
			if err != nil {
				return err
			}
			v, err := parseUint("level", args[2], 8)
			if err != nil {
				return err
			}
			l, err := pigpio.ParseLevel(int(v))
			if err != nil {
				return err
			}
			return b.IO.Trigger(pin, us, l)
		}),
	}

	bankCmd := &cobra.Command{
		Use:   "bank",
		Short: "Read the levels of GPIOs 0 to 31",
		Args:  cobra.NoArgs,
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			v, err := b.IO.ReadBank()
			if err != nil {
				return err
			}
			printValue(cmd, v)
			return nil
		}),
	}

	var watchFor time.Duration
	watchCmd := &cobra.Command{
		Use:   "watch <gpio>",
		Short: "Print the level changes on a GPIO",
		Long:  "Print the level changes on a GPIO as they are reported, until the duration expires or the command is interrupted.",
		Args:  cobra.ExactArgs(1),
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			pin, err := parseGPIO(args[0])
			if err != nil {
				return err
			}
			changes := make(chan string, 64)
			err = b.IO.SetAlertFunc(pin, func(pin int, level pigpio.Level, tick uint32) {
				select {
				case changes <- formatAlert(pin, level, tick):
				default:
				}
			})
			if err != nil {
				return err
			}
			defer b.IO.SetAlertFunc(pin, nil)
			var expired <-chan time.Time
			if watchFor > 0 {
				expired = time.After(watchFor)
			}
			for {
				select {
				case c := <-changes:
					printValue(cmd, c)
				case <-expired:
					return nil
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
			}
		}),
	}
	watchCmd.Flags().DurationVar(&watchFor, "for", 0, "Stop watching after this long")

	return []*cobra.Command{modeCmd, pullCmd, readCmd, writeCmd, triggerCmd, bankCmd, watchCmd}
}

func formatAlert(pin int, level pigpio.Level, tick uint32) string {
	token := level.Token()
	if level == pigpio.LevelTimeout {
		token = "timeout"
	}
	return fmt.Sprintf("%d %s %d", pin, token, tick)
}
