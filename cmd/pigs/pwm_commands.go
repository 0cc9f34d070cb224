// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/warthog618/go-pigpio"
)

// getOrSet returns a command that reads a PWM setting of a GPIO, or writes it
// if a value is provided.
func getOrSet(ctx *commandContext, use, short string,
	get func(b *pigpio.Board, pin int) (uint, error),
	set func(b *pigpio.Board, pin int, v uint) (uint, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			pin, err := parseGPIO(args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				v, err := get(b, pin)
				if err != nil {
					return err
				}
				printValue(cmd, v)
				return nil
			}
			v, err := parseUint("value", args[1], 32)
			if err != nil {
				return err
			}
			actual, err := set(b, pin, v)
			if err != nil {
				return err
			}
			if actual != v {
				printValue(cmd, actual)
			}
			return nil
		}),
	}
}

func newPWMCommands(ctx *commandContext) []*cobra.Command {
	pwmCmd := getOrSet(ctx, "pwm <gpio> [duty]", "Get or set the PWM duty cycle of a GPIO",
		func(b *pigpio.Board, pin int) (uint, error) { return b.PWM.DutyCycle(pin) },
		func(b *pigpio.Board, pin int, v uint) (uint, error) { return v, b.PWM.SetDutyCycle(pin, v) })

	rangeCmd := getOrSet(ctx, "range <gpio> [range]", "Get or set the PWM range of a GPIO",
		func(b *pigpio.Board, pin int) (uint, error) { return b.PWM.Range(pin) },
		func(b *pigpio.Board, pin int, v uint) (uint, error) {
			// the real range is reported, not the range set
			_, err := b.PWM.SetRange(pin, v)
			return v, err
		})

	freqCmd := getOrSet(ctx, "freq <gpio> [hz]", "Get or set the PWM frequency of a GPIO",
		func(b *pigpio.Board, pin int) (uint, error) { return b.PWM.Frequency(pin) },
		func(b *pigpio.Board, pin int, v uint) (uint, error) { return b.PWM.SetFrequency(pin, v) })

	servoCmd := getOrSet(ctx, "servo <gpio> [width]", "Get or set the servo pulse width of a GPIO",
		func(b *pigpio.Board, pin int) (uint, error) { return b.PWM.ServoPulseWidth(pin) },
		func(b *pigpio.Board, pin int, v uint) (uint, error) { return v, b.PWM.SetServoPulseWidth(pin, v) })

	hwpwmCmd := &cobra.Command{
		Use:   "hwpwm <gpio> <hz> <duty>",
		Short: "Start hardware PWM on a GPIO",
		Long:  "Start hardware PWM on a GPIO, with the duty in millionths.  A frequency of 0 stops it.",
		Args:  cobra.ExactArgs(3),
		RunE: withBoard(ctx, func(cmd *cobra.Command, b *pigpio.Board, args []string) error {
			pin, err := parseGPIO(args[0])
			if err != nil {
				return err
			}
			hz, err := parseUint("frequency", args[1], 32)
			if err != nil {
				return err
			}
			duty, err := parseUint("duty", args[2], 32)
			if err != nil {
				return err
			}
			return b.PWM.SetHardwarePWM(pin, hz, duty)
		}),
	}

	return []*cobra.Command{pwmCmd, rangeCmd, freqCmd, servoCmd, hwpwmCmd}
}
