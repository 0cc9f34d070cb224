// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

/*
Package pigsim provides a simulated pigpio daemon for testing users of the
pigpio pipe interface.

A simulator ([Sim]) creates the command, result and error pipes in a private
directory and serves the pipe protocol from them, so a pipe client pointed at
[Sim.Paths] behaves as it would against a real daemon.

The simulated GPIOs are configured by adding [Bank]s to [NewSim].  The GPIOs of
each bank are numbered following on from those of the banks before it, and
each bank is available as a [Chip] once the simulator is live.
For inputs, applying a pull using [Chip.SetPull], or related methods, controls
the level a client reads.  For outputs, [Chip.Level] returns the level a
client is driving the GPIO to.

Simulated I2C devices are attached with [WithI2CDevice] and simulated serial
devices with [WithSerialDevice].

The simulator can also misbehave, to test client error handling.
[Sim.InjectResponse] replaces the next response, [Sim.Stall] drops it, and
[Sim.Disconnect] stops the daemon while leaving the pipes in place.

For tests that only require vanilla GPIOs, the [Simpleton] provides a slightly
simpler interface.

Closing the [Sim] stops the daemon and removes the pipes.

# Example Usage

Create a [Simpleton] with 32 GPIOs:

	s, err := pigsim.NewSimpleton(32)
	s.SetPull(5, 1)
	level, err := s.Level(3)

Creating a simulator with two banks, with 32 and 22 GPIOs respectively, some
hogged GPIOs, and an I2C device:

	s, err := pigsim.NewSim(
		pigsim.WithBank(pigsim.NewBank("bank0", 32,
			pigsim.WithNamedLine(17, "LED0"),
			pigsim.WithHoggedLine(2, "piggy", pigsim.HogDirectionOutputLow),
		)),
		pigsim.WithBank(pigsim.NewBank("bank1", 22)),
		pigsim.WithI2CDevice(1, 0x68, map[uint8]byte{0x75: 0x68}),
	)
	b, err := pipe.Open(s.Paths())
	b.IO.Write(17, pigpio.LevelHigh)
	level, err := s.Chips[0].Level(17)
*/
package pigsim
