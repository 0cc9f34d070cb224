// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

/*
Package pigpio defines the contract for controlling Raspberry Pi GPIO, PWM,
I2C and serial hardware in the manner of the [pigpio] library.

The contract is split by subsystem into the [IO], [PWM], [I2C], [Serial],
[Threads], [Utilities] and [Waves] interfaces, collected in a [Board].
Two backends implement the full set:

  - package pipe talks to a running pigpiod over its three named pipes
    (/dev/pigpio, /dev/pigout and /dev/pigerr) using the line protocol.
  - package native drives the hardware in-process through the Linux GPIO
    character device, i2c-dev and tty devices.

The backend is chosen once at startup, by package board, and consumers depend
only on the interfaces.

Not every operation can be expressed by every backend.  The pipe protocol has
no asynchronous channel, so alert callbacks, threads, bit-mask bank IO and wave
chaining return an error that wraps [ErrNotSupported]:

	err := b.IO.SetAlertFunc(17, fn)
	if errors.Is(err, pigpio.ErrNotSupported) {
		// poll instead
	}

Negative results from the daemon are returned as a [ResultCode], which is
itself an error, so specific failures can be tested for directly:

	err := b.I2C.Close(h)
	if errors.Is(err, pigpio.BadHandle) {
		// already closed
	}

Failures of the transport itself, [ErrTransportDisconnected],
[ErrProtocolDesync] and [ErrTimeout], are fatal to the pipe backend and it
must be reopened.

[pigpio]: https://abyz.me.uk/rpi/pigpio/
*/
package pigpio
