// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pigpio

import "slices"

// PWMFrequencies are the software PWM frequencies available at the default
// 5us sample rate, in descending order.
var PWMFrequencies = []uint{
	8000, 4000, 2000, 1600, 1000, 800, 500, 400, 320,
	250, 200, 160, 100, 80, 50, 40, 20, 10,
}

const (
	// DefaultPWMFrequency is the frequency of a GPIO before it is set.
	DefaultPWMFrequency = 800

	// DefaultPWMRange is the duty cycle range of a GPIO before it is set.
	DefaultPWMRange = 255

	// MinPWMRange and MaxPWMRange bound the duty cycle range.
	MinPWMRange = 25
	MaxPWMRange = 40000

	// MinServoPulseWidth and MaxServoPulseWidth bound non-zero servo pulse
	// widths, in microseconds.
	MinServoPulseWidth = 500
	MaxServoPulseWidth = 2500

	// MaxHardwarePWMDuty is the hardware PWM duty cycle that is fully on.
	MaxHardwarePWMDuty = 1000000

	// MaxWatchdog is the longest watchdog timeout, in milliseconds.
	MaxWatchdog = 60000

	// Version is the pigpio release whose behaviour the backends provide.
	Version = 79
)

// ClosestPWMFrequency returns the available frequency closest to hz.
//
// Ties go to the higher frequency.
func ClosestPWMFrequency(hz uint) uint {
	best := PWMFrequencies[0]
	for _, f := range PWMFrequencies[1:] {
		if absDiff(f, hz) < absDiff(best, hz) {
			best = f
		}
	}
	return best
}

func absDiff(a, b uint) uint {
	if a > b {
		return a - b
	}
	return b - a
}

// PWMRealRange returns the number of duty cycle steps available at the
// frequency.
func PWMRealRange(freq uint) uint {
	if freq == 0 {
		return 0
	}
	return 200000 / freq
}

var (
	hardwarePWMPins   = []int{12, 13, 18, 19, 40, 41, 45, 52, 53}
	hardwareClockPins = []int{4, 5, 6, 20, 21, 32, 34, 42, 43, 44}
	serialBauds       = []uint{
		50, 75, 110, 134, 150, 200, 300, 600, 1200, 1800, 2400, 4800,
		9600, 19200, 38400, 57600, 115200, 230400,
	}
)

// IsHardwarePWMPin returns true if the GPIO can output hardware PWM.
func IsHardwarePWMPin(pin int) bool {
	return slices.Contains(hardwarePWMPins, pin)
}

// IsHardwareClockPin returns true if the GPIO can output a hardware clock.
func IsHardwareClockPin(pin int) bool {
	return slices.Contains(hardwareClockPins, pin)
}

// IsSerialBaud returns true if the baud rate is supported for serial devices.
func IsSerialBaud(baud uint) bool {
	return slices.Contains(serialBauds, baud)
}
