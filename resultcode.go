// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pigpio

import "fmt"

// ResultCode is a result returned by pigpio.
//
// Zero and positive values indicate success, or are the value being
// returned.  Negative values identify a specific failure.
//
// A ResultCode is an error, so negative codes returned by the backends can be
// matched using errors.Is, e.g. errors.Is(err, pigpio.BadHandle).
type ResultCode int

const (
	OK                ResultCode = 0
	InitFailed        ResultCode = -1
	BadUserGPIO       ResultCode = -2
	BadGPIO           ResultCode = -3
	BadMode           ResultCode = -4
	BadLevel          ResultCode = -5
	BadPull           ResultCode = -6
	BadPulseWidth     ResultCode = -7
	BadDutyCycle      ResultCode = -8
	BadTimer          ResultCode = -9
	BadMillis         ResultCode = -10
	BadTimeType       ResultCode = -11
	BadSeconds        ResultCode = -12
	BadMicros         ResultCode = -13
	TimerFailed       ResultCode = -14
	BadWatchdog       ResultCode = -15
	NoAlertFunc       ResultCode = -16
	BadClockPeriph    ResultCode = -17
	BadClockSource    ResultCode = -18
	BadClockMicros    ResultCode = -19
	BadBufferMillis   ResultCode = -20
	BadDutyRange      ResultCode = -21
	BadSignal         ResultCode = -22
	BadPathname       ResultCode = -23
	NoHandle          ResultCode = -24
	BadHandle         ResultCode = -25
	BadInterfaceFlags ResultCode = -26
	BadChannel        ResultCode = -27
	BadSocketPort     ResultCode = -28
	BadFifoCommand    ResultCode = -29
	BadSecondaryChan  ResultCode = -30
	NotInitialised    ResultCode = -31
	Initialised       ResultCode = -32
	BadWaveMode       ResultCode = -33
	BadConfigInternal ResultCode = -34
	BadWaveBaud       ResultCode = -35
	TooManyPulses     ResultCode = -36
	TooManyChars      ResultCode = -37
	NotSerialGPIO     ResultCode = -38
	BadSerialStruct   ResultCode = -39
	BadSerialBuffer   ResultCode = -40
	NotPermitted      ResultCode = -41
	SomePermitted     ResultCode = -42
	BadPulseLength    ResultCode = -46
	GPIOInUse         ResultCode = -50
	BadSerialCount    ResultCode = -51
	BadParamNum       ResultCode = -52
	NoMemory          ResultCode = -58
	TooManyParams     ResultCode = -61
	BadMicsDelay      ResultCode = -64
	BadMilsDelay      ResultCode = -65
	BadWaveID         ResultCode = -66
	TooManyCBs        ResultCode = -67
	TooManyOOL        ResultCode = -68
	EmptyWaveform     ResultCode = -69
	NoWaveformID      ResultCode = -70
	I2COpenFailed     ResultCode = -71
	SerialOpenFailed  ResultCode = -72
	SPIOpenFailed     ResultCode = -73
	BadI2CBus         ResultCode = -74
	BadI2CAddr        ResultCode = -75
	BadSPIChannel     ResultCode = -76
	BadFlags          ResultCode = -77
	BadSPISpeed       ResultCode = -78
	BadSerialDevice   ResultCode = -79
	BadSerialSpeed    ResultCode = -80
	BadParam          ResultCode = -81
	I2CWriteFailed    ResultCode = -82
	I2CReadFailed     ResultCode = -83
	BadSPICount       ResultCode = -84
	SerialWriteFailed ResultCode = -85
	SerialReadFailed  ResultCode = -86
	SerialReadNoData  ResultCode = -87
	UnknownCommand    ResultCode = -88
	SPIXferFailed     ResultCode = -89
	NotPWMGPIO        ResultCode = -92
	NotServoGPIO      ResultCode = -93
	NotHClkGPIO       ResultCode = -94
	NotHPWMGPIO       ResultCode = -95
	BadHPWMFreq       ResultCode = -96
	BadHPWMDuty       ResultCode = -97
	BadHClkFreq       ResultCode = -98
	BadHClkPass       ResultCode = -99
	HPWMIllegal       ResultCode = -100
	BadDataBits       ResultCode = -101
	BadStopBits       ResultCode = -102
	MsgTooBig         ResultCode = -103
)

var resultNames = map[ResultCode]string{
	OK:                "PI_OK",
	InitFailed:        "PI_INIT_FAILED",
	BadUserGPIO:       "PI_BAD_USER_GPIO",
	BadGPIO:           "PI_BAD_GPIO",
	BadMode:           "PI_BAD_MODE",
	BadLevel:          "PI_BAD_LEVEL",
	BadPull:           "PI_BAD_PUD",
	BadPulseWidth:     "PI_BAD_PULSEWIDTH",
	BadDutyCycle:      "PI_BAD_DUTYCYCLE",
	BadTimer:          "PI_BAD_TIMER",
	BadMillis:         "PI_BAD_MS",
	BadTimeType:       "PI_BAD_TIMETYPE",
	BadSeconds:        "PI_BAD_SECONDS",
	BadMicros:         "PI_BAD_MICROS",
	TimerFailed:       "PI_TIMER_FAILED",
	BadWatchdog:       "PI_BAD_WDOG_TIMEOUT",
	NoAlertFunc:       "PI_NO_ALERT_FUNC",
	BadClockPeriph:    "PI_BAD_CLK_PERIPH",
	BadClockSource:    "PI_BAD_CLK_SOURCE",
	BadClockMicros:    "PI_BAD_CLK_MICROS",
	BadBufferMillis:   "PI_BAD_BUF_MILLIS",
	BadDutyRange:      "PI_BAD_DUTYRANGE",
	BadSignal:         "PI_BAD_SIGNUM",
	BadPathname:       "PI_BAD_PATHNAME",
	NoHandle:          "PI_NO_HANDLE",
	BadHandle:         "PI_BAD_HANDLE",
	BadInterfaceFlags: "PI_BAD_IF_FLAGS",
	BadChannel:        "PI_BAD_CHANNEL",
	BadSocketPort:     "PI_BAD_SOCKET_PORT",
	BadFifoCommand:    "PI_BAD_FIFO_COMMAND",
	BadSecondaryChan:  "PI_BAD_SECO_CHANNEL",
	NotInitialised:    "PI_NOT_INITIALISED",
	Initialised:       "PI_INITIALISED",
	BadWaveMode:       "PI_BAD_WAVE_MODE",
	BadConfigInternal: "PI_BAD_CFG_INTERNAL",
	BadWaveBaud:       "PI_BAD_WAVE_BAUD",
	TooManyPulses:     "PI_TOO_MANY_PULSES",
	TooManyChars:      "PI_TOO_MANY_CHARS",
	NotSerialGPIO:     "PI_NOT_SERIAL_GPIO",
	BadSerialStruct:   "PI_BAD_SERIAL_STRUC",
	BadSerialBuffer:   "PI_BAD_SERIAL_BUF",
	NotPermitted:      "PI_NOT_PERMITTED",
	SomePermitted:     "PI_SOME_PERMITTED",
	BadPulseLength:    "PI_BAD_PULSELEN",
	GPIOInUse:         "PI_GPIO_IN_USE",
	BadSerialCount:    "PI_BAD_SERIAL_COUNT",
	BadParamNum:       "PI_BAD_PARAM_NUM",
	NoMemory:          "PI_NO_MEMORY",
	TooManyParams:     "PI_TOO_MANY_PARAM",
	BadMicsDelay:      "PI_BAD_MICS_DELAY",
	BadMilsDelay:      "PI_BAD_MILS_DELAY",
	BadWaveID:         "PI_BAD_WAVE_ID",
	TooManyCBs:        "PI_TOO_MANY_CBS",
	TooManyOOL:        "PI_TOO_MANY_OOL",
	EmptyWaveform:     "PI_EMPTY_WAVEFORM",
	NoWaveformID:      "PI_NO_WAVEFORM_ID",
	I2COpenFailed:     "PI_I2C_OPEN_FAILED",
	SerialOpenFailed:  "PI_SER_OPEN_FAILED",
	SPIOpenFailed:     "PI_SPI_OPEN_FAILED",
	BadI2CBus:         "PI_BAD_I2C_BUS",
	BadI2CAddr:        "PI_BAD_I2C_ADDR",
	BadSPIChannel:     "PI_BAD_SPI_CHANNEL",
	BadFlags:          "PI_BAD_FLAGS",
	BadSPISpeed:       "PI_BAD_SPI_SPEED",
	BadSerialDevice:   "PI_BAD_SER_DEVICE",
	BadSerialSpeed:    "PI_BAD_SER_SPEED",
	BadParam:          "PI_BAD_PARAM",
	I2CWriteFailed:    "PI_I2C_WRITE_FAILED",
	I2CReadFailed:     "PI_I2C_READ_FAILED",
	BadSPICount:       "PI_BAD_SPI_COUNT",
	SerialWriteFailed: "PI_SER_WRITE_FAILED",
	SerialReadFailed:  "PI_SER_READ_FAILED",
	SerialReadNoData:  "PI_SER_READ_NO_DATA",
	UnknownCommand:    "PI_UNKNOWN_COMMAND",
	SPIXferFailed:     "PI_SPI_XFER_FAILED",
	NotPWMGPIO:        "PI_NOT_PWM_GPIO",
	NotServoGPIO:      "PI_NOT_SERVO_GPIO",
	NotHClkGPIO:       "PI_NOT_HCLK_GPIO",
	NotHPWMGPIO:       "PI_NOT_HPWM_GPIO",
	BadHPWMFreq:       "PI_BAD_HPWM_FREQ",
	BadHPWMDuty:       "PI_BAD_HPWM_DUTY",
	BadHClkFreq:       "PI_BAD_HCLK_FREQ",
	BadHClkPass:       "PI_BAD_HCLK_PASS",
	HPWMIllegal:       "PI_HPWM_ILLEGAL",
	BadDataBits:       "PI_BAD_DATABITS",
	BadStopBits:       "PI_BAD_STOPBITS",
	MsgTooBig:         "PI_MSG_TOOBIG",
}

// Name returns the symbolic pigpio name of the code, e.g. "PI_BAD_HANDLE".
//
// Codes without a known name return the empty string.
func (c ResultCode) Name() string {
	return resultNames[c]
}

// IsError returns true for negative codes.
func (c ResultCode) IsError() bool {
	return c < 0
}

func (c ResultCode) Error() string {
	if n, ok := resultNames[c]; ok {
		return fmt.Sprintf("%s (%d)", n, int(c))
	}
	return fmt.Sprintf("pigpio result %d", int(c))
}

// Err returns the code as an error if it is negative, and nil otherwise.
func (c ResultCode) Err() error {
	if c < 0 {
		return c
	}
	return nil
}
