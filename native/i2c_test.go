// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestI2CIoctlRequests(t *testing.T) {
	// linux/i2c-dev.h
	assert.Equal(t, 0x0703, i2cSlave)
	assert.Equal(t, 0x0720, i2cSMBus)
}

func TestI2CIoctlNotDevice(t *testing.T) {
	p := path.Join(t.TempDir(), "i2c-1")
	require.Nil(t, os.WriteFile(p, nil, 0644))
	fd, err := unix.Open(p, unix.O_RDWR|unix.O_CLOEXEC, 0)
	require.Nil(t, err)
	dev := &i2cDevice{fd: fd, bus: 1, addr: 0x68}
	defer dev.close()

	err = unix.IoctlSetInt(fd, i2cSlave, 0x68)
	assert.ErrorIs(t, err, unix.ENOTTY)

	var data [smbusBlockMax + 2]byte
	err = dev.smbus(smbusRead, 0, smbusByteData, &data)
	assert.ErrorIs(t, err, unix.ENOTTY)
}
