// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package native

import (
	"encoding/binary"
	"strconv"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/warthog618/go-pigpio"
)

// SMBus transfer types, from linux/i2c.h.
const (
	smbusWrite = 0
	smbusRead  = 1

	smbusQuick          = 0
	smbusByte           = 1
	smbusByteData       = 2
	smbusWordData       = 3
	smbusI2CBlockBroken = 6
	smbusI2CBlockData   = 8

	smbusBlockMax = 32
	maxDeviceRead = 8192
	maxI2CAddr    = 0x7f
)

// i2c-dev ioctl requests, from linux/i2c-dev.h.
const (
	i2cSlave = 0x0703
	i2cSMBus = 0x0720
)

// smbusIoctlData mirrors struct i2c_smbus_ioctl_data.
type smbusIoctlData struct {
	readWrite uint8
	command   uint8
	size      uint32
	data      *[smbusBlockMax + 2]byte
}

// i2cDevice is an open i2c-dev file bound to a device address.
type i2cDevice struct {
	fd   int
	bus  int
	addr uint8
}

func (d *i2cDevice) close() error {
	return unix.Close(d.fd)
}

func (d *i2cDevice) smbus(rw uint8, cmd uint8, size uint32, data *[smbusBlockMax + 2]byte) error {
	args := smbusIoctlData{readWrite: rw, command: cmd, size: size, data: data}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), i2cSMBus,
		uintptr(unsafe.Pointer(&args)))
	if errno != 0 {
		return errno
	}
	return nil
}

// I2C accesses I2C devices through the kernel i2c-dev interface.
type I2C struct {
	h *host
}

// Open opens the bus device and binds the handle to the address.
//
// No flags are defined, so flags must be zero.
func (c *I2C) Open(bus int, addr uint8, flags uint) (pigpio.Handle, error) {
	if bus < 0 {
		return -1, pigpio.BadI2CBus
	}
	if addr > maxI2CAddr {
		return -1, pigpio.BadI2CAddr
	}
	if flags != 0 {
		return -1, pigpio.BadFlags
	}
	path := c.h.cfg.i2cPrefix + strconv.Itoa(bus)
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		c.h.logger.Debug("i2c open failed", "path", path, "error", err)
		return -1, pigpio.I2COpenFailed
	}
	if err := unix.IoctlSetInt(fd, i2cSlave, int(addr)); err != nil {
		unix.Close(fd)
		c.h.logger.Debug("i2c bind failed", "path", path, "addr", addr, "error", err)
		return -1, pigpio.I2COpenFailed
	}
	dev := &i2cDevice{fd: fd, bus: bus, addr: addr}
	h, err := c.h.i2c.add(dev)
	if err != nil {
		dev.close()
		return -1, err
	}
	return h, nil
}

func (c *I2C) Close(h pigpio.Handle) error {
	dev, err := c.h.i2c.remove(h)
	if err != nil {
		return err
	}
	return dev.close()
}

// transfer performs an SMBus transfer on the device, mapping failures to the
// read or write failure code.
func (c *I2C) transfer(h pigpio.Handle, rw uint8, cmd uint8, size uint32,
	data *[smbusBlockMax + 2]byte) error {
	dev, err := c.h.i2c.get(h)
	if err != nil {
		return err
	}
	if err := dev.smbus(rw, cmd, size, data); err != nil {
		c.h.logger.Debug("smbus transfer failed", "bus", dev.bus, "addr", dev.addr, "error", err)
		if rw == smbusRead {
			return pigpio.I2CReadFailed
		}
		return pigpio.I2CWriteFailed
	}
	return nil
}

// WriteQuick sends the bit as the read/write flag of an address-only
// transfer.
func (c *I2C) WriteQuick(h pigpio.Handle, bit uint8) error {
	if bit > 1 {
		return pigpio.BadParam
	}
	return c.transfer(h, bit, 0, smbusQuick, nil)
}

// ReceiveByte reads a byte from the device without addressing a register.
func (c *I2C) ReceiveByte(h pigpio.Handle) (uint8, error) {
	var data [smbusBlockMax + 2]byte
	if err := c.transfer(h, smbusRead, 0, smbusByte, &data); err != nil {
		return 0, err
	}
	return data[0], nil
}

// SendByte writes a byte to the device without addressing a register.
func (c *I2C) SendByte(h pigpio.Handle, value uint8) error {
	return c.transfer(h, smbusWrite, value, smbusByte, nil)
}

func (c *I2C) ReadByteData(h pigpio.Handle, reg uint8) (uint8, error) {
	var data [smbusBlockMax + 2]byte
	if err := c.transfer(h, smbusRead, reg, smbusByteData, &data); err != nil {
		return 0, err
	}
	return data[0], nil
}

func (c *I2C) WriteByteData(h pigpio.Handle, reg uint8, value uint8) error {
	var data [smbusBlockMax + 2]byte
	data[0] = value
	return c.transfer(h, smbusWrite, reg, smbusByteData, &data)
}

// ReadWordData reads a little-endian word, as SMBus defines.
func (c *I2C) ReadWordData(h pigpio.Handle, reg uint8) (uint16, error) {
	var data [smbusBlockMax + 2]byte
	if err := c.transfer(h, smbusRead, reg, smbusWordData, &data); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(data[:]), nil
}

func (c *I2C) WriteWordData(h pigpio.Handle, reg uint8, value uint16) error {
	var data [smbusBlockMax + 2]byte
	binary.LittleEndian.PutUint16(data[:], value)
	return c.transfer(h, smbusWrite, reg, smbusWordData, &data)
}

// ReadDevice reads directly from the device, without a register.
func (c *I2C) ReadDevice(h pigpio.Handle, count int) ([]byte, error) {
	if count < 1 || count > maxDeviceRead {
		return nil, pigpio.BadParam
	}
	dev, err := c.h.i2c.get(h)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, count)
	n, err := unix.Read(dev.fd, buf)
	if err != nil || n != count {
		c.h.logger.Debug("i2c read failed", "bus", dev.bus, "addr", dev.addr, "n", n, "error", err)
		return nil, pigpio.I2CReadFailed
	}
	return buf, nil
}

func (c *I2C) WriteDevice(h pigpio.Handle, data []byte) error {
	if len(data) == 0 {
		return pigpio.BadParam
	}
	dev, err := c.h.i2c.get(h)
	if err != nil {
		return err
	}
	n, err := unix.Write(dev.fd, data)
	if err != nil || n != len(data) {
		c.h.logger.Debug("i2c write failed", "bus", dev.bus, "addr", dev.addr, "n", n, "error", err)
		return pigpio.I2CWriteFailed
	}
	return nil
}

// ReadBlockData reads count bytes starting at the register, as an I2C block
// read.
func (c *I2C) ReadBlockData(h pigpio.Handle, reg uint8, count int) ([]byte, error) {
	if count < 1 || count > smbusBlockMax {
		return nil, pigpio.BadParam
	}
	var data [smbusBlockMax + 2]byte
	data[0] = uint8(count)
	if err := c.transfer(h, smbusRead, reg, smbusI2CBlockData, &data); err != nil {
		return nil, err
	}
	n := min(int(data[0]), count)
	return append([]byte{}, data[1:1+n]...), nil
}

// WriteBlockData writes the data starting at the register, as an I2C block
// write.
func (c *I2C) WriteBlockData(h pigpio.Handle, reg uint8, data []byte) error {
	if len(data) < 1 || len(data) > smbusBlockMax {
		return pigpio.BadParam
	}
	var block [smbusBlockMax + 2]byte
	block[0] = uint8(len(data))
	copy(block[1:], data)
	return c.transfer(h, smbusWrite, reg, smbusI2CBlockBroken, &block)
}
