// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package pigsim

import (
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/warthog618/go-pigpio/pipe"
)

// Sim provides the interface to a simulated pigpio daemon.
//
// Each simulated chip is available through Chips, in the same order the banks
// were added to NewSim.
type Sim struct {
	// The name of the simulator, which is also the name of the directory
	// containing its pipes.
	//
	// This is not something the user generally needs to be concerned with,
	// but is provided to assist with debugging.
	Name string

	// The details of the chips being simulated.
	Chips []Chip

	// Path to the directory containing the pipes.
	dir string

	// Lock preventing other sims from using the same directory.
	lock *flock.Flock

	// The daemon serving the pipes.
	d *daemon
}

// NewSim contstructs a Sim based on the provided options.
//
// The available options are [WithName], [WithDir], [WithBank],
// [WithI2CDevice], [WithSerialDevice], [WithRevision] and [WithLogger].
//
// Providing a WithName is optional, and is only necessary in rare cases.
// If a name is provided using WithName then that name must uniquely identify
// the sim within its directory.
// If no name is provided then a unique name is automatically generated.
//
// At least one WithBank option must be provided.
func NewSim(options ...NewSimOption) (*Sim, error) {
	b := builder{}
	for _, o := range options {
		o.applySimOption(&b)
	}
	return b.live()
}

// Paths returns the paths of the pipes served by the Sim.
func (s *Sim) Paths() pipe.Paths {
	return pipe.Paths{
		Command: path.Join(s.dir, "pigpio"),
		Result:  path.Join(s.dir, "pigout"),
		Error:   path.Join(s.dir, "pigerr"),
	}
}

// Dir returns the directory containing the pipes.
func (s *Sim) Dir() string {
	return s.dir
}

// Close stops the daemon and removes the pipes.
func (s *Sim) Close() {
	if s.d != nil {
		s.d.stop()
		s.d = nil
	}
	s.cleanupPipes()
	s.Chips = nil
}

// Disconnect stops the daemon but leaves the pipes in place, so connected
// clients see the daemon disappear.
func (s *Sim) Disconnect() {
	if s.d != nil {
		s.d.stop()
	}
}

// InjectResponse replaces the response to the next command with raw.
func (s *Sim) InjectResponse(raw string) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	s.d.injected = append(s.d.injected, raw)
}

// Stall prevents the daemon responding to the next command.
func (s *Sim) Stall() {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	s.d.stalls++
}

// SerialWritten returns the data clients have written to the serial device.
func (s *Sim) SerialWritten(name string) []byte {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if dev, ok := s.d.serial[name]; ok {
		return append([]byte(nil), dev.tx...)
	}
	return nil
}

// I2CRegister returns the current content of a register of a simulated I2C
// device.
func (s *Sim) I2CRegister(bus int, addr uint8, reg uint8) (byte, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	dev := s.d.i2cDevice(bus, addr)
	if dev == nil {
		return 0, errors.Errorf("no device at bus %d address 0x%02x", bus, addr)
	}
	return dev.regs[reg], nil
}

// cleanupPipes removes the pipes and the sim directory.
func (s *Sim) cleanupPipes() error {
	for _, p := range []string{"pigpio", "pigout", "pigerr"} {
		os.Remove(path.Join(s.dir, p))
	}
	if s.lock != nil {
		s.lock.Unlock()
		os.Remove(s.lock.Path())
		s.lock = nil
	}
	return os.Remove(s.dir)
}

// setupPipes creates the sim directory and the pipes within it.
func (s *Sim) setupPipes() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	s.lock = flock.New(path.Join(s.dir, "lock"))
	locked, err := s.lock.TryLock()
	if err != nil {
		return err
	}
	if !locked {
		s.lock = nil
		return errors.Errorf("sim with name '%s' already exists", path.Base(s.dir))
	}
	for _, p := range []string{"pigpio", "pigout", "pigerr"} {
		fp := path.Join(s.dir, p)
		// left over by a sim that was not closed
		os.Remove(fp)
		if err := unix.Mkfifo(fp, 0666); err != nil {
			return errors.Wrapf(err, "mkfifo %s", fp)
		}
	}
	return nil
}

// builder contains all the information required to build a sim.
type builder struct {
	// The name for the simulator.
	//
	// If empty when live is called then a unique name is generated.
	name string // optional

	// The parent directory for the sim directory.
	dir string // optional

	// The details of the banks to be simulated.
	//
	// Each bank becomes a chip when the simulator goes live.
	banks []Bank

	i2c      []I2CDevice
	serial   []SerialDevice
	revision uint
	logger   *slog.Logger
}

// live creates the pipes for the sim and starts the daemon serving them.
func (b *builder) live() (*Sim, error) {
	if len(b.banks) == 0 {
		return nil, errors.New("no banks defined")
	}
	if len(b.name) == 0 {
		b.name = uniqueName()
	}
	if len(b.dir) == 0 {
		b.dir = path.Join(os.TempDir(), "pigsim")
	}
	s := Sim{Name: b.name, dir: path.Join(b.dir, b.name)}
	if err := s.setupPipes(); err != nil {
		if s.lock != nil {
			s.cleanupPipes()
		}
		return nil, err
	}
	numPins := 0
	for _, k := range b.banks {
		s.Chips = append(s.Chips, Chip{base: numPins, cfg: k})
		numPins += k.NumLines
	}
	d, err := newDaemon(s.Paths(), numPins, b)
	if err != nil {
		s.Close()
		return nil, err
	}
	for i := range s.Chips {
		c := &s.Chips[i]
		c.d = d
		d.applyHogs(c)
	}
	s.d = d
	d.start()
	return &s, nil
}

// uniqueName returns a name for the sim that is very likely to be unique, using the
// appname, PID and a random suffix.
//
// The only reason it may clash with an existing sim is if the user goes out of
// their way to explicitly create a sim with the same name.
func uniqueName() string {
	return fmt.Sprintf("%s-p%d-%s", appName(), os.Getpid(), uuid.NewString()[:8])
}

// appName returns the name of the running execuable.
//
// Falls back to "pigsim" if that can't be determined for some reason.
func appName() string {
	str, err := os.Executable()
	if err != nil {
		return "pigsim"
	}
	return path.Base(str)
}
