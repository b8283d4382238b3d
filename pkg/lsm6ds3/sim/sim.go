// Package sim emulates the LSM6DS3 register file behind all three bus framings
// the driver speaks: 4-wire SPI with explicit chip select, combined I2C
// transactions and memory-addressed register access.
//
// The emulation covers what the polling driver touches: WHO_AM_I, the control
// registers with software reset, STATUS_REG flags that clear when a channel's
// output is read, address auto-increment and little-endian output registers.
package sim

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
)

// Errors reported for protocol violations a real sensor would misbehave on.
var (
	ErrCSNotAsserted = errors.New("transfer without chip select asserted")
	ErrNoAddress     = errors.New("data phase before address byte")
	ErrWrongSlave    = errors.New("no device at i2c address")
	ErrWrongPhase    = errors.New("transfer direction does not match address byte")
)

// Op names one physical bus operation seen by the simulator.
type Op string

const (
	OpCSAssert  Op = "cs-assert"
	OpCSRelease Op = "cs-release"
	OpTx        Op = "tx"
	OpRx        Op = "rx"
)

// Event is one entry of the transfer log.
type Event struct {
	Op   Op
	Data []byte
}

// FaultFunc may fail a register access before it is applied. n counts accesses
// to reg with direction dir, starting at 1.
type FaultFunc func(dir lsm6ds3.Direction, reg lsm6ds3.Register, n int) error

// Sensor is a simulated LSM6DS3.
type Sensor struct {
	mu sync.Mutex

	regs   [0x80]byte
	whoAmI byte
	addr   uint16

	fault  FaultFunc
	counts map[accessKey]int

	// SPI state
	csAsserted bool
	spiAddr    *byte
	spiRead    bool
	csAsserts  int

	// auto-generated data, see SetAutoData
	auto   bool
	autoXL [3]int16
	autoG  [3]int16
	autoT  int16

	log []Event
}

type accessKey struct {
	dir lsm6ds3.Direction
	reg lsm6ds3.Register
}

// New returns a powered-up sensor answering at lsm6ds3.I2CAddrLow.
func New() *Sensor {
	s := &Sensor{
		whoAmI: lsm6ds3.DeviceID,
		addr:   lsm6ds3.I2CAddrLow,
		counts: make(map[accessKey]int),
	}
	s.powerOn()
	return s
}

func (s *Sensor) powerOn() {
	clear(s.regs[:])
	s.regs[lsm6ds3.RegWhoAmI] = s.whoAmI
	s.regs[lsm6ds3.RegCtrl3C] = lsm6ds3.Ctrl3IFIncbit
}

// SetWhoAmI changes the identity the sensor reports.
func (s *Sensor) SetWhoAmI(id byte) {
	s.mu.Lock()
	s.whoAmI = id
	s.regs[lsm6ds3.RegWhoAmI] = id
	s.mu.Unlock()
}

// SetI2CAddr changes the slave address the sensor answers to.
func (s *Sensor) SetI2CAddr(addr uint16) {
	s.mu.Lock()
	s.addr = addr
	s.mu.Unlock()
}

// SetFault installs fn to fail selected register accesses. nil removes it.
func (s *Sensor) SetFault(fn FaultFunc) {
	s.mu.Lock()
	s.fault = fn
	s.mu.Unlock()
}

// Register returns the current value of reg.
func (s *Sensor) Register(reg lsm6ds3.Register) byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[reg]
}

// Poke sets reg without any side effects.
func (s *Sensor) Poke(reg lsm6ds3.Register, v byte) {
	s.mu.Lock()
	s.regs[reg] = v
	s.mu.Unlock()
}

func putAxes(regs []byte, v [3]int16) {
	for i, a := range v {
		regs[2*i] = byte(uint16(a))
		regs[2*i+1] = byte(uint16(a) >> 8)
	}
}

// SetAccel latches a new accelerometer sample and raises XLDA.
func (s *Sensor) SetAccel(x, y, z int16) {
	s.mu.Lock()
	putAxes(s.regs[lsm6ds3.RegOutXLXL:], [3]int16{x, y, z})
	s.regs[lsm6ds3.RegStatus] |= lsm6ds3.StatusXLDAbit
	s.mu.Unlock()
}

// SetGyro latches a new gyroscope sample and raises GDA.
func (s *Sensor) SetGyro(x, y, z int16) {
	s.mu.Lock()
	putAxes(s.regs[lsm6ds3.RegOutXLG:], [3]int16{x, y, z})
	s.regs[lsm6ds3.RegStatus] |= lsm6ds3.StatusGDAbit
	s.mu.Unlock()
}

// SetTemp latches a new temperature sample and raises TDA.
func (s *Sensor) SetTemp(t int16) {
	s.mu.Lock()
	s.regs[lsm6ds3.RegOutTempL] = byte(uint16(t))
	s.regs[lsm6ds3.RegOutTempL+1] = byte(uint16(t) >> 8)
	s.regs[lsm6ds3.RegStatus] |= lsm6ds3.StatusTDAbit
	s.mu.Unlock()
}

// SetAutoData makes every STATUS_REG read latch the given values for each
// channel whose data rate is not off, as a free-running sensor would.
func (s *Sensor) SetAutoData(xl, g [3]int16, t int16) {
	s.mu.Lock()
	s.auto = true
	s.autoXL, s.autoG, s.autoT = xl, g, t
	s.mu.Unlock()
}

// Log returns a copy of the physical transfer log.
func (s *Sensor) Log() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.log))
	copy(out, s.log)
	return out
}

// ResetLog clears the transfer log.
func (s *Sensor) ResetLog() {
	s.mu.Lock()
	s.log = nil
	s.mu.Unlock()
}

// Accesses returns how many times reg was accessed in direction dir.
func (s *Sensor) Accesses(dir lsm6ds3.Direction, reg lsm6ds3.Register) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[accessKey{dir, reg}]
}

func (s *Sensor) record(op Op, data []byte) {
	var cp []byte
	if data != nil {
		cp = append([]byte{}, data...)
	}
	s.log = append(s.log, Event{Op: op, Data: cp})
}

func (s *Sensor) checkFault(dir lsm6ds3.Direction, reg lsm6ds3.Register) error {
	k := accessKey{dir, reg}
	s.counts[k]++
	if s.fault == nil {
		return nil
	}
	return s.fault(dir, reg, s.counts[k])
}

func (s *Sensor) autoIncrement() bool {
	return s.regs[lsm6ds3.RegCtrl3C]&lsm6ds3.Ctrl3IFIncbit != 0
}

// readLocked copies registers starting at reg into p, applying read side effects.
func (s *Sensor) readLocked(reg byte, p []byte) error {
	if err := s.checkFault(lsm6ds3.Read, lsm6ds3.Register(reg)); err != nil {
		return err
	}

	if lsm6ds3.Register(reg) == lsm6ds3.RegStatus && s.auto {
		s.latchAuto()
	}

	a := reg
	for i := range p {
		p[i] = s.regs[a&0x7F]
		s.clearFlagFor(lsm6ds3.Register(a & 0x7F))
		if s.autoIncrement() {
			a++
		}
	}
	return nil
}

func (s *Sensor) latchAuto() {
	if s.regs[lsm6ds3.RegCtrl1XL]>>4 != 0 {
		putAxes(s.regs[lsm6ds3.RegOutXLXL:], s.autoXL)
		s.regs[lsm6ds3.RegStatus] |= lsm6ds3.StatusXLDAbit
		// temperature runs whenever either sensor is on
		s.regs[lsm6ds3.RegOutTempL] = byte(uint16(s.autoT))
		s.regs[lsm6ds3.RegOutTempL+1] = byte(uint16(s.autoT) >> 8)
		s.regs[lsm6ds3.RegStatus] |= lsm6ds3.StatusTDAbit
	}
	if s.regs[lsm6ds3.RegCtrl2G]>>4 != 0 {
		putAxes(s.regs[lsm6ds3.RegOutXLG:], s.autoG)
		s.regs[lsm6ds3.RegStatus] |= lsm6ds3.StatusGDAbit
	}
}

func (s *Sensor) clearFlagFor(reg lsm6ds3.Register) {
	switch {
	case reg >= lsm6ds3.RegOutXLXL && reg < lsm6ds3.RegOutXLXL+6:
		s.regs[lsm6ds3.RegStatus] &^= lsm6ds3.StatusXLDAbit
	case reg >= lsm6ds3.RegOutXLG && reg < lsm6ds3.RegOutXLG+6:
		s.regs[lsm6ds3.RegStatus] &^= lsm6ds3.StatusGDAbit
	case reg >= lsm6ds3.RegOutTempL && reg < lsm6ds3.RegOutTempL+2:
		s.regs[lsm6ds3.RegStatus] &^= lsm6ds3.StatusTDAbit
	}
}

// writeLocked stores data starting at reg, applying write side effects.
func (s *Sensor) writeLocked(reg byte, data []byte) error {
	if err := s.checkFault(lsm6ds3.Write, lsm6ds3.Register(reg)); err != nil {
		return err
	}

	a := reg
	for _, b := range data {
		r := lsm6ds3.Register(a & 0x7F)
		switch r {
		case lsm6ds3.RegWhoAmI, lsm6ds3.RegStatus:
			// read-only
		case lsm6ds3.RegCtrl3C:
			if b&lsm6ds3.Ctrl3SWResetbit != 0 {
				// reset restores defaults and clears itself
				s.powerOn()
				b = s.regs[lsm6ds3.RegCtrl3C]
			}
			s.regs[r] = b
		default:
			s.regs[r] = b
		}
		if s.autoIncrement() {
			a++
		}
	}
	return nil
}

// ReadMem implements lsm6ds3.MemBus.
func (s *Sensor) ReadMem(reg byte, p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(reg, p)
}

// WriteMem implements lsm6ds3.MemBus.
func (s *Sensor) WriteMem(reg byte, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(reg, data)
}

// Tx implements lsm6ds3.I2CBus. The first written byte is the register address.
func (s *Sensor) Tx(addr uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if addr != s.addr {
		return errors.Wrapf(ErrWrongSlave, "0x%02X", addr)
	}
	if len(w) == 0 {
		return ErrNoAddress
	}

	s.record(OpTx, w)

	if len(w) > 1 {
		if err := s.writeLocked(w[0], w[1:]); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		if err := s.readLocked(w[0], r); err != nil {
			return err
		}
		s.record(OpRx, r)
	}
	return nil
}

// SPI returns the sensor's 4-wire SPI face.
func (s *Sensor) SPI() *SPI {
	return &SPI{s: s}
}

// SPI implements lsm6ds3.SPIBus on top of a Sensor.
type SPI struct {
	s *Sensor
}

// CSAsserted reports whether chip select is currently held.
func (b *SPI) CSAsserted() bool {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return b.s.csAsserted
}

// CSAsserts counts how many chip select windows have been opened.
func (b *SPI) CSAsserts() int {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return b.s.csAsserts
}

func (b *SPI) SetCS(asserted bool) error {
	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if asserted {
		s.record(OpCSAssert, nil)
		if !s.csAsserted {
			s.csAsserts++
		}
	} else {
		s.record(OpCSRelease, nil)
	}
	s.csAsserted = asserted
	s.spiAddr = nil
	return nil
}

func (b *SPI) Tx(w, r []byte) error {
	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.csAsserted {
		return ErrCSNotAsserted
	}

	if len(w) > 0 {
		s.record(OpTx, w)
	}

	if s.spiAddr == nil {
		if len(w) == 0 {
			return ErrNoAddress
		}
		a := w[0] & 0x7F
		s.spiAddr = &a
		s.spiRead = w[0]&0x80 != 0
		w = w[1:]
	}

	if len(w) > 0 {
		if s.spiRead {
			return ErrWrongPhase
		}
		if err := s.writeLocked(*s.spiAddr, w); err != nil {
			return err
		}
		if s.autoIncrement() {
			*s.spiAddr += byte(len(w))
		}
	}

	if len(r) > 0 {
		if !s.spiRead {
			return ErrWrongPhase
		}
		if err := s.readLocked(*s.spiAddr, r); err != nil {
			return err
		}
		s.record(OpRx, r)
		if s.autoIncrement() {
			*s.spiAddr += byte(len(r))
		}
	}
	return nil
}
