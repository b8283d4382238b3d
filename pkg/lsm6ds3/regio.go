package lsm6ds3

import (
	"github.com/pkg/errors"
)

const regSpace = 0x80

// LastReadRegister returns the value reg held the last time it was read.
func (dev *Device) LastReadRegister(reg Register) byte {
	dev.mu.RLock()
	b := dev.regLR[byte(reg)&spiAddrMask]
	dev.mu.RUnlock()
	return b
}

// LastWrittenRegister returns the value last written to reg by this session.
func (dev *Device) LastWrittenRegister(reg Register) byte {
	dev.mu.RLock()
	b := dev.regLW[byte(reg)&spiAddrMask]
	dev.mu.RUnlock()
	return b
}

// Registers returns the last known value of every control register without
// touching the bus: the value written if the latest access was a write,
// otherwise the value read.
func (dev *Device) Registers() map[Register]byte {
	dev.mu.RLock()
	r := make(map[Register]byte, len(controlRegisters))
	for _, reg := range controlRegisters {
		r[reg] = dev.regCur[reg]
	}
	dev.mu.RUnlock()
	return r
}

// ReadAllRegisters reads every control register and returns their values.
func (dev *Device) ReadAllRegisters() (map[Register]byte, error) {
	registers := make(map[Register]byte, len(controlRegisters))
	for _, reg := range controlRegisters {
		val, err := dev.readRegister(reg)
		if err != nil {
			return registers, err
		}
		registers[reg] = val
	}
	return registers, nil
}

// readRegister reads a single register.
func (dev *Device) readRegister(reg Register) (byte, error) {
	if byte(reg) >= regSpace {
		return 0, errors.Errorf("invalid register address 0x%02X", byte(reg))
	}

	buf := get1Byte()
	defer put1Byte(buf)

	if err := dev.tr.Read(reg, buf); err != nil {
		return 0, err
	}

	dev.mu.Lock()
	dev.regLR[reg] = buf[0]
	dev.regCur[reg] = buf[0]
	dev.mu.Unlock()

	return buf[0], nil
}

// writeRegister writes a single register.
func (dev *Device) writeRegister(reg Register, value byte) error {
	if byte(reg) >= regSpace {
		return errors.Errorf("invalid register address 0x%02X", byte(reg))
	}

	buf := get1Byte()
	defer put1Byte(buf)
	buf[0] = value

	if err := dev.tr.Write(reg, buf); err != nil {
		return err
	}

	dev.mu.Lock()
	dev.regLW[reg] = value
	dev.regCur[reg] = value
	dev.mu.Unlock()

	return nil
}

// modifyRegister replaces the bits of reg selected by mask with value.
func (dev *Device) modifyRegister(reg Register, mask, value byte) error {
	cur, err := dev.readRegister(reg)
	if err != nil {
		return err
	}
	return dev.writeRegister(reg, cur&^mask|value&mask)
}
