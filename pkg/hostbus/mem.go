package hostbus

import (
	goi2c "github.com/d2r2/go-i2c"
	logger "github.com/d2r2/go-logger"
	"github.com/pkg/errors"

	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
)

var _ lsm6ds3.MemBus = (*MemI2C)(nil)

// MemI2C is a register-addressed handle on one i2c-dev slave.
type MemI2C struct {
	dev *goi2c.I2C
}

// OpenMemI2C opens /dev/i2c-<bus> for the slave at addr.
func OpenMemI2C(addr uint8, bus int) (*MemI2C, error) {
	// go-i2c logs every transfer at debug level
	_ = logger.ChangePackageLogLevel("i2c", logger.InfoLevel)

	dev, err := goi2c.NewI2C(addr, bus)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c-%d slave 0x%02X", bus, addr)
	}
	return &MemI2C{dev: dev}, nil
}

// ReadMem reads len(p) bytes starting at reg.
func (m *MemI2C) ReadMem(reg byte, p []byte) error {
	data, n, err := m.dev.ReadRegBytes(reg, len(p))
	if err != nil {
		return err
	}
	if n != len(p) {
		return errors.Errorf("short read from i2c-%d slave 0x%02X: needed %d, got %d",
			m.dev.GetBus(), m.dev.GetAddr(), len(p), n)
	}
	copy(p, data)
	return nil
}

// WriteMem writes data starting at reg in a single transaction.
func (m *MemI2C) WriteMem(reg byte, data []byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, reg)
	buf = append(buf, data...)

	n, err := m.dev.WriteBytes(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return errors.Errorf("short write to i2c-%d slave 0x%02X: had %d, wrote %d",
			m.dev.GetBus(), m.dev.GetAddr(), len(buf), n)
	}
	return nil
}

func (m *MemI2C) Close() error {
	return m.dev.Close()
}
