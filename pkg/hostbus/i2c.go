package hostbus

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
)

var _ lsm6ds3.I2CBus = (i2c.BusCloser)(nil)

// OpenI2C opens an i2c-dev bus by i2creg name ("1", "/dev/i2c-1", "I2C1").
// Empty picks the first bus. The result satisfies lsm6ds3.I2CBus.
func OpenI2C(name string) (i2c.BusCloser, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", name)
	}
	return bus, nil
}
