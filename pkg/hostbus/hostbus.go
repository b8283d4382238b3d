// Package hostbus opens the sensor buses exposed by a Linux host: spidev with
// a GPIO chip select and i2c-dev, through periph.io, plus a register-addressed
// i2c-dev handle through d2r2/go-i2c.
package hostbus

import (
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/host/v3"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init loads the periph.io host drivers once per process.
func Init() error {
	initOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			initErr = errors.Wrap(err, "periph host init")
		}
	})
	return initErr
}
