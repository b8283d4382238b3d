package ft232h

import (
	"github.com/pkg/errors"
	"github.com/yunginnanet/ft232h"
	"go.uber.org/multierr"

	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
)

var _ lsm6ds3.SPIBus = (*FT232H)(nil)

// ErrCSPinNotSet is returned by SetCS before ConfigureSPI assigned a pin.
var ErrCSPinNotSet = errors.New("chip select pin not set")

// SPIConfig selects the MPSSE clock, SPI mode and the GPIO used as chip select.
type SPIConfig struct {
	Clock uint32
	Mode  byte
	CS    uint
}

// DefaultSPIConfig runs at 1MHz in mode 3 with chip select on C0.
func DefaultSPIConfig() SPIConfig {
	return SPIConfig{Clock: 1000000, Mode: 3, CS: 0}
}

// ConfigureSPI initializes the MPSSE SPI engine and claims cfg.CS as an output
// driven high, so the sensor starts deselected.
func (ft *FT232H) ConfigureSPI(cfg SPIConfig) error {
	spiCfg := ft.FT232H.SPI.GetConfig()
	spiCfg.Clock = cfg.Clock
	spiCfg.Mode = cfg.Mode

	ft.log.Debug().Any("config", spiCfg).Msg("initializing SPI")

	if err := ft.FT232H.SPI.Config(spiCfg); err != nil {
		return errors.Wrap(err, "configure SPI")
	}

	return ft.SetCSPin(cfg.CS)
}

// SetCSPin claims pin on the C bank as the chip select output, released.
func (ft *FT232H) SetCSPin(pin uint) error {
	ft.csPin = ft232h.CPin(pin)
	ft.log.Debug().Str("pin", ft.csPin.String()).Any("pos", ft.csPin.Pos()).Msg("cs set")
	if err := ft.GPIO.ConfigPin(ft.csPin, ft232h.Output, true); err != nil {
		return errors.Wrapf(err, "configure chip select %s", ft.csPin)
	}
	ft.csSet = true
	return nil
}

// CSPin returns the chip select pin.
func (ft *FT232H) CSPin() ft232h.CPin {
	return ft.csPin
}

// SetCS drives the active-low chip select: asserted pulls it low.
func (ft *FT232H) SetCS(asserted bool) error {
	if !ft.csSet {
		return ErrCSPinNotSet
	}
	return ft.FT232H.GPIO.Set(ft.csPin, !asserted)
}

// Tx clocks w out, then clocks len(r) bytes into r. The MPSSE chip select is
// never toggled; SetCS owns the transaction window.
func (ft *FT232H) Tx(w, r []byte) error {
	if len(w) > 0 {
		n, err := ft.FT232H.SPI.Write(w, false, false)
		if err != nil {
			return errors.Wrap(err, "spi write")
		}
		if int(n) != len(w) {
			return errors.Errorf("spi write: short write %d/%d", n, len(w))
		}
	}

	if len(r) > 0 {
		data, err := ft.FT232H.SPI.Read(uint(len(r)), false, false)
		if err != nil {
			return errors.Wrap(err, "spi read")
		}
		if len(data) != len(r) {
			return errors.Errorf("spi read: short read %d/%d", len(data), len(r))
		}
		copy(r, data)
	}

	return nil
}

// Close deselects the sensor and releases the SPI engine.
func (ft *FT232H) Close() error {
	var err error
	if ft.csSet {
		err = ft.SetCS(false)
	}
	return multierr.Combine(err, ft.FT232H.SPI.Close())
}
