package main

import (
	"io"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/yunginnanet/lsm6ds3/internal/config"
	"github.com/yunginnanet/lsm6ds3/pkg/ft232h"
	"github.com/yunginnanet/lsm6ds3/pkg/hostbus"
	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3/sim"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openTransport opens the bus selected by opt and frames it for the sensor.
// The returned closer releases the bus.
func openTransport(opt config.BusOpt) (lsm6ds3.Transport, io.Closer, error) {
	switch opt.Kind {
	case config.BusFT232H:
		ft, err := ft232h.Connect(ft232h.Select(opt.FT232H.Index, opt.FT232H.Serial))
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to connect to FT232H")
		}
		ft.SetLogger(log)

		log.Info().Any("info", ft.Info()).Msgf("connected to FT232H: %s", ft)

		err = ft.ConfigureSPI(ft232h.SPIConfig{
			Clock: opt.FT232H.Clock,
			Mode:  opt.FT232H.Mode,
			CS:    opt.FT232H.CS,
		})
		if err != nil {
			_ = ft.Close()
			return nil, nil, err
		}
		return lsm6ds3.NewSPITransport(ft), ft, nil

	case config.BusSPIDev:
		bus, err := hostbus.OpenSPI(hostbus.SPIConfig{
			Port:  opt.SPIDev.Port,
			CSPin: opt.SPIDev.CSPin,
			Clock: physic.Frequency(opt.SPIDev.Clock) * physic.Hertz,
			Mode:  spi.Mode(opt.SPIDev.Mode),
		})
		if err != nil {
			return nil, nil, err
		}
		return lsm6ds3.NewSPITransport(bus), bus, nil

	case config.BusI2C:
		bus, err := hostbus.OpenI2C(opt.I2C.Bus)
		if err != nil {
			return nil, nil, err
		}
		return lsm6ds3.NewI2CTransport(bus, opt.I2C.Addr), bus, nil

	case config.BusI2CMem:
		m, err := hostbus.OpenMemI2C(uint8(opt.I2C.Addr), opt.I2C.Number)
		if err != nil {
			return nil, nil, err
		}
		return lsm6ds3.NewMemTransport(m), m, nil

	case config.BusSim:
		sensor := sim.New()
		// 1g on Z at rest, no rotation, 25 degC
		sensor.SetAutoData([3]int16{0, 0, 16393}, [3]int16{}, 0)
		return lsm6ds3.NewSPITransport(sensor.SPI()), nopCloser{}, nil

	default:
		return nil, nil, errors.Errorf("unknown bus kind %q", opt.Kind)
	}
}
