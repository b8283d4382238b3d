package hostbus

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
)

var _ lsm6ds3.SPIBus = (*SPI)(nil)

// SPIConfig names a spidev port and the GPIO line used as chip select.
type SPIConfig struct {
	// Port is a spireg name such as "/dev/spidev0.0" or "SPI0.0". Empty picks the first port.
	Port string
	// CSPin is a gpioreg name such as "GPIO8".
	CSPin string
	Clock physic.Frequency
	Mode  spi.Mode
}

// DefaultSPIConfig runs the first port at 1MHz in mode 3 with chip select on GPIO8.
func DefaultSPIConfig() SPIConfig {
	return SPIConfig{
		CSPin: "GPIO8",
		Clock: physic.MegaHertz,
		Mode:  spi.Mode3,
	}
}

// SPI drives a periph.io SPI connection with a software chip select, so one
// sensor transaction can span several transfers.
type SPI struct {
	conn   spi.Conn
	cs     gpio.PinOut
	closer io.Closer
}

// NewSPI assembles an SPI from an already connected conn and a chip select
// output. closer, if not nil, is closed by Close.
func NewSPI(conn spi.Conn, cs gpio.PinOut, closer io.Closer) (*SPI, error) {
	if err := cs.Out(gpio.High); err != nil {
		return nil, errors.Wrapf(err, "release chip select %s", cs)
	}
	return &SPI{conn: conn, cs: cs, closer: closer}, nil
}

// OpenSPI opens cfg.Port with the kernel chip select disabled and claims
// cfg.CSPin as the chip select.
func OpenSPI(cfg SPIConfig) (*SPI, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	pin := gpioreg.ByName(cfg.CSPin)
	if pin == nil {
		return nil, errors.Errorf("no gpio pin named %q", cfg.CSPin)
	}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, errors.Wrapf(err, "open spi port %q", cfg.Port)
	}

	conn, err := port.Connect(cfg.Clock, cfg.Mode|spi.NoCS, 8)
	if err != nil {
		return nil, multierr.Combine(errors.Wrap(err, "connect spi"), port.Close())
	}

	s, err := NewSPI(conn, pin, port)
	if err != nil {
		return nil, multierr.Combine(err, port.Close())
	}
	return s, nil
}

// SetCS drives the active-low chip select.
func (s *SPI) SetCS(asserted bool) error {
	return s.cs.Out(gpio.Level(!asserted))
}

// Tx runs one full-duplex transfer per phase. Bytes clocked in while writing
// are discarded; zeros are clocked out while reading.
func (s *SPI) Tx(w, r []byte) error {
	if len(w) > 0 {
		if err := s.conn.Tx(w, make([]byte, len(w))); err != nil {
			return errors.Wrap(err, "spi write")
		}
	}
	if len(r) > 0 {
		if err := s.conn.Tx(make([]byte, len(r)), r); err != nil {
			return errors.Wrap(err, "spi read")
		}
	}
	return nil
}

// Close releases chip select and the port.
func (s *SPI) Close() error {
	err := s.SetCS(false)
	if s.closer != nil {
		err = multierr.Append(err, s.closer.Close())
	}
	return err
}
