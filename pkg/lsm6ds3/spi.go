package lsm6ds3

import (
	"go.uber.org/multierr"
)

// SPITransport frames register accesses for 4-wire SPI. The address byte carries
// the read bit (bit 7). Both the address and the data phase run inside one
// chip-select window, and chip select is released on every return path.
type SPITransport struct {
	bus SPIBus
}

// NewSPITransport wraps bus. The bus is owned by the transport from here on.
func NewSPITransport(bus SPIBus) *SPITransport {
	return &SPITransport{bus: bus}
}

func (t *SPITransport) setCSLow() error {
	return t.bus.SetCS(true)
}

func (t *SPITransport) setCSHigh() error {
	return t.bus.SetCS(false)
}

// Read transmits the address with the read bit set, then clocks len(p) bytes
// into p without releasing chip select between the two transfers.
func (t *SPITransport) Read(reg Register, p []byte) (err error) {
	if err = checkLen(Read, reg, len(p)); err != nil {
		return err
	}

	if err = t.setCSLow(); err != nil {
		// the bus may have partially asserted; release is best effort
		return busErr(Read, reg, multierr.Combine(err, t.setCSHigh()))
	}
	defer func() {
		err = busErr(Read, reg, multierr.Combine(err, t.setCSHigh()))
	}()

	addr := [1]byte{byte(reg)&spiAddrMask | spiReadBit}
	if err = t.bus.Tx(addr[:], nil); err != nil {
		return err
	}

	return t.bus.Tx(nil, p)
}

// Write transmits the address with the read bit clear, then data, inside one
// chip-select window.
func (t *SPITransport) Write(reg Register, data []byte) (err error) {
	if err = checkLen(Write, reg, len(data)); err != nil {
		return err
	}

	if err = t.setCSLow(); err != nil {
		return busErr(Write, reg, multierr.Combine(err, t.setCSHigh()))
	}
	defer func() {
		err = busErr(Write, reg, multierr.Combine(err, t.setCSHigh()))
	}()

	addr := [1]byte{byte(reg) & spiAddrMask}
	if err = t.bus.Tx(addr[:], nil); err != nil {
		return err
	}

	return t.bus.Tx(data, nil)
}
