package lsm6ds3

// I2CTransport frames register accesses as I2C transactions addressed to one
// slave. The register goes out as the first written byte; there is no read bit.
type I2CTransport struct {
	bus  I2CBus
	addr uint16
}

// NewI2CTransport binds bus to the sensor at addr (I2CAddrLow or I2CAddrHigh).
func NewI2CTransport(bus I2CBus, addr uint16) *I2CTransport {
	return &I2CTransport{bus: bus, addr: addr}
}

// Read writes the register address and reads len(p) bytes after a repeated start.
func (t *I2CTransport) Read(reg Register, p []byte) error {
	if err := checkLen(Read, reg, len(p)); err != nil {
		return err
	}
	w := [1]byte{byte(reg)}
	return busErr(Read, reg, t.bus.Tx(t.addr, w[:], p))
}

// Write sends the register address followed by data in one write transaction.
func (t *I2CTransport) Write(reg Register, data []byte) error {
	if err := checkLen(Write, reg, len(data)); err != nil {
		return err
	}
	w := make([]byte, 0, len(data)+1)
	w = append(w, byte(reg))
	w = append(w, data...)
	return busErr(Write, reg, t.bus.Tx(t.addr, w, nil))
}
