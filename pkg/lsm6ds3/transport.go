package lsm6ds3

// Transport frames register accesses onto a bus. Implementations never retry;
// every failure is returned as a *BusError.
type Transport interface {
	// Write writes data to consecutive registers starting at reg.
	Write(reg Register, data []byte) error
	// Read fills p from consecutive registers starting at reg.
	Read(reg Register, p []byte) error
}

// SPIBus is the primitive a SPITransport drives. Chip select is explicit so a
// transaction can span more than one physical transfer.
type SPIBus interface {
	// SetCS asserts (true) or releases (false) the sensor's chip select.
	SetCS(asserted bool) error
	// Tx clocks out w and, if r is non-nil, clocks len(r) bytes into r.
	// Either may be nil but not both.
	Tx(w, r []byte) error
}

// I2CBus matches periph.io's i2c.Bus: one combined write-then-read transaction
// with a repeated start between the two halves.
type I2CBus interface {
	Tx(addr uint16, w, r []byte) error
}

// MemBus is a memory-addressed bus where the register is passed as a separate
// address field, as HAL-style "mem read/write" calls do.
type MemBus interface {
	ReadMem(reg byte, p []byte) error
	WriteMem(reg byte, data []byte) error
}

func checkLen(op Direction, reg Register, n int) error {
	if n == 0 {
		return busErr(op, reg, ErrEmptyTransfer)
	}
	return nil
}
