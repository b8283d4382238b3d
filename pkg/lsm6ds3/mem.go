package lsm6ds3

// MemTransport hands the register to a memory-addressed bus as-is.
type MemTransport struct {
	bus MemBus
}

// NewMemTransport wraps a memory-addressed bus.
func NewMemTransport(bus MemBus) *MemTransport {
	return &MemTransport{bus: bus}
}

func (t *MemTransport) Read(reg Register, p []byte) error {
	if err := checkLen(Read, reg, len(p)); err != nil {
		return err
	}
	return busErr(Read, reg, t.bus.ReadMem(byte(reg), p))
}

func (t *MemTransport) Write(reg Register, data []byte) error {
	if err := checkLen(Write, reg, len(data)); err != nil {
		return err
	}
	return busErr(Write, reg, t.bus.WriteMem(byte(reg), data))
}
