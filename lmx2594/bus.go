package lmx2594

// Bus is the transport the driver runs on: one fixed-width full-duplex
// exchange per transaction, with chip-select handled inside Transfer, plus
// control of the hardware reset line. Implementations without a wired reset
// line return nil from SetReset; the sequencer always performs the software
// reset through R0 as well.
type Bus interface {
	// Transfer clocks len(tx) bytes out while reading the same number of
	// bytes into rx. It blocks until the exchange completes.
	Transfer(tx, rx []byte) error

	// SetReset drives the reset line. true asserts reset.
	SetReset(asserted bool) error
}

// InitContext owns the bus for the duration of one initialization attempt.
// It is not safe for concurrent use and must not be shared across attempts;
// mutual exclusion with other devices on the same physical bus is the
// caller's responsibility.
type InitContext struct {
	bus Bus
	tx  [FrameSize]byte
	rx  [FrameSize]byte
}

// NewInitContext wraps bus for one initialization attempt.
func NewInitContext(bus Bus) *InitContext {
	return &InitContext{bus: bus}
}

// WriteRegister performs one blocking register write.
func (c *InitContext) WriteRegister(w RegisterWrite) error {
	c.tx = EncodeWrite(w).Bytes()
	if err := c.bus.Transfer(c.tx[:], c.rx[:]); err != nil {
		return &SPIError{Op: "write", Addr: w.Addr, Err: err}
	}
	return nil
}

// ReadRegister performs one blocking register readback and returns the
// 16-bit data field of the response.
func (c *InitContext) ReadRegister(addr uint8) (uint16, error) {
	c.tx = EncodeRead(addr).Bytes()
	if err := c.bus.Transfer(c.tx[:], c.rx[:]); err != nil {
		return 0, &SPIError{Op: "read", Addr: addr, Err: err}
	}
	return FrameFromBytes(c.rx).Value(), nil
}

func (c *InitContext) setReset(asserted bool) error {
	if err := c.bus.SetReset(asserted); err != nil {
		return &SPIError{Op: "reset", Err: err}
	}
	return nil
}
