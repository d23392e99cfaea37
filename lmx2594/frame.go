package lmx2594

// The device shifts 24 bits per chip-select assertion, MSB first:
//
//	bit 23    | bits 22:16   | bits 15:0
//	R/W flag  | address      | data
//
// 0 in the flag position writes the addressed register, 1 reads it back on
// the MUXout pin while dummy data bits are clocked. A Frame carries those 24
// significant bits in the low three bytes of a uint32; the top byte is
// always zero.

// FrameSize is the number of bytes exchanged per transaction.
const FrameSize = 3

const (
	frameReadFlag  = 1 << 23
	frameAddrShift = 16
	frameAddrMask  = 0x7F
)

// Frame is one encoded bus transaction.
type Frame uint32

// RegisterWrite is one programmable register slot and the value to store.
type RegisterWrite struct {
	Addr  uint8 // 0-112
	Value uint16
}

// EncodeWrite packs a register write into a bus frame.
func EncodeWrite(w RegisterWrite) Frame {
	return Frame(uint32(w.Addr&frameAddrMask)<<frameAddrShift | uint32(w.Value))
}

// EncodeRead packs a register readback request into a bus frame.
func EncodeRead(addr uint8) Frame {
	return Frame(frameReadFlag | uint32(addr&frameAddrMask)<<frameAddrShift)
}

// FrameFromBytes reassembles a frame from the three bytes seen on the wire.
func FrameFromBytes(b [FrameSize]byte) Frame {
	return Frame(uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]))
}

// Bytes returns the frame in wire order, MSB first.
func (f Frame) Bytes() [FrameSize]byte {
	return [FrameSize]byte{byte(f >> 16), byte(f >> 8), byte(f)}
}

// IsRead reports whether the frame requests a readback.
func (f Frame) IsRead() bool {
	return f&frameReadFlag != 0
}

// Addr returns the register address carried by the frame.
func (f Frame) Addr() uint8 {
	return uint8(f>>frameAddrShift) & frameAddrMask
}

// Value returns the 16-bit data field. For a decoded read response only
// these low 16 bits are meaningful.
func (f Frame) Value() uint16 {
	return uint16(f)
}
