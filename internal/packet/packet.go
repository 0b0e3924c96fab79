// Package packet implements the DNS wire codec: reading/writing the
// big-endian primitives, the 12-byte header, compressed domain names,
// and the question/answer/authority/additional sections of a message.
//
// Everything here operates on untrusted input from the network, so
// every read is bounds-checked and returns ErrMessageTooShort rather
// than panicking or slicing out of range.
package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrMessageTooShort indicates the buffer ran out before a field,
	// name, or RDATA could be fully read.
	ErrMessageTooShort = errors.New("packet: message too short")

	// ErrCompressionLoop indicates a name's pointer chain targeted an
	// offset at or beyond the current read position (a self, forward,
	// or out-of-range pointer) or exceeded the hop budget.
	ErrCompressionLoop = errors.New("packet: compression pointer loop")

	// ErrInvalidPointer indicates a name's start offset lies outside the
	// datagram, or a label's length byte uses one of the reserved
	// 0x40/0x80 prefixes.
	ErrInvalidPointer = errors.New("packet: invalid compression pointer")

	// ErrLabelTooLong indicates a label exceeded 63 bytes.
	ErrLabelTooLong = errors.New("packet: label exceeds 63 bytes")

	// ErrNameTooLong indicates an encoded/decoded name exceeded 255 bytes.
	ErrNameTooLong = errors.New("packet: name exceeds 255 bytes")

	// ErrEmptyLabel indicates two consecutive dots (an empty label) in
	// a name passed to encodeName.
	ErrEmptyLabel = errors.New("packet: empty label in name")

	// ErrWrongType indicates a typed RDATA accessor was called against
	// an RR of the wrong TYPE.
	ErrWrongType = errors.New("packet: RR is not the requested type")
)

const (
	headerSize = 12

	maxLabelLength = 63
	maxNameLength  = 255

	// maxPointerHops bounds the number of compression-pointer jumps a
	// single decodeName call may follow. Chosen well above any name
	// that could legitimately appear (a fully pointer-chained 255 byte
	// name needs nowhere near 128 hops) and well below what it would
	// take for an attacker to burn meaningful CPU per datagram.
	maxPointerHops = 128
)

// Header is the fixed 12-byte DNS message header (RFC 1035 §4.1.1),
// unpacked into host-order fields.
type Header struct {
	ID      uint16
	QR      bool
	Opcode  uint8 // 4 bits
	AA      bool
	TC      bool
	RD      bool
	RA      bool
	Z       bool
	AD      bool
	CD      bool
	Rcode   uint8 // 4 bits
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

const (
	flagQR      = 1 << 15
	flagAA      = 1 << 10
	flagTC      = 1 << 9
	flagRD      = 1 << 8
	flagRA      = 1 << 7
	flagZ       = 1 << 6
	flagAD      = 1 << 5
	flagCD      = 1 << 4
	opcodeShift = 11
	opcodeMask  = 0x0F
	rcodeMask   = 0x0F
)

func decodeControl(word uint16, h *Header) {
	h.QR = word&flagQR != 0
	h.Opcode = uint8((word >> opcodeShift) & opcodeMask)
	h.AA = word&flagAA != 0
	h.TC = word&flagTC != 0
	h.RD = word&flagRD != 0
	h.RA = word&flagRA != 0
	h.Z = word&flagZ != 0
	h.AD = word&flagAD != 0
	h.CD = word&flagCD != 0
	h.Rcode = uint8(word & rcodeMask)
}

func encodeControl(h Header) uint16 {
	var word uint16
	if h.QR {
		word |= flagQR
	}
	word |= uint16(h.Opcode&opcodeMask) << opcodeShift
	if h.AA {
		word |= flagAA
	}
	if h.TC {
		word |= flagTC
	}
	if h.RD {
		word |= flagRD
	}
	if h.RA {
		word |= flagRA
	}
	if h.Z {
		word |= flagZ
	}
	if h.AD {
		word |= flagAD
	}
	if h.CD {
		word |= flagCD
	}
	word |= uint16(h.Rcode & rcodeMask)
	return word
}

// cursor is a walking position over a byte buffer, with reads
// reported in host order and a running bounds check against short
// input. The same buffer backs both relative reads (advancing
// cursor.pos) and absolute ones (decodeName jumping to a pointer
// target), since compression pointers are offsets from the start of
// the whole datagram.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) readUint8() (uint8, error) {
	if c.pos+1 > len(c.buf) {
		return 0, ErrMessageTooShort
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) readUint16() (uint16, error) {
	if c.pos+2 > len(c.buf) {
		return 0, ErrMessageTooShort
	}
	v := binary.BigEndian.Uint16(c.buf[c.pos : c.pos+2])
	c.pos += 2
	return v, nil
}

func (c *cursor) readUint32() (uint32, error) {
	if c.pos+4 > len(c.buf) {
		return 0, ErrMessageTooShort
	}
	v := binary.BigEndian.Uint32(c.buf[c.pos : c.pos+4])
	c.pos += 4
	return v, nil
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, ErrMessageTooShort
	}
	b := make([]byte, n)
	copy(b, c.buf[c.pos:c.pos+n])
	c.pos += n
	return b, nil
}

func (c *cursor) parseHeader() (Header, error) {
	if len(c.buf) < headerSize {
		return Header{}, ErrMessageTooShort
	}
	var h Header
	id, _ := c.readUint16()
	control, _ := c.readUint16()
	h.ID = id
	decodeControl(control, &h)
	qd, _ := c.readUint16()
	an, _ := c.readUint16()
	ns, _ := c.readUint16()
	ar, _ := c.readUint16()
	h.QDCount, h.ANCount, h.NSCount, h.ARCount = qd, an, ns, ar
	return h, nil
}

func writeUint16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

func writeUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

// fmtErr wraps err with a short static prefix without pulling in a
// format string at every call site.
func fmtErr(where string, err error) error {
	return fmt.Errorf("%s: %w", where, err)
}
