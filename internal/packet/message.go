package packet

import "fmt"

// ClassIN is the only record class this resolver speaks.
const ClassIN uint16 = 1

// Record type numbers from RFC 1035 / RFC 6891 / RFC 4034.
const (
	TypeA      uint16 = 1
	TypeNS     uint16 = 2
	TypeCNAME  uint16 = 5
	TypeSOA    uint16 = 6
	TypePTR    uint16 = 12
	TypeMX     uint16 = 15
	TypeTXT    uint16 = 16
	TypeAAAA   uint16 = 28
	TypeSRV    uint16 = 33
	TypeNAPTR  uint16 = 35
	TypeOPT    uint16 = 41
	TypeDS     uint16 = 43
	TypeRRSIG  uint16 = 46
	TypeNSEC   uint16 = 47
	TypeDNSKEY uint16 = 48
	TypeNSEC3  uint16 = 50
	TypeIXFR   uint16 = 251
	TypeAXFR   uint16 = 252
	TypeANY    uint16 = 255
	TypeCAA    uint16 = 257
)

// edns0 constants for the outbound OPT pseudo-RR (RFC 6891).
const (
	ednsUDPPayloadSize = 4096
	ednsDOBit          = 1 << 15 // bit 15 of the lower 16 bits of the OPT TTL
)

// Question is one entry of the question section.
type Question struct {
	Name  string
	Type  uint16
	Class uint16
}

// RR is a parsed resource record: the fixed header fields plus the raw
// RDATA bytes, and a reference to the whole datagram so that typed
// accessors (AsIPv4, AsName, ...) can follow compression pointers that
// point outside the RR's own RDATA. See AsName et al. in rr.go.
type RR struct {
	Name     string
	Type     uint16
	Class    uint16
	TTL      uint32
	RData    []byte
	datagram []byte
	rdataOff int // absolute offset of RData within datagram
}

// Message is a fully parsed DNS message: the header and its four
// sections. The question section is decoded but not otherwise used by
// the resolver; the answer/authority/additional sections are what the
// iterative resolver interprets.
type Message struct {
	Header     Header
	Question   []Question
	Answer     []RR
	Authority  []RR
	Additional []RR
}

// ParseMessage decodes a complete DNS message from a raw datagram. It
// never panics on malformed input: every failure is reported as an
// error (usually wrapping ErrMessageTooShort, ErrCompressionLoop, or
// one of the name-length errors), for the caller to treat as a
// recoverable parse failure.
func ParseMessage(datagram []byte) (*Message, error) {
	c := &cursor{buf: datagram}
	header, err := c.parseHeader()
	if err != nil {
		return nil, fmtErr("parse header", err)
	}

	m := &Message{Header: header}

	m.Question = make([]Question, 0, header.QDCount)
	for i := 0; i < int(header.QDCount); i++ {
		q, err := parseQuestion(c)
		if err != nil {
			return nil, fmtErr(fmt.Sprintf("parse question %d", i), err)
		}
		m.Question = append(m.Question, q)
	}

	if m.Answer, err = parseRRSection(c, int(header.ANCount)); err != nil {
		return nil, fmtErr("parse answer section", err)
	}
	if m.Authority, err = parseRRSection(c, int(header.NSCount)); err != nil {
		return nil, fmtErr("parse authority section", err)
	}
	if m.Additional, err = parseRRSection(c, int(header.ARCount)); err != nil {
		return nil, fmtErr("parse additional section", err)
	}

	// Trailing bytes beyond the declared sections are tolerated:
	// some authoritative servers pad responses.
	return m, nil
}

func parseQuestion(c *cursor) (Question, error) {
	name, next, err := decodeName(c.buf, c.pos)
	if err != nil {
		return Question{}, err
	}
	c.pos = next

	qtype, err := c.readUint16()
	if err != nil {
		return Question{}, err
	}
	qclass, err := c.readUint16()
	if err != nil {
		return Question{}, err
	}
	return Question{Name: name, Type: qtype, Class: qclass}, nil
}

func parseRRSection(c *cursor, count int) ([]RR, error) {
	rrs := make([]RR, 0, count)
	for i := 0; i < count; i++ {
		rr, err := parseRR(c)
		if err != nil {
			return nil, fmtErr(fmt.Sprintf("RR %d", i), err)
		}
		rrs = append(rrs, rr)
	}
	return rrs, nil
}

func parseRR(c *cursor) (RR, error) {
	name, next, err := decodeName(c.buf, c.pos)
	if err != nil {
		return RR{}, err
	}
	c.pos = next

	rtype, err := c.readUint16()
	if err != nil {
		return RR{}, err
	}
	class, err := c.readUint16()
	if err != nil {
		return RR{}, err
	}
	ttl, err := c.readUint32()
	if err != nil {
		return RR{}, err
	}
	rdlength, err := c.readUint16()
	if err != nil {
		return RR{}, err
	}
	rdataOff := c.pos
	rdata, err := c.readBytes(int(rdlength))
	if err != nil {
		return RR{}, err
	}

	return RR{
		Name:     name,
		Type:     rtype,
		Class:    class,
		TTL:      ttl,
		RData:    rdata,
		datagram: c.buf,
		rdataOff: rdataOff,
	}, nil
}

// BuildQuery assembles a single-question outbound query: the header
// (QR=0, OPCODE=0, RD/AD/CD as requested, one question, one
// additional — the OPT pseudo-RR), the question, and the OPT record
// per RFC 6891.
func BuildQuery(id uint16, host string, qtype uint16, rd, ad, cd bool) ([]byte, error) {
	qname, err := encodeName(host)
	if err != nil {
		return nil, fmtErr("encode name", err)
	}

	header := Header{
		ID:      id,
		RD:      rd,
		AD:      ad,
		CD:      cd,
		QDCount: 1,
		ARCount: 1,
	}

	buf := make([]byte, 0, headerSize+len(qname)+4+11)
	buf = writeUint16(buf, header.ID)
	buf = writeUint16(buf, encodeControl(header))
	buf = writeUint16(buf, header.QDCount)
	buf = writeUint16(buf, header.ANCount)
	buf = writeUint16(buf, header.NSCount)
	buf = writeUint16(buf, header.ARCount)

	buf = append(buf, qname...)
	buf = writeUint16(buf, qtype)
	buf = writeUint16(buf, ClassIN)

	// OPT pseudo-RR: NAME = root, TYPE = OPT, CLASS = UDP payload size,
	// TTL = extended-rcode/flags (DO bit set), RDLENGTH = 0.
	buf = append(buf, 0) // root name
	buf = writeUint16(buf, TypeOPT)
	buf = writeUint16(buf, ednsUDPPayloadSize)
	buf = writeUint32(buf, ednsDOBit)
	buf = writeUint16(buf, 0) // RDLENGTH

	return buf, nil
}
