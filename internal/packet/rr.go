package packet

import (
	"fmt"
	"net"
)

// AsIPv4 returns the address carried by an A record's RDATA.
func (r RR) AsIPv4() (net.IP, error) {
	if r.Type != TypeA {
		return nil, ErrWrongType
	}
	if len(r.RData) != 4 {
		return nil, ErrMessageTooShort
	}
	ip := make(net.IP, 4)
	copy(ip, r.RData)
	return ip, nil
}

// AsIPv6 returns the address carried by an AAAA record's RDATA. AAAA
// records are parsed but neither cached nor used to pick a
// nameserver to query, since the transport speaks IPv4 only.
func (r RR) AsIPv6() (net.IP, error) {
	if r.Type != TypeAAAA {
		return nil, ErrWrongType
	}
	if len(r.RData) != 16 {
		return nil, ErrMessageTooShort
	}
	ip := make(net.IP, 16)
	copy(ip, r.RData)
	return ip, nil
}

// AsName decodes the single domain name carried in an NS or CNAME
// record's RDATA. The name may itself use compression pointers back
// into the enclosing datagram, which is why RR retains a reference to
// it rather than decoding RDATA in isolation.
func (r RR) AsName() (string, error) {
	if r.Type != TypeNS && r.Type != TypeCNAME && r.Type != TypePTR {
		return "", ErrWrongType
	}
	name, _, err := decodeName(r.datagram, r.rdataOff)
	if err != nil {
		return "", err
	}
	return name, nil
}

// SOA is the decoded RDATA of an SOA record (RFC 1035 §3.3.13).
type SOA struct {
	MName   string
	RName   string
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

// AsSOA decodes an SOA record's RDATA.
func (r RR) AsSOA() (SOA, error) {
	if r.Type != TypeSOA {
		return SOA{}, ErrWrongType
	}
	mname, next, err := decodeName(r.datagram, r.rdataOff)
	if err != nil {
		return SOA{}, err
	}
	rname, next, err := decodeName(r.datagram, next)
	if err != nil {
		return SOA{}, err
	}
	c := &cursor{buf: r.datagram, pos: next}
	serial, err := c.readUint32()
	if err != nil {
		return SOA{}, err
	}
	refresh, err := c.readUint32()
	if err != nil {
		return SOA{}, err
	}
	retry, err := c.readUint32()
	if err != nil {
		return SOA{}, err
	}
	expire, err := c.readUint32()
	if err != nil {
		return SOA{}, err
	}
	minimum, err := c.readUint32()
	if err != nil {
		return SOA{}, err
	}
	return SOA{
		MName:   mname,
		RName:   rname,
		Serial:  serial,
		Refresh: refresh,
		Retry:   retry,
		Expire:  expire,
		Minimum: minimum,
	}, nil
}

// MX is the decoded RDATA of an MX record.
type MX struct {
	Preference uint16
	Exchange   string
}

// AsMX decodes an MX record's RDATA.
func (r RR) AsMX() (MX, error) {
	if r.Type != TypeMX {
		return MX{}, ErrWrongType
	}
	c := &cursor{buf: r.datagram, pos: r.rdataOff}
	pref, err := c.readUint16()
	if err != nil {
		return MX{}, err
	}
	exchange, _, err := decodeName(r.datagram, c.pos)
	if err != nil {
		return MX{}, err
	}
	return MX{Preference: pref, Exchange: exchange}, nil
}

// RRSIG is the decoded RDATA of an RRSIG record (RFC 4034 §3), minus
// the signature itself (DNSSEC signature verification is out of
// scope; only the bookkeeping fields are exposed).
type RRSIG struct {
	TypeCovered uint16
	Algorithm   uint8
	Labels      uint8
	OrigTTL     uint32
	Expiration  uint32
	Inception   uint32
	KeyTag      uint16
	SignerName  string
}

// AsRRSIG decodes the fixed-width prefix of an RRSIG record's RDATA.
func (r RR) AsRRSIG() (RRSIG, error) {
	if r.Type != TypeRRSIG {
		return RRSIG{}, ErrWrongType
	}
	c := &cursor{buf: r.datagram, pos: r.rdataOff}
	typeCovered, err := c.readUint16()
	if err != nil {
		return RRSIG{}, err
	}
	algorithm, err := c.readUint8()
	if err != nil {
		return RRSIG{}, err
	}
	labels, err := c.readUint8()
	if err != nil {
		return RRSIG{}, err
	}
	origTTL, err := c.readUint32()
	if err != nil {
		return RRSIG{}, err
	}
	expiration, err := c.readUint32()
	if err != nil {
		return RRSIG{}, err
	}
	inception, err := c.readUint32()
	if err != nil {
		return RRSIG{}, err
	}
	keyTag, err := c.readUint16()
	if err != nil {
		return RRSIG{}, err
	}
	signerName, _, err := decodeName(r.datagram, c.pos)
	if err != nil {
		return RRSIG{}, err
	}
	return RRSIG{
		TypeCovered: typeCovered,
		Algorithm:   algorithm,
		Labels:      labels,
		OrigTTL:     origTTL,
		Expiration:  expiration,
		Inception:   inception,
		KeyTag:      keyTag,
		SignerName:  signerName,
	}, nil
}

// DNSKEY is the decoded RDATA of a DNSKEY record (RFC 4034 §2), minus
// the key material itself.
type DNSKEY struct {
	Flags     uint16
	Protocol  uint8
	Algorithm uint8
}

// AsDNSKEY decodes the fixed-width prefix of a DNSKEY record's RDATA.
func (r RR) AsDNSKEY() (DNSKEY, error) {
	if r.Type != TypeDNSKEY {
		return DNSKEY{}, ErrWrongType
	}
	if len(r.RData) < 4 {
		return DNSKEY{}, ErrMessageTooShort
	}
	return DNSKEY{
		Flags:     uint16(r.RData[0])<<8 | uint16(r.RData[1]),
		Protocol:  r.RData[2],
		Algorithm: r.RData[3],
	}, nil
}

// String renders the RR as one line naming the owner, type, and a
// type-specific rendering of the RDATA for A, AAAA, NS, CNAME, SOA, MX
// and OPT, falling back to a generic placeholder for every other type
// (including PTR, RRSIG and DNSKEY, which have typed accessors above).
func (r RR) String() string {
	switch r.Type {
	case TypeA:
		ip, err := r.AsIPv4()
		if err != nil {
			return fmt.Sprintf("%s A <malformed>", r.Name)
		}
		return fmt.Sprintf("%s A %s", r.Name, ip)
	case TypeAAAA:
		ip, err := r.AsIPv6()
		if err != nil {
			return fmt.Sprintf("%s AAAA <malformed>", r.Name)
		}
		return fmt.Sprintf("%s AAAA %s", r.Name, ip)
	case TypeNS:
		name, err := r.AsName()
		if err != nil {
			return fmt.Sprintf("%s NS <malformed>", r.Name)
		}
		return fmt.Sprintf("%s NS %s", r.Name, name)
	case TypeCNAME:
		name, err := r.AsName()
		if err != nil {
			return fmt.Sprintf("%s CNAME <malformed>", r.Name)
		}
		return fmt.Sprintf("%s CNAME %s", r.Name, name)
	case TypeSOA:
		soa, err := r.AsSOA()
		if err != nil {
			return fmt.Sprintf("%s SOA <malformed>", r.Name)
		}
		return fmt.Sprintf("%s SOA %s %s %d", r.Name, soa.MName, soa.RName, soa.Serial)
	case TypeMX:
		mx, err := r.AsMX()
		if err != nil {
			return fmt.Sprintf("%s MX <malformed>", r.Name)
		}
		return fmt.Sprintf("%s MX %d %s", r.Name, mx.Preference, mx.Exchange)
	case TypeOPT:
		return fmt.Sprintf("%s OPT", r.Name)
	default:
		return fmt.Sprintf("%s type %d: not implemented", r.Name, r.Type)
	}
}
