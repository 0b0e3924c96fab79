package packet

import "strings"

// encodeName produces the length-prefixed label wire form of host. A
// trailing dot is appended if absent; two consecutive dots (an empty
// label) are rejected, as is any label over 63 bytes or a total
// encoding over 255 bytes.
func encodeName(host string) ([]byte, error) {
	if !strings.HasSuffix(host, ".") {
		host += "."
	}
	if host == "." {
		// The root name: a single zero-length label.
		return []byte{0}, nil
	}
	// host is now "a.b.c." — split on "." drops a trailing empty
	// element for the root terminator, which we re-add explicitly.
	labels := strings.Split(host[:len(host)-1], ".")

	out := make([]byte, 0, len(host)+1)
	for _, label := range labels {
		if len(label) == 0 {
			return nil, ErrEmptyLabel
		}
		if len(label) > maxLabelLength {
			return nil, ErrLabelTooLong
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	out = append(out, 0)

	if len(out) > maxNameLength {
		return nil, ErrNameTooLong
	}
	return out, nil
}

// decodeName walks the length-prefixed labels (and any compression
// pointers) starting at the absolute offset start within datagram,
// returning the logical name "a.b.c." (root is ".") and the absolute
// offset just past the name as it appears at start — i.e. past the
// first pointer encountered, not past whatever the pointer jumped to.
//
// Pointer chains are bounded to maxPointerHops hops, and any pointer
// that targets an offset at or beyond the current read position is
// rejected: since pointers may only point backwards in a
// well-formed message, a forward or self pointer can only be a cycle
// or an attempt to read unparsed/future data.
func decodeName(datagram []byte, start int) (string, int, error) {
	if start < 0 || start > len(datagram) {
		return "", 0, ErrInvalidPointer
	}

	var labels []string
	pos := start
	firstPointerNext := -1
	hops := 0
	highestVisited := start

	for {
		if pos >= len(datagram) {
			return "", 0, ErrMessageTooShort
		}
		lead := datagram[pos]

		if lead&0xC0 == 0xC0 {
			if pos+2 > len(datagram) {
				return "", 0, ErrMessageTooShort
			}
			ptr := int(datagram[pos]&0x3F)<<8 | int(datagram[pos+1])
			if firstPointerNext == -1 {
				firstPointerNext = pos + 2
			}
			hops++
			if hops > maxPointerHops {
				return "", 0, ErrCompressionLoop
			}
			if ptr >= highestVisited {
				// Forward pointer, or pointer back into the name we
				// are still in the middle of decoding: a cycle.
				return "", 0, ErrCompressionLoop
			}
			pos = ptr
			highestVisited = ptr
			continue
		}

		if lead&0xC0 != 0 {
			return "", 0, ErrInvalidPointer
		}

		length := int(lead)
		if length == 0 {
			pos++
			break
		}
		if length > maxLabelLength {
			return "", 0, ErrLabelTooLong
		}
		pos++
		if pos+length > len(datagram) {
			return "", 0, ErrMessageTooShort
		}
		labels = append(labels, string(datagram[pos:pos+length]))
		pos += length
		if pos > highestVisited {
			highestVisited = pos
		}
	}

	name := "."
	if len(labels) > 0 {
		name = strings.Join(labels, ".") + "."
	}
	if len(name) > maxNameLength {
		return "", 0, ErrNameTooLong
	}

	next := pos
	if firstPointerNext != -1 {
		next = firstPointerNext
	}
	return name, next, nil
}
