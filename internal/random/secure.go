// Package random generates the per-query transaction id. Each exchange
// opens and closes its own UDP socket (see internal/transport), so the
// OS already randomizes the source port; this package only has to
// cover the 16-bit transaction id half of that pair.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// TransactionID returns a cryptographically random 16-bit transaction
// id. NEVER use math/rand here — a predictable id lets an off-path
// attacker forge a matching response.
func TransactionID() uint16 {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return binary.BigEndian.Uint16(buf[:])
}

// ValidateResponse reports whether a response's transaction id matches
// the id the query was sent with. A response on an unmatched id must
// never be accepted.
func ValidateResponse(sentID, gotID uint16) bool {
	return sentID == gotID
}
