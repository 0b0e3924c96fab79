package resolve

import (
	"net"

	"github.com/dnsscience/stubresolve/internal/packet"
	"github.com/dnsscience/stubresolve/internal/random"
	"github.com/dnsscience/stubresolve/internal/transport"
)

// Result is the outcome of a single-server exchange: the three parsed
// record sections, populated only on NOERROR.
type Result struct {
	Answer     []packet.RR
	Authority  []packet.RR
	Additional []packet.RR
}

// QueryOne issues one query for host/qtype to server, parses the
// reply, and classifies it. On any non-NOERROR outcome the three
// section lists are empty and the returned error carries the
// corresponding ErrorKind.
func QueryOne(host string, qtype uint16, server net.IP) (Result, error) {
	id := random.TransactionID()
	query, err := packet.BuildQuery(id, host, qtype, true, true, true)
	if err != nil {
		return Result{}, &Error{Kind: Malformed}
	}

	raw, err := transport.Exchange(server, query)
	if err != nil {
		switch err {
		case transport.ErrTimeout:
			return Result{}, &Error{Kind: Timeout}
		default:
			return Result{}, &Error{Kind: SendFailed}
		}
	}

	msg, err := packet.ParseMessage(raw)
	if err != nil {
		return Result{}, &Error{Kind: Malformed}
	}

	if !random.ValidateResponse(id, msg.Header.ID) {
		return Result{}, &Error{Kind: Malformed}
	}

	if msg.Header.TC {
		return Result{}, &Error{Kind: Truncated}
	}

	if kind := rcodeKind(msg.Header.Rcode); kind != NoError {
		return Result{}, &Error{Kind: kind}
	}

	return Result{
		Answer:     msg.Answer,
		Authority:  msg.Authority,
		Additional: msg.Additional,
	}, nil
}
