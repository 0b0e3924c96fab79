// Package resolve implements the single-server exchange and the
// iterative, referral-chasing resolution walk, along with a closed
// set of error outcomes and the sense in which each is recoverable.
package resolve

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of outcomes a resolve attempt can
// produce, with an explicit recoverable/fatal classification
// available as a method.
type ErrorKind uint8

const (
	NoError ErrorKind = iota
	FormErr
	ServFail
	NxDomain
	NotImp
	Refused
	YxDomain
	XrrSet
	NotAuth
	NotZone
	Timeout
	SendFailed
	Truncated
	Malformed
	NoServers
	MaxDepth
)

var names = [...]string{
	NoError:    "NOERROR",
	FormErr:    "FORMERR",
	ServFail:   "SERVFAIL",
	NxDomain:   "NXDOMAIN",
	NotImp:     "NOTIMP",
	Refused:    "REFUSED",
	YxDomain:   "YXDOMAIN",
	XrrSet:     "XRRSET",
	NotAuth:    "NOTAUTH",
	NotZone:    "NOTZONE",
	Timeout:    "TIMEOUT",
	SendFailed: "SENDFAILED",
	Truncated:  "TRUNCATED",
	Malformed:  "MALFORMED",
	NoServers:  "NOSERVERS",
	MaxDepth:   "MAXDEPTH",
}

func (k ErrorKind) String() string {
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// rcodeKind maps a wire RCODE to its ErrorKind. Unknown
// RCODEs fall back to ServFail, the conservative fatal choice.
func rcodeKind(rcode uint8) ErrorKind {
	switch rcode {
	case 0:
		return NoError
	case 1:
		return FormErr
	case 2:
		return ServFail
	case 3:
		return NxDomain
	case 4:
		return NotImp
	case 5:
		return Refused
	case 6:
		return YxDomain
	case 7:
		return XrrSet
	case 8:
		return NotAuth
	case 9:
		return NotZone
	default:
		return ServFail
	}
}

// isFatal reports whether k should abort the whole iterative walk
// rather than trying the next candidate server: all protocol RCODEs
// are fatal, and only transport-level failures (timeout, send
// failure, truncation, malformed wire data) and the walk's own
// outcomes (exhausted candidates, depth limit) are recoverable.
func (k ErrorKind) isFatal() bool {
	switch k {
	case NoError, Timeout, SendFailed, Truncated, Malformed, NoServers, MaxDepth:
		return false
	default:
		return true
	}
}

// Error adapts an ErrorKind to the error interface so it can be
// returned and wrapped like any other Go error.
type Error struct {
	Kind ErrorKind
}

func (e *Error) Error() string {
	return fmt.Sprintf("resolve: %s", e.Kind)
}

// AsErrorKind extracts the ErrorKind from err if it (or something it
// wraps) is a *Error, defaulting to Malformed otherwise.
func AsErrorKind(err error) ErrorKind {
	if err == nil {
		return NoError
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Malformed
}
