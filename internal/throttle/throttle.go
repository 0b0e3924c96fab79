// Package throttle paces outbound queries per authoritative server so
// that a single resolve's sibling retries and referral fan-out don't
// hammer one nameserver. The limiter keys on the server being queried
// rather than a client address, since every exchange this resolver
// makes is outbound.
package throttle

import (
	"net"
	"time"

	"golang.org/x/time/rate"
)

// Config holds the limiter's token-bucket parameters.
type Config struct {
	QueriesPerSecond float64
	BurstSize        int
}

// DefaultConfig returns sensible defaults: generous enough that a
// normal walk never waits, tight enough to cap a pathological
// referral fan-out against one server.
func DefaultConfig() Config {
	return Config{QueriesPerSecond: 20, BurstSize: 40}
}

// Limiter is not safe for concurrent use, matching the resolver's own
// single-threaded design.
type Limiter struct {
	cfg      Config
	limiters map[string]*rate.Limiter
}

// New returns a limiter using cfg for every server it sees.
func New(cfg Config) *Limiter {
	return &Limiter{cfg: cfg, limiters: make(map[string]*rate.Limiter)}
}

// Wait blocks until a query to server is allowed to proceed, or
// returns immediately if it already is.
func (l *Limiter) Wait(server net.IP) {
	limiter := l.limiterFor(server)
	if limiter.Allow() {
		return
	}
	time.Sleep(limiter.Reserve().Delay())
}

func (l *Limiter) limiterFor(server net.IP) *rate.Limiter {
	key := server.String()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.cfg.QueriesPerSecond), l.cfg.BurstSize)
		l.limiters[key] = limiter
	}
	return limiter
}
