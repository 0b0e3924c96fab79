package resolve

import (
	"net"
	"strings"

	"github.com/dnsscience/stubresolve/internal/packet"
	"github.com/dnsscience/stubresolve/internal/rcache"
	"github.com/dnsscience/stubresolve/internal/throttle"
)

// maxReferralDepth bounds referral-chasing recursion with an explicit
// depth limit rather than relying on the shallow depth of a
// well-formed delegation chain, which a malicious or misconfigured
// server could otherwise exploit to force unbounded recursion.
const maxReferralDepth = 20

// Resolver is the iterative, referral-chasing resolver. It owns one
// process-local address cache and is not safe for concurrent use by
// design — a single resolve drives one sequential walk.
type Resolver struct {
	cache    *rcache.Cache
	throttle *throttle.Limiter
}

// New returns a resolver with an empty cache and default per-server
// query pacing.
func New() *Resolver {
	return &Resolver{cache: rcache.New(), throttle: throttle.New(throttle.DefaultConfig())}
}

// Resolve walks the delegation chain for host/qtype starting from the
// root hints, following referrals until it produces a final answer
// set or a definite error.
func (r *Resolver) Resolve(host string, qtype uint16) ([]net.IP, error) {
	host = canonicalize(host)
	inFlight := make(map[string]bool)
	return r.walk(host, qtype, RootHints(), inFlight, 0)
}

// Stats exposes the underlying cache's hit/miss counters.
func (r *Resolver) Stats() rcache.Stats {
	return r.cache.GetStats()
}

func canonicalize(host string) string {
	if strings.HasSuffix(host, ".") {
		return host
	}
	return host + "."
}

// walk performs one level of the iterative algorithm against
// candidates, recursing for referrals and for resolving an NS
// target's own address. inFlight guards against referral cycles: a
// name already being resolved higher up this call tree is skipped
// instead of recursed into again.
func (r *Resolver) walk(host string, qtype uint16, candidates []net.IP, inFlight map[string]bool, depth int) ([]net.IP, error) {
	if depth > maxReferralDepth {
		return nil, &Error{Kind: MaxDepth}
	}

	if ips, ok := r.cache.Lookup(host); ok {
		return ips, nil
	}

	for _, server := range candidates {
		r.throttle.Wait(server)
		result, err := QueryOne(host, qtype, server)
		if err != nil {
			kind := AsErrorKind(err)
			if kind.isFatal() {
				return nil, err
			}
			continue
		}

		if zoneAndTermination(result.Authority) {
			return nil, nil
		}

		r.populateGlue(result.Additional)

		if ips := extractA(result.Answer); len(ips) > 0 {
			return ips, nil
		}

		nsNames := nsTargets(result.Authority)
		if len(nsNames) == 0 {
			continue
		}

		var nextCandidates []net.IP
		for _, ns := range nsNames {
			if inFlight[ns] {
				continue
			}
			inFlight[ns] = true
			nsIPs, err := r.walk(ns, packet.TypeA, RootHints(), inFlight, depth+1)
			delete(inFlight, ns)
			if err != nil {
				if AsErrorKind(err).isFatal() {
					return nil, err
				}
				continue
			}
			nextCandidates = append(nextCandidates, nsIPs...)
		}

		if len(nextCandidates) == 0 {
			continue
		}

		ips, err := r.walk(host, qtype, nextCandidates, inFlight, depth+1)
		if err != nil {
			if AsErrorKind(err).isFatal() {
				return nil, err
			}
			continue
		}
		return ips, nil
	}

	return nil, &Error{Kind: NoServers}
}

// zoneAndTermination reports whether authority carries an SOA record,
// meaning the delegation chain has ended here.
func zoneAndTermination(authority []packet.RR) (terminated bool) {
	for _, rr := range authority {
		if rr.Type == packet.TypeSOA {
			return true
		}
	}
	return false
}

// populateGlue caches every A record in additional, keyed by owner
// name.
func (r *Resolver) populateGlue(additional []packet.RR) {
	for _, rr := range additional {
		if rr.Type != packet.TypeA {
			continue
		}
		ip, err := rr.AsIPv4()
		if err != nil {
			continue
		}
		r.cache.Add(rr.Name, ip)
	}
}

func extractA(answer []packet.RR) []net.IP {
	var ips []net.IP
	for _, rr := range answer {
		if rr.Type != packet.TypeA {
			continue
		}
		if ip, err := rr.AsIPv4(); err == nil {
			ips = append(ips, ip)
		}
	}
	return ips
}

func nsTargets(authority []packet.RR) []string {
	var names []string
	for _, rr := range authority {
		if rr.Type != packet.TypeNS {
			continue
		}
		if name, err := rr.AsName(); err == nil {
			names = append(names, name)
		}
	}
	return names
}
