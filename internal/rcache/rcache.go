// Package rcache is the resolver's process-local name-server address
// cache: a mapping from absolute owner name to the set of IPv4
// addresses gathered for it from additional-section glue during a
// walk. It carries no TTL eviction and no locking — a single
// resolver instance is used single-threaded for the lifetime of one
// resolve, per the resolver's own non-goals.
//
// Keys are hashed with siphash rather than compared as raw strings so
// that an attacker feeding the resolver attacker-chosen owner names
// (via malicious glue) can't target map-bucket collisions with a
// known hash function.
package rcache

import (
	"net"
	"sync/atomic"

	"github.com/dchest/siphash"
)

// cacheKey is fixed for the process lifetime: it only needs to be
// unpredictable to a remote peer, not persisted or shared.
var cacheKey = [16]byte{0x4d, 0x4e, 0x53, 0x43, 0x61, 0x63, 0x68, 0x65, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

func hashName(name string) uint64 {
	return siphash.Hash(
		uint64(cacheKey[0])|uint64(cacheKey[1])<<8|uint64(cacheKey[2])<<16|uint64(cacheKey[3])<<24|
			uint64(cacheKey[4])<<32|uint64(cacheKey[5])<<40|uint64(cacheKey[6])<<48|uint64(cacheKey[7])<<56,
		uint64(cacheKey[8])|uint64(cacheKey[9])<<8|uint64(cacheKey[10])<<16|uint64(cacheKey[11])<<24|
			uint64(cacheKey[12])<<32|uint64(cacheKey[13])<<40|uint64(cacheKey[14])<<48|uint64(cacheKey[15])<<56,
		[]byte(name),
	)
}

// entry holds the owner name (kept for collision/debug purposes — the
// hash is not reversible) and the addresses observed for it.
type entry struct {
	name      string
	addresses map[string]net.IP // keyed by IP.String() to dedupe
}

// Cache is the resolver's per-resolve-tree name cache. The zero value
// is not usable; construct with New.
type Cache struct {
	entries map[uint64]*entry

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[uint64]*entry)}
}

// Lookup returns the cached address set for name, if any. The
// returned slice is a copy; callers may not mutate the cache through it.
func (c *Cache) Lookup(name string) ([]net.IP, bool) {
	e, ok := c.entries[hashName(name)]
	if !ok || e.name != name {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	ips := make([]net.IP, 0, len(e.addresses))
	for _, ip := range e.addresses {
		ips = append(ips, ip)
	}
	return ips, true
}

// Add merges ip into the address set cached for name, creating the
// entry if it doesn't exist yet.
func (c *Cache) Add(name string, ip net.IP) {
	key := hashName(name)
	e, ok := c.entries[key]
	if !ok {
		e = &entry{name: name, addresses: make(map[string]net.IP, 1)}
		c.entries[key] = e
	}
	e.addresses[ip.String()] = ip
}

// Stats reports cache hit/miss counters for observability. They are
// not fed into the internal/telemetry collectors.
type Stats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// GetStats returns a snapshot of the cache's counters.
func (c *Cache) GetStats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   len(c.entries),
	}
}
