package resolve

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsscience/stubresolve/internal/packet"
)

// fakeServer answers every query it receives using respond, which is
// handed the parsed query and returns the raw response bytes to send
// back.
func fakeServer(t *testing.T, respond func(q *packet.Message) []byte) (net.IP, func()) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)

	go func() {
		buf := make([]byte, 4096)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			msg, err := packet.ParseMessage(buf[:n])
			if err != nil {
				continue
			}
			reply := respond(msg)
			if reply != nil {
				conn.WriteToUDP(reply, addr)
			}
		}
	}()

	return conn.LocalAddr().(*net.UDPAddr).IP, func() { conn.Close() }
}

func header(id uint16, rcode uint8, ancount, nscount, arcount uint16) []byte {
	buf := make([]byte, 12)
	buf[0] = byte(id >> 8)
	buf[1] = byte(id)
	buf[2] = 0x81 // QR=1, RD=1
	buf[3] = 0x80 | rcode
	buf[4], buf[5] = 0, 1 // qdcount = 1
	buf[6] = byte(ancount >> 8)
	buf[7] = byte(ancount)
	buf[8] = byte(nscount >> 8)
	buf[9] = byte(nscount)
	buf[10] = byte(arcount >> 8)
	buf[11] = byte(arcount)
	return buf
}

func encName(t *testing.T, name string) []byte {
	t.Helper()
	var out []byte
	for _, label := range splitLabels(name) {
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	out = append(out, 0)
	return out
}

func splitLabels(name string) []string {
	name = name[:len(name)-1] // drop trailing dot
	if name == "" {
		return nil
	}
	var labels []string
	start := 0
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			labels = append(labels, name[start:i])
			start = i + 1
		}
	}
	labels = append(labels, name[start:])
	return labels
}

func question(t *testing.T, name string, qtype uint16) []byte {
	buf := encName(t, name)
	buf = append(buf, 0, byte(qtype))
	buf = append(buf, 0, 1) // class IN
	return buf
}

func aRecord(t *testing.T, name string, ip net.IP) []byte {
	buf := encName(t, name)
	buf = append(buf, 0, byte(packet.TypeA))
	buf = append(buf, 0, 1)        // class IN
	buf = append(buf, 0, 0, 0, 60) // TTL
	buf = append(buf, 0, 4)
	buf = append(buf, ip.To4()...)
	return buf
}

func nsRecord(t *testing.T, zone, target string) []byte {
	buf := encName(t, zone)
	buf = append(buf, 0, byte(packet.TypeNS))
	buf = append(buf, 0, 1)        // class IN
	buf = append(buf, 0, 0, 0, 60) // TTL
	nameBuf := encName(t, target)
	buf = append(buf, byte(len(nameBuf)>>8), byte(len(nameBuf)))
	buf = append(buf, nameBuf...)
	return buf
}

// TestResolve_ReferralGlueIsCachedUnconditionally exercises a real-world
// delegation shape: a server refers example.com. to a.iana-servers.net.
// and hands back that name's address as out-of-bailiwick additional-
// section glue (iana-servers.net. is not a subdomain of example.com.).
// The glue must be cached and used directly, with no further lookup of
// the NS target's own address.
func TestResolve_ReferralGlueIsCachedUnconditionally(t *testing.T) {
	var queries int
	var serverIP net.IP

	ip, cleanup := fakeServer(t, func(q *packet.Message) []byte {
		queries++
		if queries == 1 {
			resp := header(q.Header.ID, 0, 0, 1, 1)
			resp = append(resp, question(t, "example.com.", packet.TypeA)...)
			resp = append(resp, nsRecord(t, "example.com.", "a.iana-servers.net.")...)
			resp = append(resp, aRecord(t, "a.iana-servers.net.", serverIP)...)
			return resp
		}
		resp := header(q.Header.ID, 0, 1, 0, 0)
		resp = append(resp, question(t, "example.com.", packet.TypeA)...)
		resp = append(resp, aRecord(t, "example.com.", net.ParseIP("93.184.216.34"))...)
		return resp
	})
	defer cleanup()
	serverIP = ip

	r := New()
	ips, err := r.walk("example.com.", packet.TypeA, []net.IP{ip}, map[string]bool{}, 0)
	require.NoError(t, err)
	require.Len(t, ips, 1)
	assert.True(t, ips[0].Equal(net.ParseIP("93.184.216.34")))
	assert.Equal(t, 2, queries, "glue must be used directly from cache, without a fresh lookup of the NS target's own address")

	cached, ok := r.cache.Lookup("a.iana-servers.net.")
	require.True(t, ok)
	require.Len(t, cached, 1)
	assert.True(t, cached[0].Equal(ip))
}

func TestResolve_DirectAnswer(t *testing.T) {
	ip, cleanup := fakeServer(t, func(q *packet.Message) []byte {
		resp := header(q.Header.ID, 0, 1, 0, 0)
		resp = append(resp, question(t, "example.com.", packet.TypeA)...)
		resp = append(resp, aRecord(t, "example.com.", net.ParseIP("93.184.216.34"))...)
		return resp
	})
	defer cleanup()

	r := New()
	ips, err := r.walk("example.com.", packet.TypeA, []net.IP{ip}, map[string]bool{}, 0)
	require.NoError(t, err)
	require.Len(t, ips, 1)
	assert.True(t, ips[0].Equal(net.ParseIP("93.184.216.34")))
}

func TestResolve_NxDomainIsFatal(t *testing.T) {
	ip, cleanup := fakeServer(t, func(q *packet.Message) []byte {
		resp := header(q.Header.ID, 3, 0, 0, 0) // NXDOMAIN
		resp = append(resp, question(t, "nonexistent.invalid.", packet.TypeA)...)
		return resp
	})
	defer cleanup()

	r := New()
	_, err := r.walk("nonexistent.invalid.", packet.TypeA, []net.IP{ip}, map[string]bool{}, 0)
	assert.Equal(t, NxDomain, AsErrorKind(err))
}

func TestResolve_TimeoutFallsThroughToNextServer(t *testing.T) {
	deadServer := net.ParseIP("192.0.2.1") // TEST-NET-1, never responds
	liveIP, cleanup := fakeServer(t, func(q *packet.Message) []byte {
		resp := header(q.Header.ID, 0, 1, 0, 0)
		resp = append(resp, question(t, "x.y.", packet.TypeA)...)
		resp = append(resp, aRecord(t, "x.y.", net.ParseIP("203.0.113.9"))...)
		return resp
	})
	defer cleanup()

	r := New()
	ips, err := r.walk("x.y.", packet.TypeA, []net.IP{deadServer, liveIP}, map[string]bool{}, 0)
	require.NoError(t, err)
	require.Len(t, ips, 1)
	assert.True(t, ips[0].Equal(net.ParseIP("203.0.113.9")))
}

func TestZoneAndTermination_SOATerminates(t *testing.T) {
	authority := []packet.RR{{Type: packet.TypeSOA, Name: "example.com."}}
	assert.True(t, zoneAndTermination(authority))
}

func TestZoneAndTermination_NSDoesNotTerminate(t *testing.T) {
	authority := []packet.RR{{Type: packet.TypeNS, Name: "example.com."}}
	assert.False(t, zoneAndTermination(authority))
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "example.com.", canonicalize("example.com"))
	assert.Equal(t, "example.com.", canonicalize("example.com."))
}
