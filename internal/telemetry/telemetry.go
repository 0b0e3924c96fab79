// Package telemetry is the resolver's ambient logging and metrics
// surface: a prefixed wrapper around the standard log package, plus
// Prometheus collectors built on prometheus/client_golang.
package telemetry

import (
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
)

// Logger is a minimal, level-free logger writing prefixed lines to
// stderr.
type Logger struct {
	*log.Logger
}

// NewLogger returns a Logger writing to stderr with the given prefix.
func NewLogger(prefix string) *Logger {
	return &Logger{log.New(os.Stderr, prefix+": ", log.LstdFlags)}
}

// Metrics holds the Prometheus collectors for resolver activity:
// queries sent, cache hits/misses, referrals followed, errors by kind,
// and resolve duration. The resolver walk itself updates none of them;
// cmd/resolved increments Errors for failed debug resolves.
type Metrics struct {
	QueriesSent     *prometheus.CounterVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	ReferralsChased prometheus.Counter
	Errors          *prometheus.CounterVec
	ResolveDuration prometheus.Histogram
}

// NewMetrics registers and returns the resolver's collectors against
// reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueriesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dnsresolve",
			Name:      "queries_sent_total",
			Help:      "Queries sent to a nameserver, labeled by query type.",
		}, []string{"qtype"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dnsresolve",
			Name:      "cache_hits_total",
			Help:      "Name-server address cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dnsresolve",
			Name:      "cache_misses_total",
			Help:      "Name-server address cache misses.",
		}),
		ReferralsChased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dnsresolve",
			Name:      "referrals_chased_total",
			Help:      "Referrals followed during iterative resolution.",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dnsresolve",
			Name:      "errors_total",
			Help:      "Resolve errors, labeled by error kind.",
		}, []string{"kind"}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dnsresolve",
			Name:      "resolve_duration_seconds",
			Help:      "Wall-clock duration of a top-level resolve.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.QueriesSent, m.CacheHits, m.CacheMisses, m.ReferralsChased, m.Errors, m.ResolveDuration)
	return m
}
