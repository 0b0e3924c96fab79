// Command resolved is an optional, YAML-configured diagnostics daemon
// that serves a debug resolve endpoint and Prometheus metrics. It is
// additive — it does not change the strict, zero-flag CLI contract
// implemented by cmd/resolve.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dnsscience/stubresolve/internal/packet"
	"github.com/dnsscience/stubresolve/internal/resolve"
	"github.com/dnsscience/stubresolve/internal/telemetry"
	"github.com/dnsscience/stubresolve/internal/worker"
)

func main() {
	cfg := DefaultConfig()
	if len(os.Args) > 1 {
		loaded, err := LoadConfig(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "resolved: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	log := telemetry.NewLogger("resolved")
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)
	pool := worker.NewPool(worker.Config{Workers: cfg.Workers})
	defer pool.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/resolve", debugResolveHandler(pool, metrics))

	log.Printf("listening on %s (metrics on %s)", cfg.ListenAddr, cfg.MetricsAddr)

	go func() {
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			log.Printf("metrics server exited: %v", err)
		}
	}()

	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

type resolveResponse struct {
	Host      string   `json:"host"`
	Addresses []string `json:"addresses,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func debugResolveHandler(pool *worker.Pool, metrics *telemetry.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		host := req.URL.Query().Get("host")
		if host == "" {
			http.Error(w, "missing host query parameter", http.StatusBadRequest)
			return
		}

		var resp resolveResponse
		resp.Host = host

		err := pool.Submit(req.Context(), worker.JobFunc(func(ctx context.Context) error {
			r := resolve.New()
			ips, err := r.Resolve(host, packet.TypeA)
			if err != nil {
				kind := resolve.AsErrorKind(err)
				metrics.Errors.WithLabelValues(kind.String()).Inc()
				resp.Error = kind.String()
				return nil
			}
			for _, ip := range ips {
				resp.Addresses = append(resp.Addresses, ip.String())
			}
			return nil
		}))
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
