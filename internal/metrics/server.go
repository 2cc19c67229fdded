package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// defaultPort is used when the metrics port is left unset in config.
const defaultPort = 9090

// NewServer builds the HTTP server exposing the engine's Prometheus metrics
// under /metrics. The caller owns its lifecycle.
func NewServer(address string, port int) *http.Server {
	if port <= 0 {
		port = defaultPort
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", address, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
