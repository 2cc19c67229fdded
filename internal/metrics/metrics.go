package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CatalogRequestsTotal counts catalog API requests by endpoint and outcome.
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of catalog API requests.",
		},
		[]string{"endpoint", "status"},
	)

	// SubtitleDownloadsTotal counts subtitle downloads by outcome.
	SubtitleDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_downloads_total",
			Help: "Total number of subtitle downloads.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		CatalogRequestsTotal,
		SubtitleDownloadsTotal,
	)
}
