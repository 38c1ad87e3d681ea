// Package metrics exposes Prometheus instrumentation for the swap core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SwapsProposed counts swap proposals by outcome (created / rejected).
	SwapsProposed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gameswap_swaps_proposed_total",
			Help: "Total number of swap proposals",
		},
		[]string{"outcome"},
	)

	// SwapsDecided counts recipient decisions by result
	// (completed / rejected / failed).
	SwapsDecided = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gameswap_swaps_decided_total",
			Help: "Total number of swap decisions",
		},
		[]string{"result"},
	)

	// FeedbackRecorded counts feedback submissions by outcome
	// (recorded / duplicate).
	FeedbackRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gameswap_feedback_total",
			Help: "Total number of feedback submissions",
		},
		[]string{"outcome"},
	)

	// UsersTotal mirrors the registered user count.
	UsersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gameswap_users_total",
			Help: "Total number of registered users",
		},
	)

	// ItemsActive mirrors the active listing count.
	ItemsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gameswap_items_active",
			Help: "Number of active listings",
		},
	)
)

func init() {
	prometheus.MustRegister(
		SwapsProposed,
		SwapsDecided,
		FeedbackRecorded,
		UsersTotal,
		ItemsActive,
	)
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
