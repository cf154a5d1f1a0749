// Package metrics exposes the process-wide Prometheus registry for the
// action pipeline and the game tick loop, following the eventbus package's
// MetricsExporter idiom: plain counters/gauges/histograms registered once
// at startup, with an HTTP exporter started separately.
package metrics

import (
	"net/http"

	"github.com/and0p/chaos-core/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActionsExecuted counts every Execute() call, labeled by whether the
	// pipeline actually applied a state change.
	ActionsExecuted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "game",
		Name:      "actions_executed_total",
		Help:      "Actions run through the pipeline, labeled by outcome.",
	}, []string{"outcome"})

	// PermissionDenials counts actions whose decide_permission step denied.
	PermissionDenials = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "game",
		Name:      "permission_denials_total",
		Help:      "Actions denied by decide_permission.",
	})

	// ListenerPanics counts recovered panics from sensor/modifier/reacter
	// handlers (component.ListenerPanicHandler).
	ListenerPanics = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "game",
		Name:      "listener_panics_total",
		Help:      "Panics recovered from component sense/modify/react handlers.",
	})

	// ReactionDepth observes the nested depth a reaction chain reached
	// before completing or hitting the recursion cap.
	ReactionDepth = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "game",
		Name:      "reaction_depth",
		Help:      "Nested depth reached by a reaction chain.",
		Buckets:   prometheus.LinearBuckets(0, 1, 11),
	})

	// TickDuration observes wall-clock time spent draining the action
	// queue to a fixed point each tick.
	TickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "game",
		Name:      "tick_duration_seconds",
		Help:      "Time spent draining the action queue per tick.",
		Buckets:   prometheus.DefBuckets,
	})

	// ConnectedPlayers counts the Player containers the game has created;
	// a disconnect does not decrement it.
	ConnectedPlayers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "game",
		Name:      "connected_players",
		Help:      "Player containers created since startup.",
	})
)

func init() {
	prometheus.MustRegister(
		ActionsExecuted,
		PermissionDenials,
		ListenerPanics,
		ReactionDepth,
		TickDuration,
		ConnectedPlayers,
	)
}

// StartHTTP launches the /metrics endpoint in a background goroutine. Not
// blocking: the caller continues immediately.
func StartHTTP(addr string) {
	go func() {
		logging.LogInfo("prometheus /metrics listening on %s", addr)
		if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil {
			logging.LogError("prometheus http server: %v", err)
		}
	}()
}
