// Package metrics defines the Prometheus collectors for the sync engine.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Operation Metrics
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iplay_operations_total",
			Help: "Engine operations by name and outcome",
		},
		[]string{"op", "outcome"}, // outcome: "fulfilled", "rejected"
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iplay_operation_duration_seconds",
			Help:    "Engine operation latency",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30},
		},
		[]string{"op"},
	)

	// Remote API Metrics
	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iplay_remote_requests_total",
			Help: "Requests sent to the media server",
		},
		[]string{"endpoint", "status"},
	)

	PagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iplay_pagination_pages_total",
			Help: "Collection pages fetched by the pagination engine",
		},
	)

	CoalescedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iplay_coalesced_fetches_total",
			Help: "Fetches that joined an in-flight fetch for the same key",
		},
		[]string{"op"},
	)

	StaleWritesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iplay_stale_writes_dropped_total",
			Help: "Cache writes discarded because the active site changed",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iplay_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iplay_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// Serve exposes /metrics on addr until ctx is done
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
