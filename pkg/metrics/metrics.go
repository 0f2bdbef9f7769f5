// Package metrics exposes Prometheus counters for workflow runs, loop
// iterations, open browser contexts and recorded interaction events.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pagerun"

// Iteration results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	metricRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Number of orchestrated runs, by run mode.",
	}, []string{"mode"})
	metricIterations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "iterations_total",
		Help:      "Number of workflow executions, by workflow and result.",
	}, []string{"workflow", "result"})
	metricContextsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "contexts_open",
		Help:      "Browser contexts currently open.",
	})
	metricEventsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_recorded_total",
		Help:      "Interaction events captured by instrumented contexts, by type.",
	}, []string{"type"})
)

// RecordRun counts one orchestrated run.
func RecordRun(mode string) {
	metricRuns.WithLabelValues(mode).Inc()
}

// RecordIteration counts one workflow execution.
func RecordIteration(workflow string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	metricIterations.WithLabelValues(workflow, result).Inc()
}

// ContextOpened increments the open context gauge.
func ContextOpened() {
	metricContextsOpen.Inc()
}

// ContextClosed decrements the open context gauge.
func ContextClosed() {
	metricContextsOpen.Dec()
}

// RecordEvent counts one captured interaction event.
func RecordEvent(eventType string) {
	metricEventsRecorded.WithLabelValues(eventType).Inc()
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Serve exposes /metrics on addr until ctx is canceled, then shuts the
// server down. It returns nil after a clean shutdown.
func Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve metrics: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down metrics server: %w", err)
	}
	return nil
}
