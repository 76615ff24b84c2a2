package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mixsearch"

// Search outcomes.
const (
	OutcomePublished  = "published"
	OutcomeSuperseded = "superseded"
	OutcomeCancelled  = "cancelled"
)

// Lookup results.
const (
	LookupFound     = "found"
	LookupNotFound  = "not_found"
	LookupError     = "error"
	LookupCancelled = "cancelled"
	LookupCached    = "cached"
)

// Metrics holds the Prometheus collectors for search and number lookup.
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal      *prometheus.CounterVec
	SearchDuration     prometheus.Histogram
	CategoryFailures   *prometheus.CounterVec
	LookupsTotal       *prometheus.CounterVec
	LookupDuration     prometheus.Histogram
	SectionRowsVisible *prometheus.GaugeVec
}

// New registers all collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Search requests by outcome",
		}, []string{"outcome"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Time spent running the local fan-out",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		CategoryFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "category_failures_total",
			Help:      "Local category queries that failed and were shown as empty",
		}, []string{"category"}),
		LookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lookup",
			Name:      "requests_total",
			Help:      "Remote number lookups by result",
		}, []string{"result"}),
		LookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "lookup",
			Name:      "duration_seconds",
			Help:      "Round trip of remote number lookups",
			Buckets:   prometheus.DefBuckets,
		}),
		SectionRowsVisible: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "section_rows",
			Help:      "Rows shown per section for the last published search",
		}, []string{"section"}),
	}
}

// Registry exposes the private registry for scraping and tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveSearch(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomePublished {
		m.SearchDuration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) ObserveCategoryFailure(category string) {
	if m == nil {
		return
	}
	m.CategoryFailures.WithLabelValues(category).Inc()
}

func (m *Metrics) ObserveLookup(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(result).Inc()
	if elapsed > 0 {
		m.LookupDuration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) SetSectionRows(section string, rows int) {
	if m == nil {
		return
	}
	m.SectionRowsVisible.WithLabelValues(section).Set(float64(rows))
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
