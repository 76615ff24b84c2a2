package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSearchCountsOutcomes(t *testing.T) {
	m := New()

	m.ObserveSearch(OutcomePublished, 10*time.Millisecond)
	m.ObserveSearch(OutcomeSuperseded, 0)
	m.ObserveSearch(OutcomeSuperseded, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues(OutcomePublished)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues(OutcomeSuperseded)))
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveLookup(LookupFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.LookupsTotal.WithLabelValues(LookupFound)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.LookupsTotal.WithLabelValues(LookupFound)))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveSearch(OutcomePublished, time.Second)
	m.ObserveLookup(LookupError, time.Second)
	m.ObserveCategoryFailure("users")
	m.SetSectionRows("user", 3)
	assert.Nil(t, m.Registry())
}
