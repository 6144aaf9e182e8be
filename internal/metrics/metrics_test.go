package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsAndRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m.Lookup(OutcomeSnippet)
	m.Lookup(OutcomeSnippet)
	m.CandidateFailure(ReasonFetch)
	m.PageCheck(true)
	m.PageCheck(false)

	if got := testutil.ToFloat64(m.LookupsTotal.WithLabelValues(OutcomeSnippet)); got != 2 {
		t.Fatalf("expected 2 snippet lookups, got %v", got)
	}
	if got := testutil.ToFloat64(m.CandidateFailuresTotal.WithLabelValues(ReasonFetch)); got != 1 {
		t.Fatalf("expected 1 fetch failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.PageChecksTotal.WithLabelValues("rejected")); got != 1 {
		t.Fatalf("expected 1 rejected check, got %v", got)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 3 {
		t.Fatalf("expected 3 metric families, got %d", len(families))
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.Lookup(OutcomeNotFound)
	m.CandidateFailure(ReasonTooShort)
	m.PageCheck(true)
}

func TestMetrics_UnregisteredStillCounts(t *testing.T) {
	m, err := New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m.Lookup(OutcomeDensity)
	if got := testutil.ToFloat64(m.LookupsTotal.WithLabelValues(OutcomeDensity)); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestMetrics_SharedRegistryReusesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := New(reg)
	if err != nil {
		t.Fatalf("first new: %v", err)
	}
	b, err := New(reg)
	if err != nil {
		t.Fatalf("second new on same registry: %v", err)
	}
	a.Lookup(OutcomeSnippet)
	b.Lookup(OutcomeSnippet)
	if got := testutil.ToFloat64(a.LookupsTotal.WithLabelValues(OutcomeSnippet)); got != 2 {
		t.Fatalf("expected shared counter at 2, got %v", got)
	}
}

func TestMetrics_ConflictingCollectorIsError(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lyricsai_lookups_total",
		Help: "clashing help",
	}))
	if _, err := New(reg); err == nil {
		t.Fatalf("expected registration error for conflicting collector")
	}
}
