package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes.
const (
	OutcomeSnippet        = "snippet"
	OutcomeDensity        = "density"
	OutcomeNotFound       = "not_found"
	OutcomeTransportError = "transport_error"
)

// Candidate failure reasons.
const (
	ReasonFetch    = "fetch"
	ReasonNoBlock  = "no_block"
	ReasonTooShort = "too_short"
)

// Metrics groups the counters exported by a lyrics lookup. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	LookupsTotal           *prometheus.CounterVec
	CandidateFailuresTotal *prometheus.CounterVec
	PageChecksTotal        *prometheus.CounterVec
}

// New creates the counters and registers them on reg when reg is non-nil.
// Counters already registered on reg by an earlier New are reused, so several
// clients can share one registry.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lyricsai_lookups_total",
				Help: "Total number of lyrics lookups by outcome",
			},
			[]string{"outcome"},
		),
		CandidateFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lyricsai_candidate_failures_total",
				Help: "Total number of candidate pages that did not yield lyrics",
			},
			[]string{"reason"},
		),
		PageChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lyricsai_page_checks_total",
				Help: "Total number of candidate content-type checks by result",
			},
			[]string{"result"},
		),
	}
	if reg == nil {
		return m, nil
	}
	var err error
	if m.LookupsTotal, err = register(reg, m.LookupsTotal); err != nil {
		return nil, err
	}
	if m.CandidateFailuresTotal, err = register(reg, m.CandidateFailuresTotal); err != nil {
		return nil, err
	}
	if m.PageChecksTotal, err = register(reg, m.PageChecksTotal); err != nil {
		return nil, err
	}
	return m, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}
	return nil, err
}

func (m *Metrics) Lookup(outcome string) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CandidateFailure(reason string) {
	if m == nil {
		return
	}
	m.CandidateFailuresTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) PageCheck(isHTML bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if isHTML {
		result = "html"
	}
	m.PageChecksTotal.WithLabelValues(result).Inc()
}
