package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ArticleScorer/internal/domain"
	"ArticleScorer/internal/ports"
)

// Recorder exports scoring and rubric mutation metrics on its own registry.
type Recorder struct {
	registry  *prometheus.Registry
	scores    *prometheus.HistogramVec
	evaluated *prometheus.CounterVec
	mutations *prometheus.CounterVec
}

var _ ports.Metrics = (*Recorder)(nil)

// New registers the collectors. Process and Go runtime collectors are
// included so /metrics is useful on its own.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "articlescorer",
			Name:      "score",
			Help:      "Normalized article scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}, []string{"rubric"}),
		evaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "articlescorer",
			Name:      "criteria_evaluated_total",
			Help:      "Criteria evaluated, by check type and outcome.",
		}, []string{"check_type", "valid"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "articlescorer",
			Name:      "rubric_mutations_total",
			Help:      "Rubric mutations, by operation and result.",
		}, []string{"op", "result"}),
	}

	r.registry.MustRegister(
		r.scores,
		r.evaluated,
		r.mutations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveScore records one evaluation.
func (r *Recorder) ObserveScore(result domain.ScoreResult, isDefault, fallback bool) {
	label := "custom"
	switch {
	case fallback:
		label = "fallback"
	case isDefault:
		label = "default"
	}
	r.scores.WithLabelValues(label).Observe(float64(result.Score))

	for _, d := range result.Details {
		valid := "false"
		if d.IsValid {
			valid = "true"
		}
		r.evaluated.WithLabelValues(string(d.CheckType), valid).Inc()
	}
}

// ObserveMutation counts a rubric mutation by its error kind.
func (r *Recorder) ObserveMutation(op string, err error) {
	r.mutations.WithLabelValues(op, resultLabel(err)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, domain.ErrAlreadyInitialized):
		return "already_initialized"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidCriterion):
		return "invalid"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
