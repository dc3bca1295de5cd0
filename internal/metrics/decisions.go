package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/banshee-data/path.decider/internal/planning/pathdecider"
)

const namespace = "pathdecider"

// DecisionMetrics records decider outcomes. It implements
// pathdecider.Recorder.
type DecisionMetrics struct {
	decisions    *prometheus.CounterVec
	skipped      *prometheus.CounterVec
	undecided    prometheus.Counter
	pathErrors   prometheus.Counter
	stopDistance prometheus.Histogram
}

var _ pathdecider.Recorder = (*DecisionMetrics)(nil)

// NewDecisionMetrics creates the collectors and registers them with reg.
func NewDecisionMetrics(reg prometheus.Registerer) (*DecisionMetrics, error) {
	m := &DecisionMetrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Decisions written, by axis and type.",
		}, []string{"axis", "type"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_total",
			Help:      "Obstacles left untouched, by skip rule.",
		}, []string{"reason"}),
		undecided: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "undecided_total",
			Help:      "Obstacles beside the path left without a decision because nudging is disabled.",
		}),
		pathErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "path_errors_total",
			Help:      "Cycles rejected for missing or empty path data.",
		}),
		stopDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stop_distance_meters",
			Help:      "Distance before the obstacle at which stops are placed.",
			Buckets:   []float64{0.5, 1, 2, 4, 6, 8, 10, 15},
		}),
	}
	for _, c := range []prometheus.Collector{m.decisions, m.skipped, m.undecided, m.pathErrors, m.stopDistance} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveOutcome counts the decisions implied by o.
func (m *DecisionMetrics) ObserveOutcome(o pathdecider.Outcome) {
	switch o {
	case pathdecider.OutcomeSkippedDynamic:
		m.skipped.WithLabelValues("dynamic").Inc()
	case pathdecider.OutcomeSkippedIgnored:
		m.skipped.WithLabelValues("ignored").Inc()
	case pathdecider.OutcomeSkippedStopped:
		m.skipped.WithLabelValues("stopped").Inc()
	case pathdecider.OutcomeSkippedKeepClear:
		m.skipped.WithLabelValues("keep_clear").Inc()
	case pathdecider.OutcomeOutOfRange:
		m.decisions.WithLabelValues("longitudinal", "ignore").Inc()
		m.decisions.WithLabelValues("lateral", "ignore").Inc()
	case pathdecider.OutcomeIgnore:
		m.decisions.WithLabelValues("lateral", "ignore").Inc()
	case pathdecider.OutcomeStop:
		m.decisions.WithLabelValues("longitudinal", "stop").Inc()
	case pathdecider.OutcomeNudgeLeft:
		m.decisions.WithLabelValues("lateral", "nudge_left").Inc()
	case pathdecider.OutcomeNudgeRight:
		m.decisions.WithLabelValues("lateral", "nudge_right").Inc()
	case pathdecider.OutcomeUndecided:
		m.undecided.Inc()
	}
}

// ObserveStopDistance records one stop distance in metres.
func (m *DecisionMetrics) ObserveStopDistance(d float64) {
	m.stopDistance.Observe(d)
}

// ObservePathError counts a rejected cycle.
func (m *DecisionMetrics) ObservePathError() {
	m.pathErrors.Inc()
}
