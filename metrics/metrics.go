// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for voting sessions.
type Metrics struct {
	SessionsCreated     prometheus.Counter
	VotersRegistered    prometheus.Counter
	ProposalsRegistered prometheus.Counter
	VotesCast           prometheus.Counter
	PhaseTransitions    *prometheus.CounterVec
	OperationsRejected  *prometheus.CounterVec
	OperationDuration   *prometheus.HistogramVec
}

// New registers all collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "voting_sessions_created_total",
			Help: "Total number of voting sessions created",
		}),
		VotersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "voting_voters_registered_total",
			Help: "Total number of voters registered across sessions",
		}),
		ProposalsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "voting_proposals_registered_total",
			Help: "Total number of proposals submitted across sessions",
		}),
		VotesCast: factory.NewCounter(prometheus.CounterOpts{
			Name: "voting_votes_cast_total",
			Help: "Total number of ballots cast across sessions",
		}),
		PhaseTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voting_phase_transitions_total",
			Help: "Phase changes, labelled by the phase entered",
		}, []string{"phase"}),
		OperationsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voting_operations_rejected_total",
			Help: "Engine operations refused, labelled by error code",
		}, []string{"code"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voting_operation_duration_seconds",
			Help:    "Duration of engine operations served over HTTP",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementSessionsCreated() {
	m.SessionsCreated.Inc()
}

// IncrementRejected records a refused operation by its error code.
func (m *Metrics) IncrementRejected(code string) {
	if code == "" {
		code = "internal"
	}
	m.OperationsRejected.WithLabelValues(code).Inc()
}

// ObserveOperation records the duration of an operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
