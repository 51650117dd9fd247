// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"log/slog"

	"github.com/gbesset/alyra-voting/metrics"
	"github.com/gbesset/alyra-voting/models"
	"github.com/gbesset/alyra-voting/voting"
)

// LogSink writes every envelope to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Publish(ctx context.Context, env models.Envelope) error {
	attrs := []any{
		"session_id", env.SessionID,
		"seq", env.Seq,
		"kind", env.Kind,
	}
	switch env.Kind {
	case voting.KindParticipantRegistered:
		attrs = append(attrs, "voter", env.Voter)
	case voting.KindProposalRegistered:
		attrs = append(attrs, "proposal_id", env.ProposalID)
	case voting.KindVoteCast:
		attrs = append(attrs, "voter", env.Voter, "proposal_id", env.ProposalID)
	case voting.KindPhaseChanged:
		attrs = append(attrs, "previous_phase", env.Previous.String(), "new_phase", env.Next.String())
	}
	s.logger.InfoContext(ctx, "voting event", attrs...)
	return nil
}

// MetricsSink counts envelopes by kind.
type MetricsSink struct {
	metrics *metrics.Metrics
}

func NewMetricsSink(m *metrics.Metrics) *MetricsSink {
	return &MetricsSink{metrics: m}
}

func (s *MetricsSink) Name() string { return "metrics" }

func (s *MetricsSink) Publish(_ context.Context, env models.Envelope) error {
	switch env.Kind {
	case voting.KindParticipantRegistered:
		s.metrics.VotersRegistered.Inc()
	case voting.KindProposalRegistered:
		s.metrics.ProposalsRegistered.Inc()
	case voting.KindVoteCast:
		s.metrics.VotesCast.Inc()
	case voting.KindPhaseChanged:
		s.metrics.PhaseTransitions.WithLabelValues(env.Next.String()).Inc()
	}
	return nil
}
