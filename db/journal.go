// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gbesset/alyra-voting/models"
	"github.com/gbesset/alyra-voting/voting"
)

// Journal is the append-only record of session notifications. It is an
// audit trail; engines are never rebuilt from it.
type Journal struct {
	db *sql.DB
}

func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

func (j *Journal) Name() string { return "journal" }

// Publish appends env, so a Journal can serve as a notification sink.
func (j *Journal) Publish(ctx context.Context, env models.Envelope) error {
	return j.Append(ctx, env)
}

func (j *Journal) Append(ctx context.Context, env models.Envelope) error {
	var (
		voter, prev, next sql.NullString
		proposal          sql.NullInt64
	)
	if env.Kind.HasVoter() {
		voter = sql.NullString{String: string(env.Voter), Valid: true}
	}
	if env.Kind.HasProposal() {
		proposal = sql.NullInt64{Int64: int64(env.ProposalID), Valid: true}
	}
	if env.Kind.HasPhases() {
		prev = sql.NullString{String: env.Previous.String(), Valid: true}
		next = sql.NullString{String: env.Next.String(), Valid: true}
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO event_log (session_id, seq, kind, voter, proposal_id, previous_phase, new_phase, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, env.SessionID, int64(env.Seq), string(env.Kind), voter, proposal, prev, next, env.At.UTC())
	if err != nil {
		return fmt.Errorf("failed to append event %s/%d: %w", env.SessionID, env.Seq, err)
	}
	return nil
}

// List returns a session's events in emission order. Columns that do not
// belong to an event's kind are NULL and come back as zero values.
func (j *Journal) List(ctx context.Context, sessionID string) ([]models.Envelope, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, kind, voter, proposal_id, previous_phase, new_phase, occurred_at
		FROM event_log
		WHERE session_id = $1
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []models.Envelope{}
	for rows.Next() {
		var (
			env        models.Envelope
			seq        int64
			kind       string
			voter      sql.NullString
			proposal   sql.NullInt64
			prev, next sql.NullString
		)
		if err := rows.Scan(&seq, &kind, &voter, &proposal, &prev, &next, &env.At); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		env.SessionID = sessionID
		env.Seq = uint64(seq)
		env.Kind = voting.EventKind(kind)
		env.Voter = voting.Identity(voter.String)
		env.ProposalID = int(proposal.Int64)
		if prev.Valid {
			if env.Previous, err = voting.ParsePhase(prev.String); err != nil {
				return nil, fmt.Errorf("event %d: %w", seq, err)
			}
		}
		if next.Valid {
			if env.Next, err = voting.ParsePhase(next.String); err != nil {
				return nil, fmt.Errorf("event %d: %w", seq, err)
			}
		}
		env.At = env.At.UTC()
		events = append(events, env)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}
