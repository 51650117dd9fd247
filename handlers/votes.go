// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gbesset/alyra-voting/cliparse"
	"github.com/gbesset/alyra-voting/metrics"
	"github.com/gbesset/alyra-voting/middleware"
	"github.com/gbesset/alyra-voting/models"
	"github.com/gbesset/alyra-voting/sessions"
	"github.com/gbesset/alyra-voting/voting"
)

type VoteHandler struct {
	registry *sessions.Registry
	metrics  *metrics.Metrics
	cfg      cliparse.Config
}

func NewVoteHandler(registry *sessions.Registry, m *metrics.Metrics, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{registry: registry, metrics: m, cfg: cfg}
}

// CastVote handles POST /sessions/{id}/votes
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	sess, caller, ok := loadSession(w, r, h.registry, h.cfg)
	if !ok {
		return
	}

	var req models.SetVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	// Pointer so that a vote for GENESIS (0) is distinguishable from a missing field
	if req.ProposalID == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal_id is required")
		return
	}
	pid := *req.ProposalID

	var record voting.Voter
	err := runOp(r, h.metrics, sess, "set_vote", func() error {
		if err := sess.Engine.SetVote(caller, pid); err != nil {
			return err
		}
		var err error
		record, err = sess.Engine.Voter(caller, caller)
		return err
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	slog.Info("vote cast", "session_id", sess.ID, "voter", caller, "proposal_id", pid)

	middleware.JSONResponse(w, http.StatusOK, models.VoterResponse{ID: string(caller), Voter: record})
}
