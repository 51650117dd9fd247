// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gbesset/alyra-voting/cliparse"
	"github.com/gbesset/alyra-voting/metrics"
	"github.com/gbesset/alyra-voting/middleware"
	"github.com/gbesset/alyra-voting/models"
	"github.com/gbesset/alyra-voting/sessions"
	"github.com/gbesset/alyra-voting/voting"
)

type ProposalHandler struct {
	registry *sessions.Registry
	metrics  *metrics.Metrics
	cfg      cliparse.Config
}

func NewProposalHandler(registry *sessions.Registry, m *metrics.Metrics, cfg cliparse.Config) *ProposalHandler {
	return &ProposalHandler{registry: registry, metrics: m, cfg: cfg}
}

// AddProposal handles POST /sessions/{id}/proposals
func (h *ProposalHandler) AddProposal(w http.ResponseWriter, r *http.Request) {
	sess, caller, ok := loadSession(w, r, h.registry, h.cfg)
	if !ok {
		return
	}

	var req models.AddProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Empty descriptions go through to the engine so that role and phase
	// errors take precedence.
	var id int
	err := runOp(r, h.metrics, sess, "add_proposal", func() error {
		var err error
		id, err = sess.Engine.AddProposal(caller, req.Description)
		return err
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	slog.Info("proposal registered", "session_id", sess.ID, "proposal_id", id, "voter", caller)

	middleware.JSONResponse(w, http.StatusCreated, models.AddProposalResponse{ProposalID: id})
}

// GetProposal handles GET /sessions/{id}/proposals/{pid}
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	sess, caller, ok := loadSession(w, r, h.registry, h.cfg)
	if !ok {
		return
	}

	pid, err := strconv.Atoi(r.PathValue("pid"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal id must be an integer")
		return
	}

	var proposal voting.Proposal
	err = runOp(r, h.metrics, sess, "get_proposal", func() error {
		var err error
		proposal, err = sess.Engine.Proposal(caller, pid)
		return err
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProposalResponse{ProposalID: pid, Proposal: proposal})
}
