// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gbesset/alyra-voting/auth"
	"github.com/gbesset/alyra-voting/cliparse"
	"github.com/gbesset/alyra-voting/metrics"
	"github.com/gbesset/alyra-voting/middleware"
	"github.com/gbesset/alyra-voting/models"
	"github.com/gbesset/alyra-voting/sessions"
	"github.com/gbesset/alyra-voting/voting"
)

type VoterHandler struct {
	registry *sessions.Registry
	metrics  *metrics.Metrics
	cfg      cliparse.Config
}

func NewVoterHandler(registry *sessions.Registry, m *metrics.Metrics, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{registry: registry, metrics: m, cfg: cfg}
}

// RegisterVoter handles POST /sessions/{id}/voters
// The returned voter_key is the only way for the voter to authenticate.
func (h *VoterHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	sess, caller, ok := loadSession(w, r, h.registry, h.cfg)
	if !ok {
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := auth.ValidateIdentity(req.Voter); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter: "+err.Error())
		return
	}

	err := runOp(r, h.metrics, sess, "register_voter", func() error {
		return sess.Engine.RegisterVoter(caller, voting.Identity(req.Voter))
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	sessionID := sess.ID.String()
	slog.Info("voter registered", "session_id", sessionID, "voter", req.Voter)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		Voter:    req.Voter,
		VoterKey: auth.GenerateVoterKey(sessionID, req.Voter, h.cfg.VoterKeySalt),
	})
}

// GetVoter handles GET /sessions/{id}/voters/{voter}
// Unknown identities return the zero record, not 404.
func (h *VoterHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	sess, caller, ok := loadSession(w, r, h.registry, h.cfg)
	if !ok {
		return
	}

	id := r.PathValue("voter")
	var record voting.Voter
	err := runOp(r, h.metrics, sess, "get_voter", func() error {
		var err error
		record, err = sess.Engine.Voter(caller, voting.Identity(id))
		return err
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoterResponse{ID: id, Voter: record})
}
