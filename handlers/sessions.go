// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gbesset/alyra-voting/auth"
	"github.com/gbesset/alyra-voting/cliparse"
	"github.com/gbesset/alyra-voting/db"
	"github.com/gbesset/alyra-voting/metrics"
	"github.com/gbesset/alyra-voting/middleware"
	"github.com/gbesset/alyra-voting/models"
	"github.com/gbesset/alyra-voting/sessions"
	"github.com/gbesset/alyra-voting/voting"
)

type SessionHandler struct {
	registry *sessions.Registry
	journal  *db.Journal
	metrics  *metrics.Metrics
	cfg      cliparse.Config
}

func NewSessionHandler(registry *sessions.Registry, journal *db.Journal, m *metrics.Metrics, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{registry: registry, journal: journal, metrics: m, cfg: cfg}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if err := auth.ValidateIdentity(req.Admin); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "admin: "+err.Error())
		return
	}

	sess := h.registry.Create(req.Title, voting.Identity(req.Admin))
	h.metrics.IncrementSessionsCreated()

	sessionID := sess.ID.String()
	slog.Info("session created", "session_id", sessionID, "admin", req.Admin)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sessionID,
		AdminKey:  auth.GenerateAdminKey(sessionID, h.cfg.AdminKeySalt),
	})
}

// ListSessions handles GET /sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	all := h.registry.List()
	summaries := make([]models.SessionSummary, 0, len(all))
	for _, sess := range all {
		summaries = append(summaries, summarize(sess))
	}
	middleware.JSONResponse(w, http.StatusOK, models.ListSessionsResponse{Sessions: summaries})
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.registry.Lookup(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, summarize(sess))
}

// GetSnapshot handles GET /sessions/{id}/snapshot (administrator only)
func (h *SessionHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, caller, ok := loadSession(w, r, h.registry, h.cfg)
	if !ok {
		return
	}
	if caller == "" || caller != sess.Engine.Admin() {
		h.metrics.IncrementRejected(voting.ErrorCode(voting.ErrUnauthorized))
		writeEngineError(w, fmt.Errorf("%w: snapshot requires the administrator", voting.ErrUnauthorized))
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sess.Engine.Snapshot())
}

// ChangePhase handles POST /sessions/{id}/phase/{transition}
func (h *SessionHandler) ChangePhase(w http.ResponseWriter, r *http.Request) {
	t, found := transitions[r.PathValue("transition")]
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown transition")
		return
	}

	sess, caller, ok := loadSession(w, r, h.registry, h.cfg)
	if !ok {
		return
	}

	err := runOp(r, h.metrics, sess, t.op, func() error {
		return t.apply(sess.Engine, caller)
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	next, _ := t.from.Next()
	slog.Info("phase changed", "session_id", sess.ID, "from", t.from, "to", next)

	middleware.JSONResponse(w, http.StatusOK, models.PhaseChangeResponse{
		PreviousPhase: t.from,
		NewPhase:      next,
	})
}

// Tally handles POST /sessions/{id}/tally
func (h *SessionHandler) Tally(w http.ResponseWriter, r *http.Request) {
	sess, caller, ok := loadSession(w, r, h.registry, h.cfg)
	if !ok {
		return
	}

	err := runOp(r, h.metrics, sess, "tally_votes", func() error {
		return sess.Engine.TallyVotes(caller)
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	winner := sess.Engine.WinningProposalID()
	slog.Info("votes tallied", "session_id", sess.ID, "winning_proposal_id", winner)

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		WinningProposalID: winner,
		Phase:             voting.VotesTallied,
	})
}

// GetWinner handles GET /sessions/{id}/winner
func (h *SessionHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	sess, err := h.registry.Lookup(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	state := sess.Engine.Snapshot()
	if state.Phase != voting.VotesTallied {
		writeEngineError(w, fmt.Errorf("%w: votes have not been tallied (phase %s)", voting.ErrInvalidPhase, state.Phase))
		return
	}

	winner := state.Proposals[state.WinningProposalID]
	middleware.JSONResponse(w, http.StatusOK, models.WinnerResponse{
		ProposalID:  state.WinningProposalID,
		Description: winner.Description,
		VoteCount:   winner.VoteCount,
	})
}

// ListEvents handles GET /sessions/{id}/events
func (h *SessionHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := h.registry.Lookup(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	events, err := h.journal.List(r.Context(), sess.ID.String())
	if err != nil {
		slog.Error("failed to list events", "session_id", sess.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.EventsResponse{Events: events})
}

type transition struct {
	op    string
	from  voting.Phase
	apply func(e *voting.Engine, caller voting.Identity) error
}

// transitions maps the {transition} path value to the engine's phase changes
var transitions = map[string]transition{
	"start-proposals": {"start_proposals_registration", voting.RegisteringVoters, (*voting.Engine).StartProposalsRegistration},
	"end-proposals":   {"end_proposals_registration", voting.ProposalsRegistrationStarted, (*voting.Engine).EndProposalsRegistration},
	"start-voting":    {"start_voting_session", voting.ProposalsRegistrationEnded, (*voting.Engine).StartVotingSession},
	"end-voting":      {"end_voting_session", voting.VotingSessionStarted, (*voting.Engine).EndVotingSession},
}

func summarize(sess *sessions.Session) models.SessionSummary {
	return models.SessionSummary{
		ID:                sess.ID.String(),
		Title:             sess.Title,
		Admin:             string(sess.Engine.Admin()),
		Phase:             sess.Engine.Phase(),
		WinningProposalID: sess.Engine.WinningProposalID(),
		ProposalCount:     sess.Engine.ProposalCount(),
		CreatedAt:         sess.CreatedAt,
	}
}
