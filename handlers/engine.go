// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gbesset/alyra-voting/auth"
	"github.com/gbesset/alyra-voting/cliparse"
	"github.com/gbesset/alyra-voting/metrics"
	"github.com/gbesset/alyra-voting/middleware"
	"github.com/gbesset/alyra-voting/sessions"
	"github.com/gbesset/alyra-voting/voting"
)

var tracer = otel.Tracer("github.com/gbesset/alyra-voting/handlers")

// loadSession resolves the {id} path value and the caller's identity.
// It writes the error response itself and reports whether to continue.
func loadSession(w http.ResponseWriter, r *http.Request, registry *sessions.Registry, cfg cliparse.Config) (*sessions.Session, voting.Identity, bool) {
	sess, err := registry.Lookup(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return nil, "", false
	}

	caller, err := resolveCaller(r, sess, cfg)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return nil, "", false
	}
	return sess, caller, true
}

// resolveCaller maps request headers to an engine identity. A valid
// X-Admin-Key wins; otherwise X-Voter-ID and X-Voter-Key must match. Requests
// without credentials act as the empty identity, which the engine refuses.
func resolveCaller(r *http.Request, sess *sessions.Session, cfg cliparse.Config) (voting.Identity, error) {
	sessionID := sess.ID.String()

	if adminKey := r.Header.Get("X-Admin-Key"); adminKey != "" {
		if err := auth.ValidateAdminKey(sessionID, adminKey, cfg.AdminKeySalt); err != nil {
			return "", err
		}
		return sess.Engine.Admin(), nil
	}

	voterID := r.Header.Get("X-Voter-ID")
	voterKey := r.Header.Get("X-Voter-Key")
	if voterID == "" && voterKey == "" {
		return "", nil
	}
	if err := auth.ValidateVoterKey(sessionID, voterID, voterKey, cfg.VoterKeySalt); err != nil {
		return "", err
	}
	return voting.Identity(voterID), nil
}

// runOp calls fn inside a span and records its duration and any rejection.
func runOp(r *http.Request, m *metrics.Metrics, sess *sessions.Session, op string, fn func() error) error {
	_, span := tracer.Start(r.Context(), "voting."+op,
		trace.WithAttributes(attribute.String("session.id", sess.ID.String())),
	)
	defer span.End()

	start := time.Now()
	err := fn()
	m.ObserveOperation(op, start)

	if err != nil {
		code := voting.ErrorCode(err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, code)
		m.IncrementRejected(code)
	}
	return err
}

// engineStatus maps engine errors to HTTP status codes
func engineStatus(err error) int {
	switch {
	case errors.Is(err, voting.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, voting.ErrInvalidPhase),
		errors.Is(err, voting.ErrAlreadyRegistered),
		errors.Is(err, voting.ErrAlreadyVoted):
		return http.StatusConflict
	case errors.Is(err, voting.ErrEmptyProposal):
		return http.StatusBadRequest
	case errors.Is(err, voting.ErrProposalNotFound),
		errors.Is(err, voting.ErrIndexOutOfRange):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeEngineError(w http.ResponseWriter, err error) {
	middleware.CodedErrorResponse(w, engineStatus(err), voting.ErrorCode(err), err.Error())
}
