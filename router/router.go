// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gbesset/alyra-voting/cliparse"
	"github.com/gbesset/alyra-voting/db"
	"github.com/gbesset/alyra-voting/handlers"
	"github.com/gbesset/alyra-voting/metrics"
	"github.com/gbesset/alyra-voting/middleware"
	"github.com/gbesset/alyra-voting/sessions"
)

func NewRouter(registry *sessions.Registry, journal *db.Journal, m *metrics.Metrics, gatherer prometheus.Gatherer, cfg cliparse.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(registry, journal, m, cfg)
	voterHandler := handlers.NewVoterHandler(registry, m, cfg)
	proposalHandler := handlers.NewProposalHandler(registry, m, cfg)
	voteHandler := handlers.NewVoteHandler(registry, m, cfg)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.WithLogging)

		// Sessions
		r.Post("/sessions", sessionHandler.CreateSession)
		r.Get("/sessions", sessionHandler.ListSessions)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Get("/snapshot", sessionHandler.GetSnapshot)
			r.Get("/events", sessionHandler.ListEvents)
			r.Get("/winner", sessionHandler.GetWinner)

			// Administrator operations (X-Admin-Key)
			r.Post("/voters", voterHandler.RegisterVoter)
			r.Post("/phase/{transition}", sessionHandler.ChangePhase)
			r.Post("/tally", sessionHandler.Tally)

			// Voter operations (X-Voter-ID + X-Voter-Key)
			r.Get("/voters/{voter}", voterHandler.GetVoter)
			r.Post("/proposals", proposalHandler.AddProposal)
			r.Get("/proposals/{pid}", proposalHandler.GetProposal)
			r.Post("/votes", voteHandler.CastVote)
		})
	})

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("alyra-voting API v1"))
	})

	return r
}
