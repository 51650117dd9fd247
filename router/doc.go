// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the voting API.

# Route Registration

NewRouter creates a chi router with all endpoints:

	r := router.NewRouter(registry, journal, m, prometheus.DefaultGatherer, cfg)

Every request passes through chi's RequestID and Recoverer middleware and
the CORS middleware. API routes are also logged with middleware.WithLogging.

# Endpoints

Operations:

	GET /health  - Liveness
	GET /metrics - Prometheus exposition
	GET /        - Banner

Sessions:

	POST /sessions                 - Create session
	GET  /sessions                 - List sessions
	GET  /sessions/{id}            - Session summary
	GET  /sessions/{id}/snapshot   - Full state (admin)
	GET  /sessions/{id}/events     - Event journal
	GET  /sessions/{id}/winner     - Winning proposal (after tally)

Administrator (requires X-Admin-Key):

	POST /sessions/{id}/voters             - Register voter
	POST /sessions/{id}/phase/{transition} - start-proposals, end-proposals, start-voting, end-voting
	POST /sessions/{id}/tally              - Tally votes

Voters (require X-Voter-ID and X-Voter-Key):

	GET  /sessions/{id}/voters/{voter}  - Voter record
	POST /sessions/{id}/proposals       - Submit proposal
	GET  /sessions/{id}/proposals/{pid} - Proposal
	POST /sessions/{id}/votes           - Cast vote
*/
package router
