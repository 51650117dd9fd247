// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the voting API.

# Handler Types

Each handler is a struct holding the session registry, metrics and config:

  - SessionHandler: Session creation, phase changes, tally and read views
  - VoterHandler: Voter registration and lookup
  - ProposalHandler: Proposal submission and lookup
  - VoteHandler: Ballot casting

Handlers are created via constructor functions:

	sessionHandler := handlers.NewSessionHandler(registry, journal, m, cfg)

# Caller Identity

Every engine operation runs as an identity resolved from headers:

	X-Admin-Key              → the session administrator
	X-Voter-ID + X-Voter-Key → that voter
	(none)                   → the empty identity

Keys that fail validation are rejected with 401. Otherwise the engine
decides: role errors are 403, phase and duplicate errors 409, an empty
proposal 400 and unknown proposal ids 404. Error bodies carry the engine's
code (invalid_phase, already_voted, ...) in the code field.

# Workflow

	POST /sessions                            → CreateSession (returns admin_key)
	POST /sessions/{id}/voters                → RegisterVoter (returns voter_key)
	POST /sessions/{id}/phase/start-proposals → ChangePhase
	POST /sessions/{id}/proposals             → AddProposal
	POST /sessions/{id}/phase/end-proposals   → ChangePhase
	POST /sessions/{id}/phase/start-voting    → ChangePhase
	POST /sessions/{id}/votes                 → CastVote
	POST /sessions/{id}/phase/end-voting      → ChangePhase
	POST /sessions/{id}/tally                 → Tally
	GET  /sessions/{id}/winner                → GetWinner

# Observability

Engine calls run inside an OpenTelemetry span named voting.<operation>.
Their latency and rejections are recorded in the metrics package.
*/
package handlers
