// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response and event types shared by the
HTTP handlers, the notification sinks and the journal.

# Requests

	CreateSessionRequest  {title, admin}
	RegisterVoterRequest  {voter}
	AddProposalRequest    {description}
	SetVoteRequest        {proposal_id}

SetVoteRequest.ProposalID is a pointer so a missing field can be told apart
from a vote for proposal 0.

# Events

Envelope wraps a voting.Event with its session ID and a per-session
sequence number. The JSON form is flat and carries only the fields of the
event kind:

	{
	  "session_id": "5f0c...",
	  "seq": 3,
	  "kind": "VoteCast",
	  "voter": "bob",
	  "proposal_id": 2,
	  "at": "2025-01-01T12:00:00Z"
	}

	ParticipantRegistered  voter
	ProposalRegistered     proposal_id
	VoteCast               voter, proposal_id
	PhaseChanged           previous_phase, new_phase

# Errors

All error responses use ErrorResponse. Code carries voting.ErrorCode for
contract violations (unauthorized, invalid_phase, already_voted, ...).
*/
package models
