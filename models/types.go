package models

import (
	"encoding/json"
	"time"

	"github.com/gbesset/alyra-voting/voting"
)

// Request types

type CreateSessionRequest struct {
	Title string `json:"title"`
	Admin string `json:"admin"`
}

type RegisterVoterRequest struct {
	Voter string `json:"voter"`
}

type AddProposalRequest struct {
	Description string `json:"description"`
}

type SetVoteRequest struct {
	ProposalID *int `json:"proposal_id"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	AdminKey  string `json:"admin_key"`
}

type RegisterVoterResponse struct {
	Voter    string `json:"voter"`
	VoterKey string `json:"voter_key"`
}

type AddProposalResponse struct {
	ProposalID int `json:"proposal_id"`
}

type PhaseChangeResponse struct {
	PreviousPhase voting.Phase `json:"previous_phase"`
	NewPhase      voting.Phase `json:"new_phase"`
}

type TallyResponse struct {
	WinningProposalID int          `json:"winning_proposal_id"`
	Phase             voting.Phase `json:"phase"`
}

type WinnerResponse struct {
	ProposalID  int    `json:"proposal_id"`
	Description string `json:"description"`
	VoteCount   int    `json:"vote_count"`
}

type VoterResponse struct {
	ID string `json:"voter"`
	voting.Voter
}

type ProposalResponse struct {
	ProposalID int `json:"proposal_id"`
	voting.Proposal
}

type EventsResponse struct {
	Events []Envelope `json:"events"`
}

// Domain types

// SessionSummary is the public view of a session.
type SessionSummary struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Admin             string       `json:"admin"`
	Phase             voting.Phase `json:"phase"`
	WinningProposalID int          `json:"winning_proposal_id"`
	ProposalCount     int          `json:"proposal_count"`
	CreatedAt         time.Time    `json:"created_at"`
}

// Envelope is an engine event bound to the session that emitted it. Seq
// starts at 1 and increases by one per event within a session.
type Envelope struct {
	SessionID string `json:"session_id"`
	Seq       uint64 `json:"seq"`
	voting.Event
}

type envelopeJSON struct {
	SessionID string `json:"session_id"`
	Seq       uint64 `json:"seq"`
	voting.EventPayload
}

// MarshalJSON keeps the envelope flat and drops fields that do not belong
// to the event kind.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeJSON{SessionID: e.SessionID, Seq: e.Seq, EventPayload: e.Event.Payload()})
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw envelopeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Envelope{SessionID: raw.SessionID, Seq: raw.Seq, Event: raw.EventPayload.Event()}
	return nil
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

type ListSessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}
