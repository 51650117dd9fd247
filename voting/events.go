// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"encoding/json"
	"time"
)

// EventKind names a notification emitted by the engine.
type EventKind string

const (
	KindParticipantRegistered EventKind = "ParticipantRegistered"
	KindProposalRegistered    EventKind = "ProposalRegistered"
	KindVoteCast              EventKind = "VoteCast"
	KindPhaseChanged          EventKind = "PhaseChanged"
)

// HasVoter reports whether events of this kind carry a voter.
func (k EventKind) HasVoter() bool {
	return k == KindParticipantRegistered || k == KindVoteCast
}

// HasProposal reports whether events of this kind carry a proposal ID.
func (k EventKind) HasProposal() bool {
	return k == KindProposalRegistered || k == KindVoteCast
}

// HasPhases reports whether events of this kind carry a phase transition.
func (k EventKind) HasPhases() bool {
	return k == KindPhaseChanged
}

// Event is a notification about a committed mutation. Only the fields that
// belong to Kind are set:
//
//	ParticipantRegistered  Voter
//	ProposalRegistered     ProposalID
//	VoteCast               Voter, ProposalID
//	PhaseChanged           Previous, Next
//
// The JSON form carries only those fields (see EventPayload).
type Event struct {
	Kind       EventKind
	Voter      Identity
	ProposalID int
	Previous   Phase
	Next       Phase
	At         time.Time
}

// EventPayload is the wire form of an Event. Fields that do not belong to
// Kind are nil and omitted.
type EventPayload struct {
	Kind       EventKind `json:"kind"`
	Voter      Identity  `json:"voter,omitempty"`
	ProposalID *int      `json:"proposal_id,omitempty"`
	Previous   *Phase    `json:"previous_phase,omitempty"`
	Next       *Phase    `json:"new_phase,omitempty"`
	At         time.Time `json:"at"`
}

// Payload returns the wire form of e, keeping only the fields of its kind.
func (e Event) Payload() EventPayload {
	p := EventPayload{Kind: e.Kind, At: e.At}
	if e.Kind.HasVoter() {
		p.Voter = e.Voter
	}
	if e.Kind.HasProposal() {
		id := e.ProposalID
		p.ProposalID = &id
	}
	if e.Kind.HasPhases() {
		prev, next := e.Previous, e.Next
		p.Previous, p.Next = &prev, &next
	}
	return p
}

// Event converts the wire form back. Fields foreign to Kind are ignored.
func (p EventPayload) Event() Event {
	e := Event{Kind: p.Kind, At: p.At}
	if p.Kind.HasVoter() {
		e.Voter = p.Voter
	}
	if p.Kind.HasProposal() && p.ProposalID != nil {
		e.ProposalID = *p.ProposalID
	}
	if p.Kind.HasPhases() {
		if p.Previous != nil {
			e.Previous = *p.Previous
		}
		if p.Next != nil {
			e.Next = *p.Next
		}
	}
	return e
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Payload())
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var p EventPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = p.Event()
	return nil
}

// Notifier receives events in commit order. Notify is called while the
// engine lock is held, so implementations must not call back into the engine.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

type discard struct{}

func (discard) Notify(Event) {}
