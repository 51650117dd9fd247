// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// GenesisDescription is the description of the proposal seeded at id 0.
const GenesisDescription = "GENESIS"

// Identity identifies a caller or a participant.
type Identity string

// Voter is a participant record. VotedProposalID is 0 both before a vote
// and after a vote for the GENESIS proposal; check HasVoted to tell them apart.
type Voter struct {
	IsRegistered    bool `json:"is_registered"`
	HasVoted        bool `json:"has_voted"`
	VotedProposalID int  `json:"voted_proposal_id"`
}

type Proposal struct {
	Description string `json:"description"`
	VoteCount   int    `json:"vote_count"`
}

// State is a detached copy of everything an engine owns.
type State struct {
	Admin             Identity           `json:"admin"`
	Phase             Phase              `json:"phase"`
	WinningProposalID int                `json:"winning_proposal_id"`
	Voters            map[Identity]Voter `json:"voters"`
	Proposals         []Proposal         `json:"proposals"`
}

// Engine is a single voting workflow. All methods are safe for concurrent
// use; each call is applied atomically or not at all.
type Engine struct {
	mu        sync.Mutex
	admin     Identity
	voters    map[Identity]Voter
	proposals []Proposal
	phase     Phase
	winner    int

	notifier Notifier
	now      func() time.Time
}

type Option func(*Engine)

// WithNotifier sets the receiver of the engine's events.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine administered by admin, in the RegisteringVoters
// phase, with the GENESIS proposal at id 0.
func New(admin Identity, opts ...Option) *Engine {
	e := &Engine{
		admin:     admin,
		voters:    make(map[Identity]Voter),
		proposals: []Proposal{{Description: GenesisDescription}},
		phase:     RegisteringVoters,
		notifier:  discard{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Admin() Identity {
	return e.admin
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *Engine) WinningProposalID() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.winner
}

// ProposalCount includes the GENESIS proposal.
func (e *Engine) ProposalCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.proposals)
}

func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Admin:             e.admin,
		Phase:             e.phase,
		WinningProposalID: e.winner,
		Voters:            maps.Clone(e.voters),
		Proposals:         slices.Clone(e.proposals),
	}
}

// RegisterVoter adds id to the registry.
func (e *Engine) RegisterVoter(caller, id Identity) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(caller, onlyAdmin, inPhase(RegisteringVoters, "voter registration")); err != nil {
		return err
	}
	if e.voters[id].IsRegistered {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, id)
	}

	e.voters[id] = Voter{IsRegistered: true}
	e.emit(Event{Kind: KindParticipantRegistered, Voter: id})
	return nil
}

// Voter returns the record for id. Identities that were never registered
// yield the zero record.
func (e *Engine) Voter(caller, id Identity) (Voter, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(caller, onlyVoter); err != nil {
		return Voter{}, err
	}
	return e.voters[id], nil
}

// Proposal returns the proposal with the given id.
func (e *Engine) Proposal(caller Identity, id int) (Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(caller, onlyVoter); err != nil {
		return Proposal{}, err
	}
	if id < 0 || id >= len(e.proposals) {
		return Proposal{}, fmt.Errorf("%w: proposal %d of %d", ErrIndexOutOfRange, id, len(e.proposals))
	}
	return e.proposals[id], nil
}

// AddProposal appends a proposal and returns its id.
func (e *Engine) AddProposal(caller Identity, description string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(caller, onlyVoter, inPhase(ProposalsRegistrationStarted, "proposal registration")); err != nil {
		return 0, err
	}
	if description == "" {
		return 0, fmt.Errorf("%w: description must not be empty", ErrEmptyProposal)
	}

	e.proposals = append(e.proposals, Proposal{Description: description})
	id := len(e.proposals) - 1
	e.emit(Event{Kind: KindProposalRegistered, ProposalID: id})
	return id, nil
}

// SetVote records the caller's single ballot for proposalID. Id 0 (GENESIS)
// is accepted like any other existing proposal.
func (e *Engine) SetVote(caller Identity, proposalID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(caller, onlyVoter, inPhase(VotingSessionStarted, "voting")); err != nil {
		return err
	}
	v := e.voters[caller]
	if v.HasVoted {
		return fmt.Errorf("%w: %s voted for proposal %d", ErrAlreadyVoted, caller, v.VotedProposalID)
	}
	if proposalID < 0 || proposalID >= len(e.proposals) {
		return fmt.Errorf("%w: %d", ErrProposalNotFound, proposalID)
	}

	v.HasVoted = true
	v.VotedProposalID = proposalID
	e.voters[caller] = v
	e.proposals[proposalID].VoteCount++
	e.emit(Event{Kind: KindVoteCast, Voter: caller, ProposalID: proposalID})
	return nil
}

func (e *Engine) StartProposalsRegistration(caller Identity) error {
	return e.transition(caller, RegisteringVoters, nil)
}

func (e *Engine) EndProposalsRegistration(caller Identity) error {
	return e.transition(caller, ProposalsRegistrationStarted, nil)
}

func (e *Engine) StartVotingSession(caller Identity) error {
	return e.transition(caller, ProposalsRegistrationEnded, nil)
}

func (e *Engine) EndVotingSession(caller Identity) error {
	return e.transition(caller, VotingSessionStarted, nil)
}

// TallyVotes selects the winning proposal and closes the workflow.
func (e *Engine) TallyVotes(caller Identity) error {
	return e.transition(caller, VotingSessionEnded, func() {
		e.winner = tally(e.proposals)
	})
}

// transition moves the engine from one phase to the next, applying commit
// between the guards and the phase change. Must be called without e.mu held.
func (e *Engine) transition(caller Identity, from Phase, commit func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ok := from.Next()
	if !ok {
		return fmt.Errorf("%w: %s is final", ErrInvalidPhase, from)
	}
	if err := e.guard(caller, onlyAdmin, inPhase(from, "transition to "+next.String())); err != nil {
		return err
	}

	if commit != nil {
		commit()
	}
	prev := e.phase
	e.phase = next
	e.emit(Event{Kind: KindPhaseChanged, Previous: prev, Next: next})
	return nil
}

func (e *Engine) emit(ev Event) {
	ev.At = e.now()
	e.notifier.Notify(ev)
}
