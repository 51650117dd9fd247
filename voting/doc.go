// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements the voting workflow engine: a single administrator
registers voters, voters submit proposals and cast one ballot each, and the
administrator tallies the result.

# Workflow

The engine walks through six phases, one step at a time:

	RegisteringVoters → ProposalsRegistrationStarted → ProposalsRegistrationEnded
	→ VotingSessionStarted → VotingSessionEnded → VotesTallied

Only the administrator may change phase or register voters. Only registered
voters may read records, add proposals and vote. The administrator is not a
voter unless it registers itself.

	e := voting.New("alice")
	_ = e.RegisterVoter("alice", "bob")
	_ = e.StartProposalsRegistration("alice")
	id, _ := e.AddProposal("bob", "Coffee")
	_ = e.EndProposalsRegistration("alice")
	_ = e.StartVotingSession("alice")
	_ = e.SetVote("bob", id)
	_ = e.EndVotingSession("alice")
	_ = e.TallyVotes("alice")

# Proposals

Proposal 0 is GENESIS and is created with the engine; submitted proposals
are numbered from 1. GENESIS is a legal vote target. A voter's
VotedProposalID is 0 both before voting and after voting for GENESIS, so
HasVoted is the only reliable signal.

# Tally

TallyVotes scans proposals in id order and keeps the first one with the
highest count: [3, 5, 5, 2] at ids 1..4 elects id 2. With no votes the
winner stays 0.

# Errors

Failures wrap one of ErrUnauthorized, ErrInvalidPhase, ErrAlreadyRegistered,
ErrAlreadyVoted, ErrEmptyProposal, ErrProposalNotFound or ErrIndexOutOfRange.
Role checks run before phase checks. A failed call changes nothing and emits
nothing. ErrorCode turns an error into a stable code for transports.

# Notifications

A Notifier set with WithNotifier receives ParticipantRegistered,
ProposalRegistered, VoteCast and PhaseChanged events in commit order.
*/
package voting
