// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting_test

//go:generate mockgen -source=events.go -destination=mocks/mocks.go -package=mocks Notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/gbesset/alyra-voting/voting"
	"github.com/gbesset/alyra-voting/voting/mocks"
)

const (
	owner  voting.Identity = "owner"
	voter1 voting.Identity = "voter1"
	voter2 voting.Identity = "voter2"
	voter3 voting.Identity = "voter3"
	nobody voting.Identity = "nobody"
)

// recorder keeps every event the engine emits.
type recorder struct {
	events []voting.Event
}

func (r *recorder) Notify(e voting.Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []voting.EventKind {
	kinds := make([]voting.EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

type EngineSuite struct {
	suite.Suite
	engine *voting.Engine
	events *recorder
	clock  time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.events = &recorder{}
	s.clock = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.engine = voting.New(owner,
		voting.WithNotifier(s.events),
		voting.WithClock(func() time.Time { return s.clock }),
	)
}

func (s *EngineSuite) register(ids ...voting.Identity) {
	for _, id := range ids {
		s.Require().NoError(s.engine.RegisterVoter(owner, id))
	}
}

// advanceTo walks the workflow forward until the engine reaches target.
func (s *EngineSuite) advanceTo(target voting.Phase) {
	steps := map[voting.Phase]func(voting.Identity) error{
		voting.RegisteringVoters:            s.engine.StartProposalsRegistration,
		voting.ProposalsRegistrationStarted: s.engine.EndProposalsRegistration,
		voting.ProposalsRegistrationEnded:   s.engine.StartVotingSession,
		voting.VotingSessionStarted:         s.engine.EndVotingSession,
		voting.VotingSessionEnded:           s.engine.TallyVotes,
	}
	for s.engine.Phase() < target {
		s.Require().NoError(steps[s.engine.Phase()](owner))
	}
}

func (s *EngineSuite) addProposals(by voting.Identity, descriptions ...string) []int {
	ids := make([]int, 0, len(descriptions))
	for _, d := range descriptions {
		id, err := s.engine.AddProposal(by, d)
		s.Require().NoError(err)
		ids = append(ids, id)
	}
	return ids
}

func (s *EngineSuite) TestConstruction() {
	s.Equal(owner, s.engine.Admin())
	s.Equal(voting.RegisteringVoters, s.engine.Phase())
	s.Equal(0, s.engine.WinningProposalID())
	s.Equal(1, s.engine.ProposalCount())

	state := s.engine.Snapshot()
	s.Require().Len(state.Proposals, 1)
	s.Equal(voting.GenesisDescription, state.Proposals[0].Description)
	s.Zero(state.Proposals[0].VoteCount)
	s.Empty(state.Voters)
	s.Empty(s.events.events)
}

func (s *EngineSuite) TestRegisterVoter() {
	s.Run("owner registers a voter and an event is emitted", func() {
		s.Require().NoError(s.engine.RegisterVoter(owner, voter1))

		v, err := s.engine.Voter(voter1, voter1)
		s.Require().NoError(err)
		s.True(v.IsRegistered)
		s.False(v.HasVoted)
		s.Zero(v.VotedProposalID)

		s.Require().Len(s.events.events, 1)
		s.Equal(voting.Event{Kind: voting.KindParticipantRegistered, Voter: voter1, At: s.clock}, s.events.events[0])
	})

	s.Run("a voter cannot be added twice", func() {
		err := s.engine.RegisterVoter(owner, voter1)
		s.ErrorIs(err, voting.ErrAlreadyRegistered)
		s.Len(s.events.events, 1)
	})

	s.Run("a non owner cannot register, even when registered", func() {
		s.ErrorIs(s.engine.RegisterVoter(voter1, voter2), voting.ErrUnauthorized)
		s.ErrorIs(s.engine.RegisterVoter(nobody, voter2), voting.ErrUnauthorized)
	})

	s.Run("registration is closed after the first phase", func() {
		s.Require().NoError(s.engine.StartProposalsRegistration(owner))
		s.ErrorIs(s.engine.RegisterVoter(owner, voter2), voting.ErrInvalidPhase)
	})
}

func (s *EngineSuite) TestVoterLookup() {
	s.register(voter1)

	s.Run("unregistered callers are rejected", func() {
		_, err := s.engine.Voter(nobody, voter1)
		s.ErrorIs(err, voting.ErrUnauthorized)
	})

	s.Run("owner is not a voter unless registered", func() {
		_, err := s.engine.Voter(owner, voter1)
		s.ErrorIs(err, voting.ErrUnauthorized)
	})

	s.Run("unknown identities yield the zero record", func() {
		v, err := s.engine.Voter(voter1, nobody)
		s.Require().NoError(err)
		s.Equal(voting.Voter{}, v)
	})

	s.Run("owner registered as voter can read records", func() {
		s.register(owner)
		v, err := s.engine.Voter(owner, voter1)
		s.Require().NoError(err)
		s.True(v.IsRegistered)
	})
}

func (s *EngineSuite) TestAddProposal() {
	s.register(owner, voter1)

	s.Run("not allowed before proposals registration", func() {
		_, err := s.engine.AddProposal(voter1, "Coffee")
		s.ErrorIs(err, voting.ErrInvalidPhase)
	})

	s.Run("empty proposal before the phase is a phase error", func() {
		_, err := s.engine.AddProposal(voter1, "")
		s.ErrorIs(err, voting.ErrInvalidPhase)
	})

	s.advanceTo(voting.ProposalsRegistrationStarted)
	s.events.events = nil

	s.Run("genesis is 0 and others start at 1", func() {
		ids := s.addProposals(voter1, "Coffee", "Tea")
		s.Equal([]int{1, 2}, ids)

		genesis, err := s.engine.Proposal(voter1, 0)
		s.Require().NoError(err)
		s.Equal(voting.GenesisDescription, genesis.Description)

		p1, err := s.engine.Proposal(voter1, 1)
		s.Require().NoError(err)
		s.Equal(voting.Proposal{Description: "Coffee"}, p1)
		p2, err := s.engine.Proposal(voter1, 2)
		s.Require().NoError(err)
		s.Equal(voting.Proposal{Description: "Tea"}, p2)

		s.Equal([]voting.Event{
			{Kind: voting.KindProposalRegistered, ProposalID: 1, At: s.clock},
			{Kind: voting.KindProposalRegistered, ProposalID: 2, At: s.clock},
		}, s.events.events)
	})

	s.Run("empty proposal is rejected", func() {
		_, err := s.engine.AddProposal(owner, "")
		s.ErrorIs(err, voting.ErrEmptyProposal)
		s.Equal(3, s.engine.ProposalCount())
	})

	s.Run("non voters cannot propose", func() {
		_, err := s.engine.AddProposal(nobody, "Juice")
		s.ErrorIs(err, voting.ErrUnauthorized)
	})

	s.Run("not allowed in any later phase", func() {
		for _, target := range []voting.Phase{
			voting.ProposalsRegistrationEnded,
			voting.VotingSessionStarted,
			voting.VotingSessionEnded,
			voting.VotesTallied,
		} {
			s.advanceTo(target)
			_, err := s.engine.AddProposal(voter1, "Juice")
			s.ErrorIs(err, voting.ErrInvalidPhase, target.String())
		}
	})
}

func (s *EngineSuite) TestProposalLookup() {
	s.register(voter1)

	_, err := s.engine.Proposal(nobody, 0)
	s.ErrorIs(err, voting.ErrUnauthorized)

	_, err = s.engine.Proposal(voter1, 1)
	s.ErrorIs(err, voting.ErrIndexOutOfRange)

	_, err = s.engine.Proposal(voter1, -1)
	s.ErrorIs(err, voting.ErrIndexOutOfRange)
}

func (s *EngineSuite) TestSetVote() {
	s.register(owner, voter1, voter2)

	s.Run("not allowed before the voting session", func() {
		s.ErrorIs(s.engine.SetVote(voter1, 0), voting.ErrInvalidPhase)
		s.advanceTo(voting.ProposalsRegistrationStarted)
		s.addProposals(voter1, "Coffee", "Tea")
		s.ErrorIs(s.engine.SetVote(voter1, 1), voting.ErrInvalidPhase)
		s.advanceTo(voting.ProposalsRegistrationEnded)
		s.ErrorIs(s.engine.SetVote(voter1, 1), voting.ErrInvalidPhase)
	})

	s.advanceTo(voting.VotingSessionStarted)
	s.events.events = nil

	s.Run("voter votes once", func() {
		s.Require().NoError(s.engine.SetVote(voter1, 1))

		v, err := s.engine.Voter(voter1, voter1)
		s.Require().NoError(err)
		s.True(v.HasVoted)
		s.Equal(1, v.VotedProposalID)

		p, err := s.engine.Proposal(voter1, 1)
		s.Require().NoError(err)
		s.Equal(1, p.VoteCount)

		s.Equal([]voting.Event{{Kind: voting.KindVoteCast, Voter: voter1, ProposalID: 1, At: s.clock}}, s.events.events)

		s.ErrorIs(s.engine.SetVote(voter1, 2), voting.ErrAlreadyVoted)
		v, _ = s.engine.Voter(voter1, voter1)
		s.Equal(1, v.VotedProposalID)
	})

	s.Run("unknown proposal", func() {
		s.ErrorIs(s.engine.SetVote(owner, 3), voting.ErrProposalNotFound)
		s.ErrorIs(s.engine.SetVote(owner, -1), voting.ErrProposalNotFound)
	})

	s.Run("genesis is a legal target", func() {
		s.Require().NoError(s.engine.SetVote(voter2, 0))
		v, err := s.engine.Voter(voter2, voter2)
		s.Require().NoError(err)
		s.True(v.HasVoted)
		s.Zero(v.VotedProposalID)
	})

	s.Run("non voters cannot vote", func() {
		s.ErrorIs(s.engine.SetVote(nobody, 1), voting.ErrUnauthorized)
	})

	s.Run("not allowed after the session", func() {
		s.advanceTo(voting.VotingSessionEnded)
		s.ErrorIs(s.engine.SetVote(owner, 1), voting.ErrInvalidPhase)
		s.advanceTo(voting.VotesTallied)
		s.ErrorIs(s.engine.SetVote(owner, 1), voting.ErrInvalidPhase)
	})
}

func (s *EngineSuite) TestPhaseChangesEmitEvents() {
	s.advanceTo(voting.VotesTallied)

	want := []voting.Event{
		{Kind: voting.KindPhaseChanged, Previous: voting.RegisteringVoters, Next: voting.ProposalsRegistrationStarted, At: s.clock},
		{Kind: voting.KindPhaseChanged, Previous: voting.ProposalsRegistrationStarted, Next: voting.ProposalsRegistrationEnded, At: s.clock},
		{Kind: voting.KindPhaseChanged, Previous: voting.ProposalsRegistrationEnded, Next: voting.VotingSessionStarted, At: s.clock},
		{Kind: voting.KindPhaseChanged, Previous: voting.VotingSessionStarted, Next: voting.VotingSessionEnded, At: s.clock},
		{Kind: voting.KindPhaseChanged, Previous: voting.VotingSessionEnded, Next: voting.VotesTallied, At: s.clock},
	}
	s.Equal(want, s.events.events)
}

func (s *EngineSuite) TestAdminOperationsRejectOthersInEveryPhase() {
	s.register(voter1)

	adminOps := map[string]func(voting.Identity) error{
		"StartProposalsRegistration": s.engine.StartProposalsRegistration,
		"EndProposalsRegistration":   s.engine.EndProposalsRegistration,
		"StartVotingSession":         s.engine.StartVotingSession,
		"EndVotingSession":           s.engine.EndVotingSession,
		"TallyVotes":                 s.engine.TallyVotes,
		"RegisterVoter": func(caller voting.Identity) error {
			return s.engine.RegisterVoter(caller, voter3)
		},
	}

	for phase := voting.RegisteringVoters; phase <= voting.VotesTallied; phase++ {
		s.advanceTo(phase)
		for name, op := range adminOps {
			for _, caller := range []voting.Identity{voter1, nobody} {
				s.ErrorIs(op(caller), voting.ErrUnauthorized, "%s by %s in %s", name, caller, phase)
			}
		}
	}
}

func (s *EngineSuite) TestTransitionsOnlyFromTheirPhase() {
	transitions := []struct {
		name string
		from voting.Phase
		op   func(voting.Identity) error
	}{
		{"StartProposalsRegistration", voting.RegisteringVoters, s.engine.StartProposalsRegistration},
		{"EndProposalsRegistration", voting.ProposalsRegistrationStarted, s.engine.EndProposalsRegistration},
		{"StartVotingSession", voting.ProposalsRegistrationEnded, s.engine.StartVotingSession},
		{"EndVotingSession", voting.VotingSessionStarted, s.engine.EndVotingSession},
		{"TallyVotes", voting.VotingSessionEnded, s.engine.TallyVotes},
	}

	for phase := voting.RegisteringVoters; phase <= voting.VotesTallied; phase++ {
		s.advanceTo(phase)
		for _, tr := range transitions {
			if tr.from == phase {
				continue
			}
			before := s.engine.Snapshot()
			s.ErrorIs(tr.op(owner), voting.ErrInvalidPhase, "%s in %s", tr.name, phase)
			s.Equal(before, s.engine.Snapshot())
		}
	}
}

func (s *EngineSuite) TestThreeVoterScenario() {
	s.register(voter1, voter2, voter3)
	s.advanceTo(voting.ProposalsRegistrationStarted)
	s.Equal([]int{1, 2, 3}, s.addProposals(voter1, "Coffee", "Coffee + sugar", "Tea"))
	s.advanceTo(voting.VotingSessionStarted)

	s.Require().NoError(s.engine.SetVote(voter1, 2))
	s.Require().NoError(s.engine.SetVote(voter2, 2))
	s.Require().NoError(s.engine.SetVote(voter3, 1))
	s.advanceTo(voting.VotesTallied)

	s.Equal(2, s.engine.WinningProposalID())

	state := s.engine.Snapshot()
	total, voted := 0, 0
	for _, p := range state.Proposals {
		total += p.VoteCount
	}
	for _, v := range state.Voters {
		if v.HasVoted {
			voted++
		}
	}
	s.Equal(voted, total)
	s.Equal(3, total)
}

func (s *EngineSuite) TestTallyTieKeepsFirstMaximum() {
	counts := []int{3, 5, 5, 2}
	var voters []voting.Identity
	for i := range 15 {
		voters = append(voters, voting.Identity("v"+string(rune('a'+i))))
	}
	s.register(voters...)
	s.advanceTo(voting.ProposalsRegistrationStarted)
	s.addProposals(voters[0], "one", "two", "three", "four")
	s.advanceTo(voting.VotingSessionStarted)

	next := 0
	for i, n := range counts {
		for range n {
			s.Require().NoError(s.engine.SetVote(voters[next], i+1))
			next++
		}
	}
	s.advanceTo(voting.VotesTallied)
	s.Equal(2, s.engine.WinningProposalID())
}

func (s *EngineSuite) TestNoVotesKeepsGenesis() {
	s.register(voter1)
	s.advanceTo(voting.ProposalsRegistrationStarted)
	s.addProposals(voter1, "Coffee")
	s.advanceTo(voting.VotesTallied)
	s.Equal(0, s.engine.WinningProposalID())
}

func (s *EngineSuite) TestFailedCallsLeaveStateUnchanged() {
	s.register(voter1, voter2)
	s.advanceTo(voting.ProposalsRegistrationStarted)
	s.addProposals(voter1, "Coffee")
	s.advanceTo(voting.VotingSessionStarted)
	s.Require().NoError(s.engine.SetVote(voter1, 1))

	before := s.engine.Snapshot()
	emitted := len(s.events.events)

	failing := []func() error{
		func() error { return s.engine.SetVote(voter1, 1) },
		func() error { return s.engine.SetVote(voter2, 9) },
		func() error { return s.engine.SetVote(nobody, 1) },
		func() error { return s.engine.RegisterVoter(owner, voter3) },
		func() error { _, err := s.engine.AddProposal(voter2, "late"); return err },
		func() error { return s.engine.TallyVotes(owner) },
		func() error { return s.engine.EndVotingSession(voter1) },
	}
	for i := 0; i < 3; i++ {
		for _, call := range failing {
			s.Error(call())
		}
	}

	s.Equal(before, s.engine.Snapshot())
	s.Len(s.events.events, emitted)
}

func (s *EngineSuite) TestSnapshotIsDetached() {
	s.register(voter1)
	state := s.engine.Snapshot()
	state.Voters[voter2] = voting.Voter{IsRegistered: true}
	state.Proposals[0].Description = "changed"

	fresh := s.engine.Snapshot()
	s.NotContains(fresh.Voters, voter2)
	s.Equal(voting.GenesisDescription, fresh.Proposals[0].Description)
}

func TestEngineNotifiesMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)
	at := time.Unix(1700000000, 0).UTC()

	gomock.InOrder(
		n.EXPECT().Notify(voting.Event{Kind: voting.KindParticipantRegistered, Voter: voter1, At: at}),
		n.EXPECT().Notify(voting.Event{Kind: voting.KindPhaseChanged, Previous: voting.RegisteringVoters, Next: voting.ProposalsRegistrationStarted, At: at}),
		n.EXPECT().Notify(voting.Event{Kind: voting.KindProposalRegistered, ProposalID: 1, At: at}),
	)

	e := voting.New(owner, voting.WithNotifier(n), voting.WithClock(func() time.Time { return at }))
	if err := e.RegisterVoter(owner, voter1); err != nil {
		t.Fatal(err)
	}
	if err := e.RegisterVoter(owner, voter1); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := e.StartProposalsRegistration(owner); err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddProposal(voter1, "Coffee"); err != nil {
		t.Fatal(err)
	}
}
