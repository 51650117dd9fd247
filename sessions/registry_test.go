// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sessions

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/gbesset/alyra-voting/voting"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
	notified map[uuid.UUID][]voting.Event
	mu       sync.Mutex
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.notified = make(map[uuid.UUID][]voting.Event)
	s.registry = NewRegistry(func(id uuid.UUID) voting.Notifier {
		return voting.NotifierFunc(func(e voting.Event) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.notified[id] = append(s.notified[id], e)
		})
	})
}

func (s *RegistrySuite) TestCreateAndGet() {
	created := s.registry.Create("Lunch", "alice")
	s.NotEqual(uuid.Nil, created.ID)
	s.Equal("Lunch", created.Title)
	s.Equal(voting.Identity("alice"), created.Engine.Admin())
	s.Equal(voting.RegisteringVoters, created.Engine.Phase())

	found, err := s.registry.Get(created.ID)
	s.Require().NoError(err)
	s.Same(created, found)

	found, err = s.registry.Lookup(created.ID.String())
	s.Require().NoError(err)
	s.Same(created, found)
}

func (s *RegistrySuite) TestUnknownSessions() {
	_, err := s.registry.Get(uuid.New())
	s.ErrorIs(err, ErrSessionNotFound)

	_, err = s.registry.Lookup("not-a-uuid")
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *RegistrySuite) TestNotifierIsBoundToSession() {
	a := s.registry.Create("A", "alice")
	b := s.registry.Create("B", "bob")

	s.Require().NoError(a.Engine.RegisterVoter("alice", "carol"))
	s.Require().NoError(b.Engine.StartProposalsRegistration("bob"))

	s.Require().Len(s.notified[a.ID], 1)
	s.Equal(voting.KindParticipantRegistered, s.notified[a.ID][0].Kind)
	s.Require().Len(s.notified[b.ID], 1)
	s.Equal(voting.KindPhaseChanged, s.notified[b.ID][0].Kind)
}

func (s *RegistrySuite) TestListIsOrdered() {
	first := s.registry.Create("first", "alice")
	second := s.registry.Create("second", "alice")
	third := s.registry.Create("third", "alice")

	list := s.registry.List()
	s.Require().Len(list, 3)
	s.Equal(first.ID, list[0].ID)
	s.Equal(second.ID, list[1].ID)
	s.Equal(third.ID, list[2].ID)
}

func (s *RegistrySuite) TestConcurrentCreate() {
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.registry.Create("poll", "alice")
		}()
	}
	wg.Wait()
	s.Len(s.registry.List(), 20)
}

func TestNilNotifierFactory(t *testing.T) {
	r := NewRegistry(nil)
	sess := r.Create("quiet", "alice")
	if err := sess.Engine.RegisterVoter("alice", "bob"); err != nil {
		t.Fatalf("RegisterVoter: %v", err)
	}
}
