// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sessions

import (
	"cmp"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gbesset/alyra-voting/voting"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one voting workflow hosted by the service.
type Session struct {
	ID        uuid.UUID
	Title     string
	Engine    *voting.Engine
	CreatedAt time.Time

	seq uint64
}

// NotifierFactory returns the notifier for a new session's engine.
type NotifierFactory func(sessionID uuid.UUID) voting.Notifier

// Registry holds sessions in memory. The lock covers the map only; each
// engine serializes its own operations.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*Session
	seq       uint64
	notifiers NotifierFactory
}

func NewRegistry(notifiers NotifierFactory) *Registry {
	return &Registry{
		sessions:  make(map[uuid.UUID]*Session),
		notifiers: notifiers,
	}
}

// Create starts a new workflow administered by admin.
func (r *Registry) Create(title string, admin voting.Identity) *Session {
	id := uuid.New()

	var opts []voting.Option
	if r.notifiers != nil {
		opts = append(opts, voting.WithNotifier(r.notifiers(id)))
	}

	s := &Session{
		ID:        id,
		Title:     title,
		Engine:    voting.New(admin, opts...),
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	r.seq++
	s.seq = r.seq
	r.sessions[id] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Lookup parses id and returns the matching session.
func (r *Registry) Lookup(id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return r.Get(parsed)
}

// List returns all sessions, oldest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Session) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}
