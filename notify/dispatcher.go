// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gbesset/alyra-voting/models"
	"github.com/gbesset/alyra-voting/voting"
)

// Sink receives every envelope that passes through a Dispatcher.
type Sink interface {
	Name() string
	Publish(ctx context.Context, env models.Envelope) error
}

// DefaultPublishTimeout bounds a single sink call.
const DefaultPublishTimeout = 5 * time.Second

// Dispatcher decouples engines from sinks. Engines append events to a
// pending list without ever waiting on a sink; Run publishes them to every
// sink in the order they were appended.
type Dispatcher struct {
	sinks     []Sink
	logger    *slog.Logger
	timeout   time.Duration
	highWater int

	mu      sync.Mutex
	pending []models.Envelope
	seqs    map[string]uint64
	closed  bool
	warned  bool

	// wake holds at most one signal that pending changed or Close was called
	wake chan struct{}
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func WithPublishTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// NewDispatcher creates a dispatcher. Intake never blocks: when more than
// highWater envelopes are waiting for Run, a warning is logged once until the
// backlog is drained again.
func NewDispatcher(highWater int, sinks []Sink, opts ...Option) *Dispatcher {
	if highWater < 1 {
		highWater = 1
	}
	d := &Dispatcher{
		sinks:     sinks,
		logger:    slog.Default(),
		timeout:   DefaultPublishTimeout,
		highWater: highWater,
		seqs:      make(map[string]uint64),
		wake:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// For returns the notifier to install on the engine of sessionID.
func (d *Dispatcher) For(sessionID uuid.UUID) voting.Notifier {
	id := sessionID.String()
	return voting.NotifierFunc(func(e voting.Event) {
		d.enqueue(id, e)
	})
}

// enqueue runs under the engine lock, so it only appends and signals.
func (d *Dispatcher) enqueue(sessionID string, e voting.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn("dispatcher closed, dropping event",
			"session_id", sessionID,
			"kind", e.Kind,
		)
		return
	}

	d.seqs[sessionID]++
	d.pending = append(d.pending, models.Envelope{SessionID: sessionID, Seq: d.seqs[sessionID], Event: e})

	if len(d.pending) > d.highWater && !d.warned {
		d.warned = true
		d.logger.Warn("notification backlog above high water mark",
			"pending", len(d.pending),
			"high_water", d.highWater,
		)
	}
	d.signal()
}

func (d *Dispatcher) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run publishes pending envelopes until Close is called and the backlog is
// drained. Cancelling ctx does not stop Run; it only stops waiting on sinks
// that honour their context deadline.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		batch, closed := d.take()
		for _, env := range batch {
			d.publish(ctx, env)
		}
		if closed && len(batch) == 0 {
			return nil
		}
	}
}

// take waits until envelopes are pending or the dispatcher is closed.
func (d *Dispatcher) take() ([]models.Envelope, bool) {
	for {
		d.mu.Lock()
		if len(d.pending) > 0 || d.closed {
			batch := d.pending
			d.pending = nil
			d.warned = false
			closed := d.closed
			d.mu.Unlock()
			return batch, closed
		}
		d.mu.Unlock()
		<-d.wake
	}
}

func (d *Dispatcher) publish(ctx context.Context, env models.Envelope) {
	for _, sink := range d.sinks {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		err := sink.Publish(pctx, env)
		cancel()
		if err != nil {
			d.logger.Error("failed to publish event",
				"sink", sink.Name(),
				"session_id", env.SessionID,
				"seq", env.Seq,
				"kind", env.Kind,
				"error", err,
			)
		}
	}
}

// Close stops accepting events. Events already pending are still published.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	d.signal()
}
