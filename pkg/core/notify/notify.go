// Package notify turns the outcome of every asynchronous workflow operation
// into user-visible messages: one pending message when the operation is
// issued and exactly one terminal message when it settles.
package notify

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/wsafety/desk/pkg/core/failure"
)

// Phase is the stage of an operation a message reports
type Phase string

const (
	PhasePending Phase = "pending"
	PhaseSuccess Phase = "success"
	PhaseFailure Phase = "failure"
)

// Terminal reports whether the phase settles an operation
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseFailure
}

// Message is a single notification
type Message struct {
	OperationID uuid.UUID
	Operation   string
	Phase       Phase
	Text        string
	At          time.Time
	Elapsed     time.Duration // terminal messages only
	Err         error         // failure messages only
}

// Sink receives messages. Implementations must be safe for concurrent use.
type Sink interface {
	Notify(Message)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Message)

func (f SinkFunc) Notify(m Message) {
	f(m)
}

// Notifier fans messages out to its sinks
type Notifier struct {
	mu    sync.RWMutex
	sinks []Sink
	now   func() time.Time
}

// Option configures a Notifier
type Option func(*Notifier)

// WithClock overrides the time source (for testing)
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		if now != nil {
			n.now = now
		}
	}
}

// WithSink subscribes a sink at construction
func WithSink(s Sink) Option {
	return func(n *Notifier) {
		if s != nil {
			n.sinks = append(n.sinks, s)
		}
	}
}

// New creates a Notifier
func New(opts ...Option) *Notifier {
	n := &Notifier{now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Subscribe adds a sink
func (n *Notifier) Subscribe(s Sink) {
	if s == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sinks = append(n.sinks, s)
}

func (n *Notifier) emit(m Message) {
	n.mu.RLock()
	sinks := make([]Sink, len(n.sinks))
	copy(sinks, n.sinks)
	n.mu.RUnlock()

	for _, s := range sinks {
		s.Notify(m)
	}
}

// Begin issues the pending message for a new operation
func (n *Notifier) Begin(operation, text string) *Operation {
	op := &Operation{
		n:       n,
		id:      uuid.New(),
		name:    operation,
		started: n.now(),
	}
	n.emit(Message{
		OperationID: op.id,
		Operation:   operation,
		Phase:       PhasePending,
		Text:        text,
		At:          op.started,
	})
	return op
}

// Reject reports an operation that failed before it was issued, such as a
// validation failure. It emits a single failure message and no pending one.
func (n *Notifier) Reject(operation string, err error, fallback string) Message {
	now := n.now()
	m := Message{
		OperationID: uuid.New(),
		Operation:   operation,
		Phase:       PhaseFailure,
		Text:        failure.UserMessage(err, fallback),
		At:          now,
		Err:         err,
	}
	n.emit(m)
	return m
}

// Operation is an issued operation awaiting its terminal message
type Operation struct {
	n       *Notifier
	id      uuid.UUID
	name    string
	started time.Time
	settled atomic.Bool
}

// ID returns the correlation id shared by all of the operation's messages
func (o *Operation) ID() uuid.UUID {
	return o.id
}

// Name returns the operation name
func (o *Operation) Name() string {
	return o.name
}

// Settled reports whether the terminal message has been emitted
func (o *Operation) Settled() bool {
	return o.settled.Load()
}

// Succeed emits the success message. Only the first terminal call on an
// operation emits anything; later calls return false.
func (o *Operation) Succeed(text string) bool {
	return o.settle(PhaseSuccess, text, nil)
}

// Fail emits the failure message, preferring the server's error text over
// fallback. Only the first terminal call emits.
func (o *Operation) Fail(err error, fallback string) bool {
	return o.settle(PhaseFailure, failure.UserMessage(err, fallback), err)
}

func (o *Operation) settle(phase Phase, text string, err error) bool {
	if !o.settled.CompareAndSwap(false, true) {
		return false
	}
	now := o.n.now()
	o.n.emit(Message{
		OperationID: o.id,
		Operation:   o.name,
		Phase:       phase,
		Text:        text,
		At:          now,
		Elapsed:     now.Sub(o.started),
		Err:         err,
	})
	return true
}
