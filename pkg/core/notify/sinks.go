package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Queue is a bounded, transient message queue for presentation layers that
// poll. When full, the oldest message is dropped.
type Queue struct {
	mu   sync.Mutex
	max  int
	msgs []Message
}

// NewQueue creates a queue holding at most size messages
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{max: size}
}

func (q *Queue) Notify(m Message) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.msgs = append(q.msgs, m)
	if over := len(q.msgs) - q.max; over > 0 {
		q.msgs = append([]Message(nil), q.msgs[over:]...)
	}
}

// Drain returns and removes all queued messages, oldest first
func (q *Queue) Drain() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	msgs := q.msgs
	q.msgs = nil
	return msgs
}

// Len returns the number of queued messages
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.msgs)
}

// LogSink records every message on logger
func LogSink(logger *zap.Logger) Sink {
	return SinkFunc(func(m Message) {
		fields := []zap.Field{
			zap.String("operation", m.Operation),
			zap.String("operation_id", m.OperationID.String()),
			zap.String("phase", string(m.Phase)),
			zap.String("text", m.Text),
		}
		switch m.Phase {
		case PhasePending:
			logger.Debug("Operation issued", fields...)
		case PhaseSuccess:
			logger.Debug("Operation succeeded", append(fields, zap.Duration("elapsed", m.Elapsed))...)
		case PhaseFailure:
			logger.Debug("Operation failed", append(fields, zap.Duration("elapsed", m.Elapsed), zap.Error(m.Err))...)
		}
	})
}

// WriterSink prints messages for a line-oriented terminal
func WriterSink(w io.Writer) Sink {
	var mu sync.Mutex
	return SinkFunc(func(m Message) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "%s %s\n", Icon(m.Phase), m.Text)
	})
}

// Icon returns the marker printed in front of a message
func Icon(p Phase) string {
	switch p {
	case PhaseSuccess:
		return "✓"
	case PhaseFailure:
		return "✗"
	}
	return "…"
}

// Switch forwards every message to one replaceable target. The line-oriented
// CLI points it at a WriterSink so nothing is dropped; a full-screen screen
// routes it to its Queue while it is showing.
type Switch struct {
	mu     sync.RWMutex
	target Sink
}

// NewSwitch creates a switch forwarding to target
func NewSwitch(target Sink) *Switch {
	return &Switch{target: target}
}

func (s *Switch) Notify(m Message) {
	s.mu.RLock()
	target := s.target
	s.mu.RUnlock()
	if target != nil {
		target.Notify(m)
	}
}

// Route forwards to target until the returned func restores the previous one
func (s *Switch) Route(target Sink) (restore func()) {
	s.mu.Lock()
	prev := s.target
	s.target = target
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.target = prev
		s.mu.Unlock()
	}
}
