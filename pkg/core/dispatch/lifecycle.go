// Package dispatch tracks the complaints assigned to the signed-in volunteer
// and moves each through PENDING, IN_PROGRESS and RESOLVED.
package dispatch

//go:generate mockgen -source=lifecycle.go -destination=mocks/mocks.go -package=mocks API,TokenSource

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wsafety/desk/pkg/core/failure"
	"github.com/wsafety/desk/pkg/core/listview"
	"github.com/wsafety/desk/pkg/core/model"
	"github.com/wsafety/desk/pkg/core/notify"
)

// Operation names carried by notifications
const (
	OpLoad       = "dispatch.load"
	OpTransition = "dispatch.transition"
)

const msgUpdateFailed = "Failed to update status."

// API is the subset of the backend the lifecycle calls
type API interface {
	AssignedDispatches(ctx context.Context, token string) ([]model.Dispatch, error)
	UpdateDispatchStatus(ctx context.Context, token string, id model.ID, status model.DispatchStatus) error
}

// TokenSource yields the stored volunteer token ("" when signed out)
type TokenSource interface {
	Token() (string, error)
}

// Lifecycle holds the dispatch list of the signed-in volunteer
type Lifecycle struct {
	api      API
	tokens   TokenSource
	notifier *notify.Notifier
	logger   *zap.Logger
	policy   listview.FailurePolicy
	gate     *Gate
	view     *listview.View[model.Dispatch, model.ID]
}

// Option configures a Lifecycle
type Option func(*Lifecycle)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(l *Lifecycle) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithNotifier sets where operation messages go
func WithNotifier(n *notify.Notifier) Option {
	return func(l *Lifecycle) {
		if n != nil {
			l.notifier = n
		}
	}
}

// WithFailurePolicy overrides what a failed load does to the held list.
// The default clears it.
func WithFailurePolicy(p listview.FailurePolicy) Option {
	return func(l *Lifecycle) {
		l.policy = p
	}
}

// WithGate shares a transition gate
func WithGate(g *Gate) Option {
	return func(l *Lifecycle) {
		if g != nil {
			l.gate = g
		}
	}
}

// NewLifecycle creates an unloaded lifecycle
func NewLifecycle(api API, tokens TokenSource, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		api:      api,
		tokens:   tokens,
		notifier: notify.New(),
		logger:   zap.NewNop(),
		policy:   listview.ClearOnFailure,
		gate:     &Gate{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.view = listview.New(func(d model.Dispatch) model.ID { return d.ID }, l.policy)
	return l
}

func (l *Lifecycle) token() string {
	token, err := l.tokens.Token()
	if err != nil {
		l.logger.Warn("Failed to read stored token", zap.Error(err))
		return ""
	}
	return token
}

// Load fetches the assigned dispatches. Without a stored token the list
// becomes empty with no request and no message.
func (l *Lifecycle) Load(ctx context.Context) error {
	load := l.view.BeginLoad()

	token := l.token()
	if token == "" {
		l.logger.Debug("No stored token, skipping dispatch fetch")
		l.view.CompleteLoad(load, []model.Dispatch{})
		return nil
	}

	op := l.notifier.Begin(OpLoad, "Loading assigned complaints...")
	l.logger.Debug("Fetching assigned dispatches", zap.Uint64("load", load.Seq()))

	dispatches, err := l.api.AssignedDispatches(ctx, token)
	if err != nil {
		l.view.FailLoad(load)
		l.logger.Warn("Failed to fetch assigned dispatches", zap.Error(err))
		op.Fail(err, "Failed to fetch complaints.")
		return err
	}

	if !l.view.CompleteLoad(load, dispatches) {
		l.logger.Debug("Discarded superseded dispatch fetch", zap.Uint64("load", load.Seq()))
	}
	// a superseded response was dropped, so report what the list holds
	count := len(l.view.Items())
	l.logger.Info("Fetched assigned dispatches", zap.Int("count", count))

	if count == 0 {
		op.Succeed("No active complaints assigned.")
	} else {
		op.Succeed(fmt.Sprintf("%d complaints assigned.", count))
	}
	return nil
}

// CanTransition reports whether d may be moved to target. The guard looks at
// the target: a move is refused only when d already has that status or is
// resolved, so PENDING may go straight to RESOLVED.
func CanTransition(d model.Dispatch, target model.DispatchStatus) bool {
	return target.IsTarget() && d.Status != target && !d.Status.IsTerminal()
}

// Transition moves dispatch id to target. While any transition is in flight
// every other one is refused with a blocked error and no message.
func (l *Lifecycle) Transition(ctx context.Context, id model.ID, target model.DispatchStatus) error {
	if !target.IsTarget() {
		err := failure.Validation(fmt.Sprintf("A dispatch cannot be moved to %s.", target.Label()))
		l.notifier.Reject(OpTransition, err, msgUpdateFailed)
		return err
	}

	d, ok := l.view.Get(id)
	if !ok {
		err := failure.Validation(fmt.Sprintf("Dispatch %s is not assigned to you.", id))
		l.notifier.Reject(OpTransition, err, msgUpdateFailed)
		return err
	}
	if !CanTransition(d, target) {
		return failure.Blocked(fmt.Sprintf("dispatch %s is already %s", id, d.Status.Label()))
	}

	token := l.token()
	if token == "" {
		err := failure.Validation("You are not signed in.")
		l.notifier.Reject(OpTransition, err, msgUpdateFailed)
		return err
	}

	if !l.gate.TryAcquire(id) {
		holder, _ := l.gate.Holder()
		l.logger.Debug("Transition refused, another is in flight",
			zap.String("dispatch_id", id.String()),
			zap.String("holder", holder.String()))
		return failure.Blocked("another status update is in progress")
	}
	defer l.gate.Release()

	logger := l.logger.With(zap.String("dispatch_id", id.String()), zap.String("target", string(target)))
	op := l.notifier.Begin(OpTransition, "Updating status...")
	logger.Debug("Updating dispatch status", zap.String("from", string(d.Status)))

	if err := l.api.UpdateDispatchStatus(ctx, token, id, target); err != nil {
		logger.Warn("Failed to update dispatch status", zap.Error(err))
		op.Fail(err, msgUpdateFailed)
		return err
	}

	l.view.Update(id, func(d model.Dispatch) model.Dispatch {
		d.Status = target
		return d
	})
	logger.Info("Updated dispatch status")
	op.Succeed(fmt.Sprintf("Status updated to %s!", target.Label()))
	return nil
}

// Start moves dispatch id to IN_PROGRESS
func (l *Lifecycle) Start(ctx context.Context, id model.ID) error {
	return l.Transition(ctx, id, model.DispatchInProgress)
}

// Resolve moves dispatch id to RESOLVED
func (l *Lifecycle) Resolve(ctx context.Context, id model.ID) error {
	return l.Transition(ctx, id, model.DispatchResolved)
}

// Dispatches returns a copy of the held list, nil when nothing has loaded
func (l *Lifecycle) Dispatches() []model.Dispatch {
	return l.view.Items()
}

// Get returns the held dispatch with id
func (l *Lifecycle) Get(id model.ID) (model.Dispatch, bool) {
	return l.view.Get(id)
}

// Loaded reports whether a list has been loaded (possibly empty)
func (l *Lifecycle) Loaded() bool {
	return l.view.Loaded()
}

// Loading reports whether a fetch is in flight
func (l *Lifecycle) Loading() bool {
	return l.view.Loading()
}

// Busy reports whether a transition is in flight, which disables all of them
func (l *Lifecycle) Busy() bool {
	return l.gate.Busy()
}
