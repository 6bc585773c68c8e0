// Package verification coordinates the admin review of volunteers awaiting
// approval: fetching the pending queue and approving or rejecting entries.
package verification

//go:generate mockgen -source=queue.go -destination=mocks/mocks.go -package=mocks API

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wsafety/desk/pkg/core/failure"
	"github.com/wsafety/desk/pkg/core/listview"
	"github.com/wsafety/desk/pkg/core/model"
	"github.com/wsafety/desk/pkg/core/notify"
)

// Operation names carried by notifications
const (
	OpFetch  = "verification.fetch"
	OpVerify = "verification.verify"
	OpReject = "verification.reject"
)

const msgCredentialRequired = "Admin password is required."

// API is the subset of the backend the queue calls
type API interface {
	PendingVolunteers(ctx context.Context, credential string) ([]model.Volunteer, error)
	VerifyVolunteer(ctx context.Context, credential string, id model.ID) error
	RejectVolunteer(ctx context.Context, credential string, id model.ID) error
}

// Queue holds the list of volunteers awaiting verification
type Queue struct {
	api      API
	notifier *notify.Notifier
	logger   *zap.Logger
	policy   listview.FailurePolicy
	view     *listview.View[model.Volunteer, model.ID]

	mu         sync.RWMutex
	credential string
}

// Option configures a Queue
type Option func(*Queue)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithNotifier sets where operation messages go
func WithNotifier(n *notify.Notifier) Option {
	return func(q *Queue) {
		if n != nil {
			q.notifier = n
		}
	}
}

// WithFailurePolicy overrides what a failed fetch does to the held list.
// The default keeps the previous list.
func WithFailurePolicy(p listview.FailurePolicy) Option {
	return func(q *Queue) {
		q.policy = p
	}
}

// NewQueue creates an unloaded queue
func NewQueue(api API, opts ...Option) *Queue {
	q := &Queue{
		api:      api,
		notifier: notify.New(),
		logger:   zap.NewNop(),
		policy:   listview.PreserveOnFailure,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.view = listview.New(func(v model.Volunteer) model.ID { return v.ID }, q.policy)
	return q
}

// Fetch loads the pending volunteers using credential, which is kept for
// later approve and reject calls. Only one fetch runs at a time; a second
// call while one is in flight is refused with a blocked error.
func (q *Queue) Fetch(ctx context.Context, credential string) error {
	if credential == "" {
		err := failure.Validation(msgCredentialRequired)
		q.notifier.Reject(OpFetch, err, msgCredentialRequired)
		return err
	}

	load, ok := q.view.TryBeginLoad()
	if !ok {
		q.logger.Debug("Fetch already in flight, ignoring")
		return failure.Blocked("pending volunteers are already being fetched")
	}

	q.mu.Lock()
	q.credential = credential
	q.mu.Unlock()

	op := q.notifier.Begin(OpFetch, "Fetching pending users...")
	q.logger.Debug("Fetching pending volunteers", zap.Uint64("load", load.Seq()))

	users, err := q.api.PendingVolunteers(ctx, credential)
	if err != nil {
		q.view.FailLoad(load)
		q.logger.Warn("Failed to fetch pending volunteers", zap.Error(err))
		op.Fail(err, "Error fetching users.")
		return err
	}

	if !q.view.CompleteLoad(load, users) {
		q.logger.Debug("Discarded superseded fetch", zap.Uint64("load", load.Seq()))
	}
	q.logger.Info("Fetched pending volunteers", zap.Int("count", len(users)))

	if len(users) == 0 {
		op.Succeed("No users pending.")
	} else {
		op.Succeed(fmt.Sprintf("%d users found.", len(users)))
	}
	return nil
}

// Approve verifies the volunteer with id
func (q *Queue) Approve(ctx context.Context, id model.ID) error {
	return q.Review(ctx, model.DecisionVerify, id)
}

// Reject rejects the volunteer with id
func (q *Queue) Reject(ctx context.Context, id model.ID) error {
	return q.Review(ctx, model.DecisionReject, id)
}

type reviewText struct {
	op, pending, success, failure string
}

var reviewTexts = map[model.Decision]reviewText{
	model.DecisionVerify: {OpVerify, "Verifying user...", "User verified successfully.", "Error verifying user."},
	model.DecisionReject: {OpReject, "Rejecting user...", "User rejected successfully.", "Error rejecting user."},
}

// Review applies decision to the volunteer with id. On success the volunteer
// leaves the held list; on failure the list is untouched. Reviews of
// different volunteers do not wait for each other.
func (q *Queue) Review(ctx context.Context, decision model.Decision, id model.ID) error {
	text, ok := reviewTexts[decision]
	if !ok {
		return failure.Validation(fmt.Sprintf("unknown review decision %q", decision))
	}

	credential := q.Credential()
	if credential == "" {
		err := failure.Validation(msgCredentialRequired)
		q.notifier.Reject(text.op, err, text.failure)
		return err
	}
	if id.IsZero() {
		err := failure.Validation("Volunteer id is required.")
		q.notifier.Reject(text.op, err, text.failure)
		return err
	}

	op := q.notifier.Begin(text.op, text.pending)
	logger := q.logger.With(zap.String("volunteer_id", id.String()), zap.String("decision", string(decision)))
	logger.Debug("Reviewing volunteer")

	var err error
	if decision == model.DecisionVerify {
		err = q.api.VerifyVolunteer(ctx, credential, id)
	} else {
		err = q.api.RejectVolunteer(ctx, credential, id)
	}
	if err != nil {
		logger.Warn("Failed to review volunteer", zap.Error(err))
		op.Fail(err, text.failure)
		return err
	}

	q.view.Remove(id)
	logger.Info("Reviewed volunteer")
	op.Succeed(text.success)
	return nil
}

// ReviewMany applies decision to every id concurrently. Each review settles
// on its own; the returned error joins every failure.
func (q *Queue) ReviewMany(ctx context.Context, decision model.Decision, ids ...model.ID) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, id := range ids {
		g.Go(func() error {
			if err := q.Review(ctx, decision, id); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("volunteer %s: %w", id, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Credential returns the admin credential of the last fetch
func (q *Queue) Credential() string {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.credential
}

// Volunteers returns a copy of the held list, nil when nothing has loaded
func (q *Queue) Volunteers() []model.Volunteer {
	return q.view.Items()
}

// Get returns the held volunteer with id
func (q *Queue) Get(id model.ID) (model.Volunteer, bool) {
	return q.view.Get(id)
}

// Loaded reports whether a fetch has ever succeeded. A loaded queue may be
// empty.
func (q *Queue) Loaded() bool {
	return q.view.Loaded()
}

// Fetching reports whether a fetch is in flight
func (q *Queue) Fetching() bool {
	return q.view.Loading()
}
