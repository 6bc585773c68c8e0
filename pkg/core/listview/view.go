package listview

import (
	"sync"
)

// FailurePolicy decides what a failed fetch does to the held list
type FailurePolicy int

const (
	// PreserveOnFailure keeps the last loaded list (or the unloaded state)
	PreserveOnFailure FailurePolicy = iota
	// ClearOnFailure empties the list
	ClearOnFailure
)

func (p FailurePolicy) String() string {
	if p == ClearOnFailure {
		return "clear"
	}
	return "preserve"
}

// Load is the handle of one in-flight fetch
type Load struct {
	seq uint64
}

// Seq returns the load's sequence number, starting at 1
func (l Load) Seq() uint64 {
	return l.seq
}

type journalEntry[T any, K comparable] struct {
	after uint64 // loads begun when the command was applied
	cmd   Command[T, K]
}

// View is a concurrency-safe owned list keyed by K.
//
// Loads are sequenced. Item commands applied while a load is in flight are
// journaled and replayed on top of that load's result, so a fetch that raced
// with a successful action cannot resurrect a removed item or revert an
// update. A load that completes after a newer load has been applied is
// discarded.
type View[T any, K comparable] struct {
	mu      sync.RWMutex
	keyOf   func(T) K
	policy  FailurePolicy
	state   State[T]
	started uint64
	applied uint64
	pending map[uint64]struct{}
	journal []journalEntry[T, K]
}

// New creates an empty, unloaded view
func New[T any, K comparable](keyOf func(T) K, policy FailurePolicy) *View[T, K] {
	return &View[T, K]{
		keyOf:   keyOf,
		policy:  policy,
		pending: make(map[uint64]struct{}),
	}
}

// Policy returns the view's failure policy
func (v *View[T, K]) Policy() FailurePolicy {
	return v.policy
}

// BeginLoad registers a new in-flight fetch
func (v *View[T, K]) BeginLoad() Load {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.beginLocked()
}

// TryBeginLoad registers a fetch only if none is in flight
func (v *View[T, K]) TryBeginLoad() (Load, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.pending) > 0 {
		return Load{}, false
	}
	return v.beginLocked(), true
}

func (v *View[T, K]) beginLocked() Load {
	v.started++
	v.pending[v.started] = struct{}{}
	return Load{seq: v.started}
}

// CompleteLoad replaces the held list with items. It reports false when the
// load was superseded by a newer one and nothing changed.
func (v *View[T, K]) CompleteLoad(l Load, items []T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.settleLocked(l) {
		return false
	}
	st := Reduce(v.state, Command[T, K]{Op: OpReplace, Items: items}, v.keyOf)
	for _, entry := range v.journal {
		if entry.after >= l.seq {
			st = Reduce(st, entry.cmd, v.keyOf)
		}
	}
	v.state = st
	v.applied = l.seq
	v.pruneLocked()
	return true
}

// FailLoad settles a failed fetch according to the view's policy. It reports
// whether the held list changed.
func (v *View[T, K]) FailLoad(l Load) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.settleLocked(l) {
		return false
	}
	defer v.pruneLocked()
	if v.policy != ClearOnFailure {
		return false
	}
	v.state = Reduce(v.state, Command[T, K]{Op: OpClear}, v.keyOf)
	v.applied = l.seq
	return true
}

func (v *View[T, K]) settleLocked(l Load) bool {
	if _, ok := v.pending[l.seq]; !ok {
		return false
	}
	delete(v.pending, l.seq)
	if l.seq < v.applied {
		v.pruneLocked()
		return false
	}
	return true
}

func (v *View[T, K]) pruneLocked() {
	if len(v.pending) == 0 {
		v.journal = nil
		return
	}
	oldest := v.started
	for seq := range v.pending {
		if seq < oldest {
			oldest = seq
		}
	}
	kept := v.journal[:0]
	for _, entry := range v.journal {
		if entry.after >= oldest {
			kept = append(kept, entry)
		}
	}
	v.journal = kept
}

// Apply runs cmd against the held list
func (v *View[T, K]) Apply(cmd Command[T, K]) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.state = Reduce(v.state, cmd, v.keyOf)
	if len(v.pending) > 0 && (cmd.Op == OpRemove || cmd.Op == OpUpdate) {
		v.journal = append(v.journal, journalEntry[T, K]{after: v.started, cmd: cmd})
	}
}

// Remove drops the item with key k. Removing an absent key is a no-op.
func (v *View[T, K]) Remove(k K) {
	v.Apply(Command[T, K]{Op: OpRemove, Key: k})
}

// Update replaces the item with key k by fn(item)
func (v *View[T, K]) Update(k K, fn func(T) T) {
	v.Apply(Command[T, K]{Op: OpUpdate, Key: k, Mutate: fn})
}

// Snapshot returns a copy of the current state
func (v *View[T, K]) Snapshot() State[T] {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var items []T
	if v.state.Items != nil {
		items = make([]T, len(v.state.Items))
		copy(items, v.state.Items)
	}
	return State[T]{Items: items, Loaded: v.state.Loaded}
}

// Items returns a copy of the held items (nil when nothing is loaded)
func (v *View[T, K]) Items() []T {
	return v.Snapshot().Items
}

// Loaded reports whether a list has been loaded
func (v *View[T, K]) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.Loaded
}

// Loading reports whether any fetch is in flight
func (v *View[T, K]) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.pending) > 0
}

// Get returns the item with key k
func (v *View[T, K]) Get(k K) (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	for _, item := range v.state.Items {
		if v.keyOf(item) == k {
			return item, true
		}
	}
	var zero T
	return zero, false
}
