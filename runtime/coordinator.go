package runtime

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"wegetchat/contract"
	"wegetchat/domain"
	"wegetchat/domain/event"
	"wegetchat/errors"
	"wegetchat/repositories"
)

// Tx is the private working copy handed to a single mutation.
// Nothing written to it is visible until the coordinator has persisted it.
type Tx struct {
	Snapshot  *domain.Snapshot
	events    []event.DomainEvent
	unchanged bool
}

// Emit queues events delivered only once the mutation is committed.
func (tx *Tx) Emit(events ...event.DomainEvent) {
	tx.events = append(tx.events, events...)
}

// Unchanged marks the mutation as a no-op: nothing is saved nor published.
func (tx *Tx) Unchanged() {
	tx.unchanged = true
}

// Coordinator is the single writer of the snapshot.
//
// Mutations are serialized by one mutex covering apply and persist. Each mutation works
// on a deep copy; the copy replaces the published snapshot only after the store accepted it,
// so a failed save leaves the previous state untouched.
// Readers load the published snapshot without locking and must treat it as read-only.
type Coordinator struct {
	mu        sync.Mutex
	log       *slog.Logger
	store     repositories.ISnapshotStore
	publisher contract.EventPublisher
	current   atomic.Pointer[domain.Snapshot]
	version   atomic.Uint64
}

var _ contract.SnapshotSource = (*Coordinator)(nil)

func NewCoordinator(
	log *slog.Logger,
	store repositories.ISnapshotStore,
	initial *domain.Snapshot,
	publisher contract.EventPublisher,
) *Coordinator {
	if initial == nil {
		initial = domain.NewSnapshot()
	}
	initial.Normalize()
	c := &Coordinator{log: log, store: store, publisher: publisher}
	c.current.Store(initial)
	return c
}

// Snapshot returns the last committed state. Callers must not modify it.
func (c *Coordinator) Snapshot() *domain.Snapshot {
	return c.current.Load()
}

// Version counts committed mutations since start.
func (c *Coordinator) Version() uint64 {
	return c.version.Load()
}

// Mutate applies fn to a copy of the current snapshot and commits it.
// An error from fn or from the store discards the copy.
func (c *Coordinator) Mutate(op string, fn func(tx *Tx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 1. Work on a private copy
	tx := &Tx{Snapshot: c.current.Load().Clone()}
	if err := fn(tx); err != nil {
		c.log.Debug("Mutation rejected", "op", op, "err", err)
		return err
	}
	if tx.unchanged {
		return nil
	}

	// 2. Persist before anyone can observe the new state
	if err := c.store.Save(tx.Snapshot); err != nil {
		c.log.Error("Could not persist mutation, rolled back", "op", op, "err", err)
		return errors.ErrPersistence.Wrap(err)
	}

	// 3. Publish
	c.current.Store(tx.Snapshot)
	c.version.Add(1)
	if c.publisher != nil && len(tx.events) > 0 {
		c.publisher.Publish(tx.events...)
	}
	return nil
}

// Apply is Mutate for operations producing a value.
// The zero value is returned whenever the mutation is not committed.
func Apply[T any](c *Coordinator, op string, fn func(tx *Tx) (T, error)) (T, error) {
	var result T
	err := c.Mutate(op, func(tx *Tx) error {
		r, err := fn(tx)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
