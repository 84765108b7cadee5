//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"wegetchat/domain"
	"wegetchat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker is a background loop living next to the messenger core.
// It never touches the snapshot directly and stops when its context is done.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName returns the type name of the worker, used as its log name.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink consumes events after the mutation that produced them has been persisted.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// EventPublisher hands committed events over to asynchronous consumers.
// Publish must never block the caller.
type EventPublisher interface {
	Publish(events ...event.DomainEvent)
}

// SnapshotSource exposes the last committed snapshot to observers.
// The returned snapshot is shared and must not be modified.
type SnapshotSource interface {
	Snapshot() *domain.Snapshot
	Version() uint64
}
