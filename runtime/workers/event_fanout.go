package workers

import (
	"context"
	"log/slog"
	"time"
	"wegetchat/contract"
	"wegetchat/domain/event"
)

const defaultSinkTimeout = 2 * time.Second

// EventFanout delivers committed domain events to in-process sinks.
//
// Delivery is best-effort: events are buffered in memory, dropped when the buffer is full
// and lost on shutdown. Sinks see events in commit order and never influence the snapshot.
type EventFanout struct {
	log         *slog.Logger
	events      chan event.DomainEvent
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

var (
	_ contract.Worker         = (*EventFanout)(nil)
	_ contract.EventPublisher = (*EventFanout)(nil)
)

func NewEventFanout(log *slog.Logger, bufferSize int, sinkTimeout time.Duration, sinks ...contract.EventSink) *EventFanout {
	if sinkTimeout <= 0 {
		sinkTimeout = defaultSinkTimeout
	}
	return &EventFanout{
		log:         log,
		events:      make(chan event.DomainEvent, bufferSize),
		sinks:       sinks,
		sinkTimeout: sinkTimeout,
	}
}

// Publish enqueues events without blocking the committing writer.
func (w *EventFanout) Publish(events ...event.DomainEvent) {
	for _, evt := range events {
		select {
		case w.events <- evt:
		default:
			w.log.Warn("Event buffer full, event dropped", "event", evt.Name())
		}
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout", "pending", len(w.events))
			return nil
		}
	}
}

// Fanout hands one event to every sink, each bounded by the sink timeout.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Sink failed to consume event", "event", evt.Name(), "err", err)
		}
		cancel()
	}
}
