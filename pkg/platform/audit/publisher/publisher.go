// Package publisher decouples event emission from persistence. Services emit
// into a buffered channel; the worker drains it into a store. Emission never
// blocks a registry operation on a slow sink.
package publisher

import (
	"context"
	"log/slog"

	audit "hemotrace/pkg/platform/audit"
)

// ChannelPublisher queues events for the background worker.
type ChannelPublisher struct {
	inbox  chan audit.Event
	logger *slog.Logger
}

// New creates a publisher with the given buffer size.
func New(buffer int, logger *slog.Logger) *ChannelPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &ChannelPublisher{
		inbox:  make(chan audit.Event, buffer),
		logger: logger,
	}
}

// Emit enqueues an event. When the buffer is full the event is dropped and
// logged rather than stalling the mutation that produced it; notifications
// are observability output, not part of the operation's commit.
func (p *ChannelPublisher) Emit(ctx context.Context, event audit.Event) error {
	select {
	case p.inbox <- event:
		return nil
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, dropping event",
				"action", event.Action,
			)
		}
		return nil
	}
}

// Inbox exposes the queue for the worker.
func (p *ChannelPublisher) Inbox() <-chan audit.Event {
	return p.inbox
}
