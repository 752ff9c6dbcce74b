// Package notifier fans engine events out to registered handlers through a
// bounded queue. Dispatch never blocks the caller: when the queue is full
// the event is dropped and logged, a completed toggle must not stall on a
// slow notification backend.
package notifier

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

// Handler consumes one event. Handlers run sequentially per worker; a
// returned error is logged and does not stop the dispatcher.
type Handler interface {
	Handle(ctx context.Context, event domain.Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event domain.Event) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}

// Notifier is a bounded asynchronous event dispatcher.
type Notifier struct {
	queue    chan domain.Event
	handlers []Handler
	log      *slog.Logger

	group  *errgroup.Group
	cancel context.CancelFunc
}

// New creates a notifier with the given queue size and starts its worker.
// Call Close to drain and stop it.
func New(log *slog.Logger, queueSize int, handlers ...Handler) *Notifier {
	if queueSize <= 0 {
		queueSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	n := &Notifier{
		queue:    make(chan domain.Event, queueSize),
		handlers: handlers,
		log:      log.With("component", "notifier"),
		group:    group,
		cancel:   cancel,
	}

	group.Go(func() error {
		n.run(ctx)
		return nil
	})

	return n
}

// Dispatch enqueues an event without blocking. A full queue drops the
// event with a warning.
func (n *Notifier) Dispatch(event domain.Event) {
	select {
	case n.queue <- event:
	default:
		n.log.Warn("event queue full, dropping event",
			"type", event.Type.String(),
			"user_id", event.UserID,
		)
	}
}

// Close stops accepting events, drains what is already queued and waits
// for the worker to finish.
func (n *Notifier) Close() error {
	close(n.queue)
	err := n.group.Wait()
	n.cancel()
	return err
}

func (n *Notifier) run(ctx context.Context) {
	for event := range n.queue {
		for _, h := range n.handlers {
			if err := h.Handle(ctx, event); err != nil {
				n.log.Error("event handler failed",
					"type", event.Type.String(),
					"user_id", event.UserID,
					"error", err,
				)
			}
		}
	}
}
