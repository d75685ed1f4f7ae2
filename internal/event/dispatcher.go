package event

import (
	"context"

	"github.com/rs/zerolog"
)

// Dispatcher emits domain events. Implementations must be safe for
// concurrent use; callers never wait on, retry, or roll back delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, e Event) error
}

// logDispatcher writes events to the structured log. Used when no broker
// is configured; the log stream doubles as the event feed in development.
type logDispatcher struct {
	logger zerolog.Logger
}

// NewLogDispatcher creates a dispatcher that only logs events.
func NewLogDispatcher(logger zerolog.Logger) Dispatcher {
	return &logDispatcher{logger: logger.With().Str("dispatcher", "log").Logger()}
}

func (d *logDispatcher) Dispatch(ctx context.Context, e Event) error {
	d.logger.Info().
		Str("event_type", e.Type).
		Str("order_id", e.OrderID).
		Str("customer_id", e.CustomerID).
		Str("from", string(e.From)).
		Str("to", string(e.To)).
		Int64("total_cents", int64(e.TotalCents)).
		Msg("domain event")
	return nil
}
