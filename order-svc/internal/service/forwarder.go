package service

import (
	"context"
	"time"

	"restaurant-orders/order-svc/internal/domain"
	"restaurant-orders/order-svc/internal/logging"
)

const exportTimeout = 5 * time.Second

// EventForwarder copies bus events to an external feed. Export failures are
// logged and the event is skipped; the bus is never held up.
type EventForwarder struct {
	exporter EventExporter
}

func NewEventForwarder(exporter EventExporter) *EventForwarder {
	return &EventForwarder{exporter: exporter}
}

// Run forwards until ctx is done or events is closed.
func (f *EventForwarder) Run(ctx context.Context, events <-chan domain.OrderEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			f.forward(ctx, event)
		}
	}
}

func (f *EventForwarder) forward(ctx context.Context, event domain.OrderEvent) {
	exportCtx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	if err := f.exporter.PublishOrderEvent(exportCtx, event); err != nil {
		logging.Warn().Err(err).
			Int64("order_id", event.OrderID).
			Str("type", string(event.Type)).
			Msg("order event export failed")
	}
}
