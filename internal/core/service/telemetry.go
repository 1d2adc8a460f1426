package service

import (
	"context"
	"fmt"

	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/port"
)

var _ port.SessionEventsSaver = (*Telemetry)(nil)

// A Telemetry persists session events consumed from the broker.
type Telemetry struct {
	storage port.SessionEventsStorage
}

func NewTelemetry(storage port.SessionEventsStorage) Telemetry {
	return Telemetry{storage}
}

func (t Telemetry) SaveEvents(
	ctx context.Context, evts []domain.SessionEvent,
) error {
	const op = "Telemetry.SaveEvents"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := t.storage.StoreEvents(ctx, evts); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
