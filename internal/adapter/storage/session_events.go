package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/port"
)

var _ port.SessionEventsStorage = (*SessionEventsRepository)(nil)

// A SessionEventsRepository appends captured bus events to the
// session_events table. The payload column keeps the event payload as
// JSONB for ad-hoc analytics queries.
type SessionEventsRepository struct {
	sqldb sqldb
}

func NewSessionEventsRepository(sqldb sqldb) SessionEventsRepository {
	return SessionEventsRepository{sqldb}
}

func (r SessionEventsRepository) StoreEvents(
	ctx context.Context, evts []domain.SessionEvent,
) (storeErr error) {
	const op = "SessionEventsRepository.StoreEvents"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit %w", op, err)
			}
			return
		}

		err := tx.Rollback()
		if err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		INSERT INTO session_events (event_name, occurred_at, payload)
		VALUES ($1, $2, $3);
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, evt := range evts {
		payload := evt.Payload
		if len(payload) == 0 {
			payload = []byte("null")
		}
		_, err := stmt.ExecContext(ctx,
			evt.Name, evt.At, string(payload),
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}
