package repository

import (
	"context"

	"ticket-ledger/internal/model"
	apperrors "ticket-ledger/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)

	// Transaction methods
	FindByEventIDWithLock(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (*model.Event, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, event_id, name, venue, date, organizer,
		max_resale_count, price_cap_percent, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.EventID,
		&event.Name,
		&event.Venue,
		&event.Date,
		&event.Organizer,
		&event.MaxResaleCount,
		&event.PriceCapPercent,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrUnknownEvent
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (event_id, name, venue, date, organizer, max_resale_count, price_cap_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + eventColumns

	return scanEvent(r.pool.QueryRow(ctx, query,
		event.EventID, event.Name, event.Venue, event.Date,
		event.Organizer, event.MaxResaleCount, event.PriceCapPercent,
	))
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)

	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	return scanEvent(r.pool.QueryRow(ctx, query, id))
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE event_id = $1
	`
	return scanEvent(r.pool.QueryRow(ctx, query, eventID))
}

// FindByEventIDWithLock locks the event row. Mint serializes per event on this
// lock so ticket numbers stay monotonic without gaps from racing mints.
func (r *EventRepositoryImpl) FindByEventIDWithLock(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE event_id = $1
		FOR UPDATE
	`
	return scanEvent(tx.QueryRow(ctx, query, eventID))
}
