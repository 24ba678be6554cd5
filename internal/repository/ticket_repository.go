package repository

import (
	"context"
	"time"

	"ticket-ledger/internal/model"
	apperrors "ticket-ledger/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TicketRepository is the single writer of ticket ownership state. Every
// mutation takes a transaction that already holds (or acquires here) the
// ticket row lock, so no caller ever observes a half-applied transition.
type TicketRepository interface {
	FindByRef(ctx context.Context, eventID int, ticketNo int) (*model.Ticket, error)
	ListByOwner(ctx context.Context, owner string) ([]*model.Ticket, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error)
	NextTicketNo(ctx context.Context, tx pgx.Tx, eventID int) (int, error)
	FindByRefWithLock(ctx context.Context, tx pgx.Tx, eventID int, ticketNo int) (*model.Ticket, error)
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Ticket, error)
	Transfer(ctx context.Context, tx pgx.Tx, id int, to string, salePrice decimal.Decimal) error
	MarkUsed(ctx context.Context, tx pgx.Tx, id int) error
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

const ticketColumns = `id, event_id, ticket_no, owner, status,
		last_sale_price, resale_count, created_at, updated_at`

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.TicketNo,
		&ticket.Owner,
		&ticket.Status,
		&ticket.LastSalePrice,
		&ticket.ResaleCount,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (event_id, ticket_no, owner, status, last_sale_price, resale_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + ticketColumns

	return scanTicket(tx.QueryRow(ctx, query,
		ticket.EventID, ticket.TicketNo, ticket.Owner,
		ticket.Status, ticket.LastSalePrice, ticket.ResaleCount,
	))
}

// NextTicketNo assigns the next monotonic ticket number for an event. Callers
// must hold the event row lock in the same transaction.
func (r *TicketRepositoryImpl) NextTicketNo(ctx context.Context, tx pgx.Tx, eventID int) (int, error) {
	query := `
		SELECT COALESCE(MAX(ticket_no), 0) + 1
		FROM tickets
		WHERE event_id = $1
	`

	var next int
	if err := tx.QueryRow(ctx, query, eventID).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func (r *TicketRepositoryImpl) FindByRef(ctx context.Context, eventID int, ticketNo int) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE event_id = $1 AND ticket_no = $2
	`
	return scanTicket(r.pool.QueryRow(ctx, query, eventID, ticketNo))
}

func (r *TicketRepositoryImpl) FindByRefWithLock(ctx context.Context, tx pgx.Tx, eventID int, ticketNo int) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE event_id = $1 AND ticket_no = $2
		FOR UPDATE
	`
	return scanTicket(tx.QueryRow(ctx, query, eventID, ticketNo))
}

func (r *TicketRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
		FOR UPDATE
	`
	return scanTicket(tx.QueryRow(ctx, query, id))
}

func (r *TicketRepositoryImpl) ListByOwner(ctx context.Context, owner string) ([]*model.Ticket, error) {
	query := `
		SELECT t.id, t.event_id, t.ticket_no, t.owner, t.status,
		       t.last_sale_price, t.resale_count, t.created_at, t.updated_at,
		       e.id, e.event_id, e.name, e.venue, e.date, e.organizer,
		       e.max_resale_count, e.price_cap_percent, e.created_at, e.updated_at
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.owner = $1
		ORDER BY t.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)

	for rows.Next() {
		var ticket model.Ticket
		var event model.Event
		err := rows.Scan(
			&ticket.ID,
			&ticket.EventID,
			&ticket.TicketNo,
			&ticket.Owner,
			&ticket.Status,
			&ticket.LastSalePrice,
			&ticket.ResaleCount,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
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
			return nil, err
		}
		ticket.Event = &event
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

// Transfer reassigns ownership after a completed sale. The WHERE clause
// re-asserts the valid status so a transfer can never hit a used ticket even
// if a caller skipped the locked read.
func (r *TicketRepositoryImpl) Transfer(ctx context.Context, tx pgx.Tx, id int, to string, salePrice decimal.Decimal) error {
	query := `
		UPDATE tickets
		SET owner = $1,
		    last_sale_price = $2,
		    resale_count = resale_count + 1,
		    updated_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := tx.Exec(ctx, query, to, salePrice, time.Now().UTC(), id, model.TicketStatusValid)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrTicketUsed
	}

	return nil
}

// MarkUsed is the irreversible burn. A second call on the same ticket affects
// zero rows and reports ErrAlreadyUsed instead of silently succeeding.
func (r *TicketRepositoryImpl) MarkUsed(ctx context.Context, tx pgx.Tx, id int) error {
	query := `
		UPDATE tickets
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := tx.Exec(ctx, query, model.TicketStatusUsed, time.Now().UTC(), id, model.TicketStatusValid)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrAlreadyUsed
	}

	return nil
}
