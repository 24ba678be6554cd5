package repository

import (
	"context"
	"errors"

	"ticket-ledger/internal/model"
	apperrors "ticket-ledger/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type ListingRepository interface {
	FindByListingID(ctx context.Context, listingID uuid.UUID) (*model.Listing, error)
	FindByTicketID(ctx context.Context, ticketID int) (*model.Listing, error)
	ListActive(ctx context.Context) ([]*model.Listing, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, listing *model.Listing) (*model.Listing, error)
	FindByListingIDWithLock(ctx context.Context, tx pgx.Tx, listingID uuid.UUID) (*model.Listing, error)
	Delete(ctx context.Context, tx pgx.Tx, id int) error
	DeleteByTicketID(ctx context.Context, tx pgx.Tx, ticketID int) error
}

type ListingRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) ListingRepository {
	return &ListingRepositoryImpl{
		pool: pool,
	}
}

const listingColumns = `l.id, l.listing_id, l.ticket_id, l.seller, l.price, l.created_at,
		e.event_id, t.ticket_no`

func scanListing(row pgx.Row) (*model.Listing, error) {
	var listing model.Listing
	err := row.Scan(
		&listing.ID,
		&listing.ListingID,
		&listing.TicketID,
		&listing.Seller,
		&listing.Price,
		&listing.CreatedAt,
		&listing.EventID,
		&listing.TicketNo,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotListed
		}
		return nil, err
	}
	return &listing, nil
}

// Create inserts an active listing. The unique constraint on ticket_id is the
// at-most-one-active-listing guarantee; a violation surfaces as
// ErrAlreadyListed.
func (r *ListingRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, listing *model.Listing) (*model.Listing, error) {
	query := `
		INSERT INTO listings (listing_id, ticket_id, seller, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		listing.ListingID, listing.TicketID, listing.Seller, listing.Price,
	).Scan(&listing.ID, &listing.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperrors.ErrAlreadyListed
		}
		return nil, err
	}

	return listing, nil
}

func (r *ListingRepositoryImpl) FindByListingID(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings l
		JOIN tickets t ON t.id = l.ticket_id
		JOIN events e ON e.id = t.event_id
		WHERE l.listing_id = $1
	`
	return scanListing(r.pool.QueryRow(ctx, query, listingID))
}

func (r *ListingRepositoryImpl) FindByListingIDWithLock(ctx context.Context, tx pgx.Tx, listingID uuid.UUID) (*model.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings l
		JOIN tickets t ON t.id = l.ticket_id
		JOIN events e ON e.id = t.event_id
		WHERE l.listing_id = $1
		FOR UPDATE OF l
	`
	return scanListing(tx.QueryRow(ctx, query, listingID))
}

func (r *ListingRepositoryImpl) FindByTicketID(ctx context.Context, ticketID int) (*model.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings l
		JOIN tickets t ON t.id = l.ticket_id
		JOIN events e ON e.id = t.event_id
		WHERE l.ticket_id = $1
	`
	return scanListing(r.pool.QueryRow(ctx, query, ticketID))
}

func (r *ListingRepositoryImpl) ListActive(ctx context.Context) ([]*model.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings l
		JOIN tickets t ON t.id = l.ticket_id
		JOIN events e ON e.id = t.event_id
		ORDER BY l.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]*model.Listing, 0)

	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return listings, nil
}

// Delete removes a listing row. Sale and unlist both remove rather than flag,
// so a stale listing can never be bought.
func (r *ListingRepositoryImpl) Delete(ctx context.Context, tx pgx.Tx, id int) error {
	query := `
		DELETE FROM listings
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotListed
	}

	return nil
}

// DeleteByTicketID removes the listing for a ticket if one exists. Used when a
// ticket is burned so a used ticket never has an active listing; no row is not
// an error.
func (r *ListingRepositoryImpl) DeleteByTicketID(ctx context.Context, tx pgx.Tx, ticketID int) error {
	query := `
		DELETE FROM listings
		WHERE ticket_id = $1
	`

	_, err := tx.Exec(ctx, query, ticketID)
	return err
}
