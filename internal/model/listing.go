package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing is an open offer to sell one ticket at a fixed price. Listings are
// deleted on sale or unlist rather than flagged, so a row's existence is the
// activeness predicate and the unique constraint on ticket_id guarantees at
// most one active listing per ticket.
type Listing struct {
	ID        int             `json:"id" db:"id"`
	ListingID uuid.UUID       `json:"listing_id" db:"listing_id"`
	TicketID  int             `json:"-" db:"ticket_id"`
	Seller    string          `json:"seller" db:"seller"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`

	// Ticket reference resolved by join for responses.
	EventID  uuid.UUID `json:"event_id" db:"-"`
	TicketNo int       `json:"ticket_no" db:"-"`
}

// CreateListingRequest submits a ticket for sale.
type CreateListingRequest struct {
	EventID  uuid.UUID       `json:"event_id" binding:"required"`
	TicketNo int             `json:"ticket_no" binding:"required"`
	Seller   string          `json:"seller" binding:"required"`
	Price    decimal.Decimal `json:"price"`
}

// PurchaseRequest buys a listing. Payment must match the listing price
// exactly; overpayment is rejected rather than refunded.
type PurchaseRequest struct {
	Buyer   string          `json:"buyer" binding:"required"`
	Payment decimal.Decimal `json:"payment"`
}

// UnlistRequest removes a listing; only the original seller may do so.
type UnlistRequest struct {
	Caller string `json:"caller" binding:"required"`
}
