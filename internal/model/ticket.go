package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TicketStatus is the ticket lifecycle state.
type TicketStatus string

const (
	TicketStatusValid TicketStatus = "valid"
	TicketStatusUsed  TicketStatus = "used"
)

// IsValid reports whether the status is a known one.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusValid, TicketStatusUsed:
		return true
	}
	return false
}

// CanTransitionTo checks a lifecycle transition. Used is terminal.
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	return s == TicketStatusValid && target == TicketStatusUsed
}

// TicketRef identifies a ticket within its event scope.
type TicketRef struct {
	EventID  uuid.UUID `json:"event_id"`
	TicketNo int       `json:"ticket_no"`
}

// Ticket is the canonical ownership record. Owner, status, resale count and
// last sale price are mutated only through registry operations that run inside
// a transaction holding the ticket row lock.
type Ticket struct {
	ID            int             `json:"id" db:"id"`
	EventID       int             `json:"-" db:"event_id"`
	TicketNo      int             `json:"ticket_no" db:"ticket_no"`
	Owner         string          `json:"owner" db:"owner"`
	Status        TicketStatus    `json:"status" db:"status"`
	LastSalePrice decimal.Decimal `json:"last_sale_price" db:"last_sale_price"`
	ResaleCount   int             `json:"resale_count" db:"resale_count"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	Event *Event `json:"event,omitempty" db:"-"`
}

// IsUsed reports whether the ticket reached its terminal state.
func (t *Ticket) IsUsed() bool {
	return t.Status == TicketStatusUsed
}

// IsOwnedBy compares the holder identity against a wallet.
func (t *Ticket) IsOwnedBy(wallet string) bool {
	return t.Owner == NormalizeWallet(wallet)
}

// HasResaleHistory reports whether at least one secondary sale completed.
// The resale price cap applies only once a resale history exists; the first
// listing after mint is primary distribution and is exempt.
func (t *Ticket) HasResaleHistory() bool {
	return t.ResaleCount > 0
}

// MintTicketRequest mints a ticket for an event. Caller must be the event
// organizer; identity is established upstream and passed through as-is.
type MintTicketRequest struct {
	Caller       string          `json:"caller" binding:"required"`
	Owner        string          `json:"owner" binding:"required"`
	PrimaryPrice decimal.Decimal `json:"primary_price"`
}

// TicketMetadata is the display payload assembled for a ticket; it never
// feeds back into ledger state.
type TicketMetadata struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Attributes  []MetadataAttribute `json:"attributes"`
}

type MetadataAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}
