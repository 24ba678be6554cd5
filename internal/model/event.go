package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Policy defaults applied at event creation when the organizer does not set
// them explicitly.
const (
	DefaultMaxResaleCount  = 3
	DefaultPriceCapPercent = 120
)

// Event carries the per-event resale policy. Policy fields are immutable after
// creation; only the issuing organizer may mint tickets for the event.
type Event struct {
	ID              int       `json:"id" db:"id"`
	EventID         uuid.UUID `json:"event_id" db:"event_id"`
	Name            string    `json:"name" db:"name"`
	Venue           string    `json:"venue" db:"venue"`
	Date            string    `json:"date" db:"date"`
	Organizer       string    `json:"organizer" db:"organizer"`
	MaxResaleCount  int       `json:"max_resale_count" db:"max_resale_count"`
	PriceCapPercent int       `json:"price_cap_percent" db:"price_cap_percent"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// IsOrganizer reports whether the wallet is the issuing organizer.
func (e *Event) IsOrganizer(wallet string) bool {
	return e.Organizer == NormalizeWallet(wallet)
}

// MaxResalePrice is the highest admissible listing price given the ticket's
// last sale price: lastSalePrice * price_cap_percent / 100.
func (e *Event) MaxResalePrice(lastSalePrice decimal.Decimal) decimal.Decimal {
	return lastSalePrice.
		Mul(decimal.NewFromInt(int64(e.PriceCapPercent))).
		Div(decimal.NewFromInt(100))
}

// NormalizeWallet canonicalizes a wallet/account identity. Wallet addresses
// are compared case-insensitively everywhere, so they are stored lowercased.
func NormalizeWallet(wallet string) string {
	return strings.ToLower(strings.TrimSpace(wallet))
}

// CreateEventRequest is the organizer-facing creation payload. Zero policy
// values fall back to the defaults.
type CreateEventRequest struct {
	Name            string `json:"name" binding:"required"`
	Venue           string `json:"venue" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Organizer       string `json:"organizer" binding:"required"`
	MaxResaleCount  int    `json:"max_resale_count"`
	PriceCapPercent int    `json:"price_cap_percent"`
}
