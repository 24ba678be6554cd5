package model

import (
	"time"

	"github.com/google/uuid"
)

// ValidationToken is issued by a successful entry validation and consumed by
// the redeem step. It carries no privilege by itself: redeem re-checks
// ownership and status atomically against the registry before burning.
type ValidationToken struct {
	TokenID   uuid.UUID `json:"token_id"`
	Ref       TicketRef `json:"ticket_ref"`
	Presenter string    `json:"presenter"`
	Operator  string    `json:"operator"`
	IssuedAt  time.Time `json:"issued_at"`
}

// BurnConfirmation notifies the off-chain status collaborator that a ticket
// was consumed at the venue. Delivery is best-effort; a lost confirmation is
// a reconciliation item, never a rollback of the burn.
type BurnConfirmation struct {
	EventID    uuid.UUID `json:"event_id"`
	TicketNo   int       `json:"ticket_no"`
	Presenter  string    `json:"presenter"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// ValidateRequest is the scanner-side entry validation payload. Operator is
// the authenticated staff identity performing the scan.
type ValidateRequest struct {
	EventID   uuid.UUID `json:"event_id" binding:"required"`
	TicketNo  int       `json:"ticket_no" binding:"required"`
	Presenter string    `json:"presenter" binding:"required"`
	Operator  string    `json:"operator" binding:"required"`
}

// RedeemRequest consumes a previously issued validation token.
type RedeemRequest struct {
	Token ValidationToken `json:"token" binding:"required"`
}
