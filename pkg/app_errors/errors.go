package apperrors

import "errors"

// Business errors. Each one maps to a single caller-facing condition so the
// handler layer can report exactly which rule was violated.
var (
	// Authority
	ErrUnauthorized      = errors.New("caller lacks required role")
	ErrNotOwner          = errors.New("caller is not the ticket owner")
	ErrNotYourTicket     = errors.New("not your ticket")
	ErrNotLister         = errors.New("not the lister")
	ErrOwnershipMismatch = errors.New("presenter does not own the ticket")

	// Pricing policy
	ErrInvalidPrice        = errors.New("price must be > 0")
	ErrPriceExceedsCap     = errors.New("price exceeds resale cap")
	ErrResaleLimitExceeded = errors.New("resale count exceeded")
	ErrIncorrectAmount     = errors.New("incorrect payment amount")

	// Lifecycle / listing state
	ErrTicketUsed    = errors.New("ticket has already been used")
	ErrAlreadyUsed   = errors.New("ticket was already redeemed")
	ErrNotListed     = errors.New("ticket is not listed")
	ErrAlreadyListed = errors.New("ticket already has an active listing")

	// Lookup
	ErrUnknownEvent   = errors.New("unknown event")
	ErrTicketNotFound = errors.New("ticket not found")
)

// Infrastructure errors.
var (
	ErrSettlementFailed    = errors.New("settlement failed")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)
