package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTicketStatusTransitions(t *testing.T) {
	assert.True(t, TicketStatusValid.CanTransitionTo(TicketStatusUsed))
	assert.False(t, TicketStatusUsed.CanTransitionTo(TicketStatusValid))
	assert.False(t, TicketStatusUsed.CanTransitionTo(TicketStatusUsed))

	assert.True(t, TicketStatusValid.IsValid())
	assert.True(t, TicketStatusUsed.IsValid())
	assert.False(t, TicketStatus("burned").IsValid())
}

func TestMaxResalePrice(t *testing.T) {
	event := &Event{PriceCapPercent: 120}

	cap := event.MaxResalePrice(decimal.NewFromFloat(2.0))
	assert.True(t, cap.Equal(decimal.NewFromFloat(2.4)), "cap should be 2.4, got %s", cap)

	// Exactly at the cap is admissible, a hair above is not.
	assert.False(t, decimal.NewFromFloat(2.4).GreaterThan(cap))
	assert.True(t, decimal.NewFromFloat(2.41).GreaterThan(cap))
}

func TestMaxResalePriceOtherPercents(t *testing.T) {
	event := &Event{PriceCapPercent: 100}
	cap := event.MaxResalePrice(decimal.NewFromFloat(10))
	assert.True(t, cap.Equal(decimal.NewFromInt(10)))

	event = &Event{PriceCapPercent: 150}
	cap = event.MaxResalePrice(decimal.NewFromFloat(2))
	assert.True(t, cap.Equal(decimal.NewFromInt(3)))
}

func TestNormalizeWallet(t *testing.T) {
	assert.Equal(t, "0xabcdef", NormalizeWallet("  0xABCdef "))
	assert.Equal(t, "", NormalizeWallet("   "))
}

func TestIsOrganizer(t *testing.T) {
	event := &Event{Organizer: "0xorganizer"}
	assert.True(t, event.IsOrganizer("0xOrganizer"))
	assert.False(t, event.IsOrganizer("0xsomeoneelse"))
}

func TestTicketOwnershipAndHistory(t *testing.T) {
	ticket := &Ticket{Owner: "0xalice", Status: TicketStatusValid, ResaleCount: 0}

	assert.True(t, ticket.IsOwnedBy("0xALICE"))
	assert.False(t, ticket.IsOwnedBy("0xbob"))
	assert.False(t, ticket.IsUsed())
	assert.False(t, ticket.HasResaleHistory())

	ticket.ResaleCount = 1
	assert.True(t, ticket.HasResaleHistory())

	ticket.Status = TicketStatusUsed
	assert.True(t, ticket.IsUsed())
}
