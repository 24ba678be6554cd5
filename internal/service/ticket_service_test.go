package service

import (
	"context"
	"testing"

	"ticket-ledger/internal/model"
	apperrors "ticket-ledger/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintTicket(t *testing.T) {
	env := newTestEnv(t)
	event := createTestEvent(t, env)

	ticket, err := env.tickets.Mint(context.Background(), event.EventID, model.MintTicketRequest{
		Caller:       testOrganizer,
		Owner:        "0xAlice",
		PrimaryPrice: decimal.NewFromFloat(1.0),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, ticket.TicketNo)
	assert.Equal(t, "0xalice", ticket.Owner)
	assert.Equal(t, model.TicketStatusValid, ticket.Status)
	assert.True(t, ticket.LastSalePrice.Equal(decimal.NewFromFloat(1.0)))
	assert.Equal(t, 0, ticket.ResaleCount)
}

func TestMintTicketNumbersAreMonotonic(t *testing.T) {
	env := newTestEnv(t)
	event := createTestEvent(t, env)

	for want := 1; want <= 3; want++ {
		ticket := mintTestTicket(t, env, event, "0xalice", 1.0)
		assert.Equal(t, want, ticket.TicketNo)
	}
}

func TestMintRequiresOrganizer(t *testing.T) {
	env := newTestEnv(t)
	event := createTestEvent(t, env)

	_, err := env.tickets.Mint(context.Background(), event.EventID, model.MintTicketRequest{
		Caller:       "0xstranger",
		Owner:        "0xalice",
		PrimaryPrice: decimal.NewFromFloat(1.0),
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestMintUnknownEvent(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tickets.Mint(context.Background(), uuid.New(), model.MintTicketRequest{
		Caller:       testOrganizer,
		Owner:        "0xalice",
		PrimaryPrice: decimal.NewFromFloat(1.0),
	})
	assert.ErrorIs(t, err, apperrors.ErrUnknownEvent)
}

func TestMintAuthorityCheckedBeforePrice(t *testing.T) {
	env := newTestEnv(t)
	event := createTestEvent(t, env)

	// A non-organizer with a bad price is rejected for lacking authority,
	// not for the price.
	_, err := env.tickets.Mint(context.Background(), event.EventID, model.MintTicketRequest{
		Caller:       "0xstranger",
		Owner:        "0xalice",
		PrimaryPrice: decimal.Zero,
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = env.tickets.Mint(context.Background(), uuid.New(), model.MintTicketRequest{
		Caller:       testOrganizer,
		Owner:        "0xalice",
		PrimaryPrice: decimal.Zero,
	})
	assert.ErrorIs(t, err, apperrors.ErrUnknownEvent)
}

func TestMintRejectsNonPositivePrice(t *testing.T) {
	env := newTestEnv(t)
	event := createTestEvent(t, env)

	_, err := env.tickets.Mint(context.Background(), event.EventID, model.MintTicketRequest{
		Caller:       testOrganizer,
		Owner:        "0xalice",
		PrimaryPrice: decimal.Zero,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)
}

func TestGetTicket(t *testing.T) {
	env := newTestEnv(t)
	event := createTestEvent(t, env)
	minted := mintTestTicket(t, env, event, "0xalice", 1.0)

	ticket, err := env.tickets.Get(context.Background(), model.TicketRef{EventID: event.EventID, TicketNo: minted.TicketNo})
	require.NoError(t, err)

	assert.Equal(t, "0xalice", ticket.Owner)
	require.NotNil(t, ticket.Event)
	assert.Equal(t, event.EventID, ticket.Event.EventID)
}

func TestGetTicketNotFound(t *testing.T) {
	env := newTestEnv(t)
	event := createTestEvent(t, env)

	_, err := env.tickets.Get(context.Background(), model.TicketRef{EventID: event.EventID, TicketNo: 99})
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
}

func TestListByOwner(t *testing.T) {
	env := newTestEnv(t)
	event := createTestEvent(t, env)

	mintTestTicket(t, env, event, "0xalice", 1.0)
	mintTestTicket(t, env, event, "0xalice", 1.0)
	mintTestTicket(t, env, event, "0xbob", 1.0)

	tickets, err := env.tickets.ListByOwner(context.Background(), "0xAlice")
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestTicketMetadata(t *testing.T) {
	env := newTestEnv(t)
	event := createTestEvent(t, env)
	minted := mintTestTicket(t, env, event, "0xalice", 1.0)

	meta, err := env.tickets.Metadata(context.Background(), model.TicketRef{EventID: event.EventID, TicketNo: minted.TicketNo})
	require.NoError(t, err)

	assert.Equal(t, "Ticket for Summer Jam - #1", meta.Name)
	require.Len(t, meta.Attributes, 3)
	assert.Equal(t, "Event", meta.Attributes[0].TraitType)
	assert.Equal(t, "Summer Jam", meta.Attributes[0].Value)
}
