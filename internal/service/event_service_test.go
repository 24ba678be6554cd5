package service

import (
	"context"
	"testing"

	"ticket-ledger/internal/model"
	apperrors "ticket-ledger/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventAppliesPolicyDefaults(t *testing.T) {
	env := newTestEnv(t)

	event, err := env.events.Create(context.Background(), model.CreateEventRequest{
		Name:      "Winter Gala",
		Venue:     "City Hall",
		Date:      "2026-12-12",
		Organizer: "0xOrganizer",
	})
	require.NoError(t, err)

	assert.Equal(t, "0xorganizer", event.Organizer)
	assert.Equal(t, model.DefaultMaxResaleCount, event.MaxResaleCount)
	assert.Equal(t, model.DefaultPriceCapPercent, event.PriceCapPercent)
	assert.NotEqual(t, uuid.Nil, event.EventID)
}

func TestCreateEventCustomPolicy(t *testing.T) {
	env := newTestEnv(t)

	event, err := env.events.Create(context.Background(), model.CreateEventRequest{
		Name:            "Charity Night",
		Venue:           "Town Square",
		Date:            "2026-09-09",
		Organizer:       testOrganizer,
		MaxResaleCount:  1,
		PriceCapPercent: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, event.MaxResaleCount)
	assert.Equal(t, 100, event.PriceCapPercent)
}

func TestGetByEventIDUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.events.GetByEventID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUnknownEvent)
}

func TestListEvents(t *testing.T) {
	env := newTestEnv(t)
	createTestEvent(t, env)
	createTestEvent(t, env)

	events, err := env.events.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
