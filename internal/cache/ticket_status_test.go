package cache

import (
	"context"
	"fmt"
	"testing"

	"ticket-ledger/internal/model"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatusDefaultsToValid(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisTicketStatusStore(db)

	eventID := uuid.New()
	key := fmt.Sprintf("ticket:%s:%d:status", eventID, 7)
	mock.ExpectGet(key).RedisNil()

	status, err := store.GetStatus(context.Background(), eventID, 7)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusValid, status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkUsedThenGetStatus(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisTicketStatusStore(db)

	eventID := uuid.New()
	key := fmt.Sprintf("ticket:%s:%d:status", eventID, 42)

	mock.ExpectSet(key, string(model.TicketStatusUsed), 0).SetVal("OK")
	mock.ExpectGet(key).SetVal(string(model.TicketStatusUsed))

	ctx := context.Background()
	require.NoError(t, store.MarkUsed(ctx, eventID, 42))

	status, err := store.GetStatus(ctx, eventID, 42)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusUsed, status)

	assert.NoError(t, mock.ExpectationsWereMet())
}
