package cache

import (
	"context"
	"fmt"

	"ticket-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TicketStatusStore is the off-chain status collaborator: a durable record of
// burned tickets keyed by (event_id, ticket_no). It is a derived read model
// written by the confirmation worker and consulted by the marketplace to
// pre-filter already-used tickets; the registry remains the single authority.
type TicketStatusStore interface {
	GetStatus(ctx context.Context, eventID uuid.UUID, ticketNo int) (model.TicketStatus, error)
	MarkUsed(ctx context.Context, eventID uuid.UUID, ticketNo int) error
}

type RedisTicketStatusStoreImpl struct {
	client *redis.Client
}

func NewRedisTicketStatusStore(client *redis.Client) TicketStatusStore {
	return &RedisTicketStatusStoreImpl{
		client: client,
	}
}

func (s *RedisTicketStatusStoreImpl) statusKey(eventID uuid.UUID, ticketNo int) string {
	return fmt.Sprintf("ticket:%s:%d:status", eventID, ticketNo)
}

// GetStatus returns the recorded status. Only burns are recorded, so an
// absent key reads as valid.
func (s *RedisTicketStatusStoreImpl) GetStatus(ctx context.Context, eventID uuid.UUID, ticketNo int) (model.TicketStatus, error) {
	val, err := s.client.Get(ctx, s.statusKey(eventID, ticketNo)).Result()
	if err == redis.Nil {
		return model.TicketStatusValid, nil
	}
	if err != nil {
		return "", err
	}
	return model.TicketStatus(val), nil
}

func (s *RedisTicketStatusStoreImpl) MarkUsed(ctx context.Context, eventID uuid.UUID, ticketNo int) error {
	return s.client.Set(ctx, s.statusKey(eventID, ticketNo), string(model.TicketStatusUsed), 0).Err()
}
