package service

import (
	"context"

	"ticket-ledger/internal/model"
	"ticket-ledger/internal/repository"

	"github.com/google/uuid"
)

// EventService owns event policy records. Policy is write-once: there is
// deliberately no update operation, resale rules are fixed at creation.
type EventService interface {
	Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
}

type EventServiceImpl struct {
	repo repository.EventRepository
}

func NewEventService(repo repository.EventRepository) EventService {
	return &EventServiceImpl{repo: repo}
}

func (s *EventServiceImpl) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	event := &model.Event{
		EventID:         uuid.New(),
		Name:            req.Name,
		Venue:           req.Venue,
		Date:            req.Date,
		Organizer:       model.NormalizeWallet(req.Organizer),
		MaxResaleCount:  req.MaxResaleCount,
		PriceCapPercent: req.PriceCapPercent,
	}
	if event.MaxResaleCount <= 0 {
		event.MaxResaleCount = model.DefaultMaxResaleCount
	}
	if event.PriceCapPercent <= 0 {
		event.PriceCapPercent = model.DefaultPriceCapPercent
	}
	return s.repo.Create(ctx, event)
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}
