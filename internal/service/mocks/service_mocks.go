package mocks

import (
	"context"

	"ticket-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type EventServiceMock struct {
	mock.Mock
}

func NewEventServiceMock() *EventServiceMock {
	return &EventServiceMock{}
}

func (m *EventServiceMock) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) List(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventServiceMock) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

type TicketServiceMock struct {
	mock.Mock
}

func NewTicketServiceMock() *TicketServiceMock {
	return &TicketServiceMock{}
}

func (m *TicketServiceMock) Mint(ctx context.Context, eventID uuid.UUID, req model.MintTicketRequest) (*model.Ticket, error) {
	args := m.Called(ctx, eventID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) Get(ctx context.Context, ref model.TicketRef) (*model.Ticket, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) ListByOwner(ctx context.Context, owner string) ([]*model.Ticket, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) Metadata(ctx context.Context, ref model.TicketRef) (*model.TicketMetadata, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketMetadata), args.Error(1)
}

type MarketplaceServiceMock struct {
	mock.Mock
}

func NewMarketplaceServiceMock() *MarketplaceServiceMock {
	return &MarketplaceServiceMock{}
}

func (m *MarketplaceServiceMock) List(ctx context.Context, req model.CreateListingRequest) (*model.Listing, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MarketplaceServiceMock) Buy(ctx context.Context, listingID uuid.UUID, req model.PurchaseRequest) error {
	args := m.Called(ctx, listingID, req)
	return args.Error(0)
}

func (m *MarketplaceServiceMock) Unlist(ctx context.Context, listingID uuid.UUID, caller string) error {
	args := m.Called(ctx, listingID, caller)
	return args.Error(0)
}

func (m *MarketplaceServiceMock) ActiveListings(ctx context.Context) ([]*model.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Listing), args.Error(1)
}

type RedemptionServiceMock struct {
	mock.Mock
}

func NewRedemptionServiceMock() *RedemptionServiceMock {
	return &RedemptionServiceMock{}
}

func (m *RedemptionServiceMock) Validate(ctx context.Context, req model.ValidateRequest) (*model.ValidationToken, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ValidationToken), args.Error(1)
}

func (m *RedemptionServiceMock) Redeem(ctx context.Context, token model.ValidationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RedemptionServiceMock) Confirm(ctx context.Context, ref model.TicketRef, presenter string) error {
	args := m.Called(ctx, ref, presenter)
	return args.Error(0)
}
