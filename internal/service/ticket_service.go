package service

import (
	"context"
	"fmt"

	"ticket-ledger/internal/model"
	"ticket-ledger/internal/monitoring"
	"ticket-ledger/internal/repository"
	apperrors "ticket-ledger/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TicketService is the registry surface: minting and read access to the
// canonical ownership records. Ownership transfers and burns go through the
// marketplace and redemption services, which run the registry's transactional
// repository operations inside their own transactions.
type TicketService interface {
	Mint(ctx context.Context, eventID uuid.UUID, req model.MintTicketRequest) (*model.Ticket, error)
	Get(ctx context.Context, ref model.TicketRef) (*model.Ticket, error)
	ListByOwner(ctx context.Context, owner string) ([]*model.Ticket, error)
	Metadata(ctx context.Context, ref model.TicketRef) (*model.TicketMetadata, error)
}

type TicketServiceImpl struct {
	pool      *pgxpool.Pool
	repo      repository.TicketRepository
	eventRepo repository.EventRepository
}

func NewTicketService(pool *pgxpool.Pool, repo repository.TicketRepository, eventRepo repository.EventRepository) TicketService {
	return &TicketServiceImpl{
		pool:      pool,
		repo:      repo,
		eventRepo: eventRepo,
	}
}

// Mint creates a ticket at its primary price. Only the event organizer may
// mint; the event row lock serializes concurrent mints so ticket numbers stay
// monotonic.
func (s *TicketServiceImpl) Mint(ctx context.Context, eventID uuid.UUID, req model.MintTicketRequest) (*model.Ticket, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	event, err := s.eventRepo.FindByEventIDWithLock(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	if !event.IsOrganizer(req.Caller) {
		return nil, apperrors.ErrUnauthorized
	}

	if req.PrimaryPrice.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidPrice
	}

	ticketNo, err := s.repo.NextTicketNo(ctx, tx, event.ID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.repo.Create(ctx, tx, &model.Ticket{
		EventID:       event.ID,
		TicketNo:      ticketNo,
		Owner:         model.NormalizeWallet(req.Owner),
		Status:        model.TicketStatusValid,
		LastSalePrice: req.PrimaryPrice,
		ResaleCount:   0,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	monitoring.RecordMint(event.EventID.String())

	ticket.Event = event
	return ticket, nil
}

func (s *TicketServiceImpl) Get(ctx context.Context, ref model.TicketRef) (*model.Ticket, error) {
	event, err := s.eventRepo.FindByEventID(ctx, ref.EventID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.repo.FindByRef(ctx, event.ID, ref.TicketNo)
	if err != nil {
		return nil, err
	}

	ticket.Event = event
	return ticket, nil
}

func (s *TicketServiceImpl) ListByOwner(ctx context.Context, owner string) ([]*model.Ticket, error) {
	return s.repo.ListByOwner(ctx, model.NormalizeWallet(owner))
}

// Metadata renders the display payload for a ticket. Read-only; it never
// feeds back into ledger state.
func (s *TicketServiceImpl) Metadata(ctx context.Context, ref model.TicketRef) (*model.TicketMetadata, error) {
	ticket, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	event := ticket.Event
	return &model.TicketMetadata{
		Name:        fmt.Sprintf("Ticket for %s - #%d", event.Name, ticket.TicketNo),
		Description: fmt.Sprintf("This ticket admits one to %s at %s on %s.", event.Name, event.Venue, event.Date),
		Attributes: []model.MetadataAttribute{
			{TraitType: "Event", Value: event.Name},
			{TraitType: "Date", Value: event.Date},
			{TraitType: "Venue", Value: event.Venue},
		},
	}, nil
}
