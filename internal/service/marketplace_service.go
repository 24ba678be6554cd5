package service

import (
	"context"

	"ticket-ledger/internal/cache"
	"ticket-ledger/internal/model"
	"ticket-ledger/internal/monitoring"
	"ticket-ledger/internal/repository"
	"ticket-ledger/internal/settlement"
	apperrors "ticket-ledger/pkg/app_errors"
	"ticket-ledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MarketplaceService owns active listings and orchestrates listing, purchase
// and unlisting against the ticket registry under the event's resale policy.
// Every admission or purchase runs as one transaction holding the relevant
// row locks: same-ticket operations are strictly ordered, cross-ticket
// operations proceed in parallel.
type MarketplaceService interface {
	List(ctx context.Context, req model.CreateListingRequest) (*model.Listing, error)
	Buy(ctx context.Context, listingID uuid.UUID, req model.PurchaseRequest) error
	Unlist(ctx context.Context, listingID uuid.UUID, caller string) error
	ActiveListings(ctx context.Context) ([]*model.Listing, error)
}

type MarketplaceServiceImpl struct {
	pool        *pgxpool.Pool
	listingRepo repository.ListingRepository
	ticketRepo  repository.TicketRepository
	eventRepo   repository.EventRepository
	statusStore cache.TicketStatusStore
	sink        settlement.Sink
}

func NewMarketplaceService(
	pool *pgxpool.Pool,
	listingRepo repository.ListingRepository,
	ticketRepo repository.TicketRepository,
	eventRepo repository.EventRepository,
	statusStore cache.TicketStatusStore,
	sink settlement.Sink,
) MarketplaceService {
	return &MarketplaceServiceImpl{
		pool:        pool,
		listingRepo: listingRepo,
		ticketRepo:  ticketRepo,
		eventRepo:   eventRepo,
		statusStore: statusStore,
		sink:        sink,
	}
}

// List admits a listing after the full validation chain: seller owns the
// ticket, price is positive, the ticket is unused, the resale limit is not
// reached, and - once a resale history exists - the price respects the cap.
// The first listing after mint is primary distribution and is cap-exempt.
func (s *MarketplaceServiceImpl) List(ctx context.Context, req model.CreateListingRequest) (*model.Listing, error) {
	event, err := s.eventRepo.FindByEventID(ctx, req.EventID)
	if err != nil {
		monitoring.RecordListingOperation("list", "rejected")
		return nil, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ticket, err := s.ticketRepo.FindByRefWithLock(ctx, tx, event.ID, req.TicketNo)
	if err != nil {
		monitoring.RecordListingOperation("list", "rejected")
		return nil, err
	}

	if err := validateListing(ticket, event, req); err != nil {
		monitoring.RecordListingOperation("list", "rejected")
		return nil, err
	}

	// Cross-check the off-chain status store after the full validation chain,
	// so a recorded burn the registry row does not yet reflect still blocks
	// the listing without disturbing the rule order.
	if status, err := s.statusStore.GetStatus(ctx, req.EventID, req.TicketNo); err == nil && status == model.TicketStatusUsed {
		monitoring.RecordListingOperation("list", "rejected")
		return nil, apperrors.ErrTicketUsed
	}

	listing, err := s.listingRepo.Create(ctx, tx, &model.Listing{
		ListingID: uuid.New(),
		TicketID:  ticket.ID,
		Seller:    ticket.Owner,
		Price:     req.Price,
	})
	if err != nil {
		monitoring.RecordListingOperation("list", "rejected")
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	monitoring.RecordListingOperation("list", "ok")

	listing.EventID = event.EventID
	listing.TicketNo = ticket.TicketNo
	return listing, nil
}

// validateListing applies the admission rules in their fixed order.
func validateListing(ticket *model.Ticket, event *model.Event, req model.CreateListingRequest) error {
	if !ticket.IsOwnedBy(req.Seller) {
		return apperrors.ErrNotYourTicket
	}
	if req.Price.LessThanOrEqual(decimal.Zero) {
		return apperrors.ErrInvalidPrice
	}
	if ticket.IsUsed() {
		return apperrors.ErrTicketUsed
	}
	if ticket.ResaleCount >= event.MaxResaleCount {
		return apperrors.ErrResaleLimitExceeded
	}
	if ticket.HasResaleHistory() && req.Price.GreaterThan(event.MaxResalePrice(ticket.LastSalePrice)) {
		return apperrors.ErrPriceExceedsCap
	}
	return nil
}

// Buy is the single atomic purchase step: exact payment check, settlement of
// the full price to the seller, ownership transfer, listing removal. If
// settlement fails or the caller gives up waiting on it, the transaction
// rolls back, the listing stays active and ownership is unchanged. Of two
// concurrent buyers exactly one wins; the loser finds the listing row gone
// and observes ErrNotListed.
func (s *MarketplaceServiceImpl) Buy(ctx context.Context, listingID uuid.UUID, req model.PurchaseRequest) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	listing, err := s.listingRepo.FindByListingIDWithLock(ctx, tx, listingID)
	if err != nil {
		return err
	}

	if !req.Payment.Equal(listing.Price) {
		return apperrors.ErrIncorrectAmount
	}

	ticket, err := s.ticketRepo.FindByIDWithLock(ctx, tx, listing.TicketID)
	if err != nil {
		return err
	}

	if ticket.IsUsed() {
		return apperrors.ErrTicketUsed
	}
	if !ticket.IsOwnedBy(listing.Seller) {
		// The listing is no longer backed by the registry; treat the offer
		// as gone rather than selling someone else's ticket.
		return apperrors.ErrNotListed
	}

	buyer := model.NormalizeWallet(req.Buyer)

	// The full price goes seller-ward; the platform takes no cut.
	if err := s.sink.Transfer(ctx, buyer, listing.Seller, listing.Price); err != nil {
		monitoring.RecordSettlementFailure()
		logger.WithComponent("marketplace").Warn("settlement failed, purchase rolled back",
			zap.String("listing_id", listingID.String()),
			zap.String("buyer", buyer),
			zap.Error(err),
		)
		return apperrors.ErrSettlementFailed
	}

	if err := s.ticketRepo.Transfer(ctx, tx, ticket.ID, buyer, listing.Price); err != nil {
		return err
	}

	if err := s.listingRepo.Delete(ctx, tx, listing.ID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	monitoring.RecordSale(listing.EventID.String())
	return nil
}

// Unlist removes a listing. Only the original seller may unlist.
func (s *MarketplaceServiceImpl) Unlist(ctx context.Context, listingID uuid.UUID, caller string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	listing, err := s.listingRepo.FindByListingIDWithLock(ctx, tx, listingID)
	if err != nil {
		return err
	}

	if listing.Seller != model.NormalizeWallet(caller) {
		return apperrors.ErrNotLister
	}

	if err := s.listingRepo.Delete(ctx, tx, listing.ID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	monitoring.RecordListingOperation("unlist", "ok")
	return nil
}

// ActiveListings returns the current listings for marketplace browsing,
// pre-filtered against the off-chain status store.
func (s *MarketplaceServiceImpl) ActiveListings(ctx context.Context) ([]*model.Listing, error) {
	listings, err := s.listingRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*model.Listing, 0, len(listings))
	for _, listing := range listings {
		if status, err := s.statusStore.GetStatus(ctx, listing.EventID, listing.TicketNo); err == nil && status == model.TicketStatusUsed {
			continue
		}
		filtered = append(filtered, listing)
	}

	return filtered, nil
}
