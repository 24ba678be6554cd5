package service

import (
	"context"
	"time"

	"ticket-ledger/internal/model"
	"ticket-ledger/internal/monitoring"
	"ticket-ledger/internal/queue"
	"ticket-ledger/internal/repository"
	apperrors "ticket-ledger/pkg/app_errors"
	"ticket-ledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// RedemptionService runs the venue-entry protocol: validate the presenter's
// ownership, burn the ticket, then confirm the burn to the off-chain status
// collaborator. The burn is irreversible; the confirmation is best-effort.
type RedemptionService interface {
	Validate(ctx context.Context, req model.ValidateRequest) (*model.ValidationToken, error)
	Redeem(ctx context.Context, token model.ValidationToken) error
	Confirm(ctx context.Context, ref model.TicketRef, presenter string) error
}

type RedemptionServiceImpl struct {
	pool        *pgxpool.Pool
	ticketRepo  repository.TicketRepository
	eventRepo   repository.EventRepository
	listingRepo repository.ListingRepository
	queue       queue.ConfirmationQueue
	adminWallet string
}

func NewRedemptionService(
	pool *pgxpool.Pool,
	ticketRepo repository.TicketRepository,
	eventRepo repository.EventRepository,
	listingRepo repository.ListingRepository,
	confirmationQueue queue.ConfirmationQueue,
	adminWallet string,
) RedemptionService {
	return &RedemptionServiceImpl{
		pool:        pool,
		ticketRepo:  ticketRepo,
		eventRepo:   eventRepo,
		listingRepo: listingRepo,
		queue:       confirmationQueue,
		adminWallet: model.NormalizeWallet(adminWallet),
	}
}

func (s *RedemptionServiceImpl) operatorAuthorized(event *model.Event, operator string) bool {
	operator = model.NormalizeWallet(operator)
	if event.IsOrganizer(operator) {
		return true
	}
	return s.adminWallet != "" && operator == s.adminWallet
}

// Validate confirms the ticket is redeemable by this presenter and that the
// scanning operator may redeem for this event. The token it issues carries no
// privilege on its own; Redeem re-checks everything under the row lock.
func (s *RedemptionServiceImpl) Validate(ctx context.Context, req model.ValidateRequest) (*model.ValidationToken, error) {
	event, err := s.eventRepo.FindByEventID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	if !s.operatorAuthorized(event, req.Operator) {
		return nil, apperrors.ErrUnauthorized
	}

	ticket, err := s.ticketRepo.FindByRef(ctx, event.ID, req.TicketNo)
	if err != nil {
		return nil, err
	}

	if ticket.IsUsed() {
		return nil, apperrors.ErrTicketUsed
	}
	if !ticket.IsOwnedBy(req.Presenter) {
		return nil, apperrors.ErrOwnershipMismatch
	}

	return &model.ValidationToken{
		TokenID:   uuid.New(),
		Ref:       model.TicketRef{EventID: req.EventID, TicketNo: req.TicketNo},
		Presenter: model.NormalizeWallet(req.Presenter),
		Operator:  model.NormalizeWallet(req.Operator),
		IssuedAt:  time.Now().UTC(),
	}, nil
}

// Redeem burns the ticket. When two staff devices race on the same ticket
// exactly one call succeeds; the other gets ErrAlreadyUsed so double entry is
// observable, never masked. After the commit the burn confirmation goes out
// to the off-chain store; its failure is a reconciliation item, not a
// rollback.
func (s *RedemptionServiceImpl) Redeem(ctx context.Context, token model.ValidationToken) error {
	event, err := s.eventRepo.FindByEventID(ctx, token.Ref.EventID)
	if err != nil {
		return err
	}

	if !s.operatorAuthorized(event, token.Operator) {
		return apperrors.ErrUnauthorized
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ticket, err := s.ticketRepo.FindByRefWithLock(ctx, tx, event.ID, token.Ref.TicketNo)
	if err != nil {
		return err
	}

	if ticket.IsUsed() {
		return apperrors.ErrAlreadyUsed
	}
	if !ticket.IsOwnedBy(token.Presenter) {
		return apperrors.ErrOwnershipMismatch
	}

	if err := s.ticketRepo.MarkUsed(ctx, tx, ticket.ID); err != nil {
		return err
	}

	// A burned ticket must not keep an active listing; remove it in the same
	// transaction.
	if err := s.listingRepo.DeleteByTicketID(ctx, tx, ticket.ID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	monitoring.RecordRedemption(event.EventID.String())

	if err := s.Confirm(ctx, token.Ref, token.Presenter); err != nil {
		monitoring.RecordReconciliationItem()
		logger.WithComponent("redemption").Warn("burn confirmation not delivered, queued for reconciliation",
			zap.String("event_id", token.Ref.EventID.String()),
			zap.Int("ticket_no", token.Ref.TicketNo),
			zap.Error(err),
		)
	}

	return nil
}

// Confirm publishes the burn notification for the off-chain status store.
func (s *RedemptionServiceImpl) Confirm(ctx context.Context, ref model.TicketRef, presenter string) error {
	return s.queue.PublishConfirmation(ctx, &model.BurnConfirmation{
		EventID:    ref.EventID,
		TicketNo:   ref.TicketNo,
		Presenter:  presenter,
		RedeemedAt: time.Now().UTC(),
	})
}
