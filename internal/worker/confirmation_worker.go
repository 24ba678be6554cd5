package worker

import (
	"context"

	"ticket-ledger/internal/cache"
	"ticket-ledger/internal/monitoring"
	"ticket-ledger/internal/queue"
	"ticket-ledger/pkg/logger"

	"go.uber.org/zap"
)

// ConfirmationWorker drains burn confirmations from the queue into the
// off-chain status store.
type ConfirmationWorker interface {
	Start(ctx context.Context) error
}

type ConfirmationWorkerImpl struct {
	statusStore cache.TicketStatusStore
	queue       queue.ConfirmationQueue
}

func NewConfirmationWorker(statusStore cache.TicketStatusStore, queue queue.ConfirmationQueue) ConfirmationWorker {
	return &ConfirmationWorkerImpl{
		statusStore: statusStore,
		queue:       queue,
	}
}

func (w *ConfirmationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeConfirmations(ctx)
	if err != nil {
		return err
	}

	go func() {
		log := logger.WithComponent("confirmation_worker")
		for msg := range msgs {
			confirmation := msg.Data
			err := w.statusStore.MarkUsed(ctx, confirmation.EventID, confirmation.TicketNo)
			if err != nil {
				// The ticket is already burned in the registry; the write is
				// retried and counted as a reconciliation item either way.
				monitoring.RecordReconciliationItem()
				log.Warn("failed to record burn in status store, will retry",
					zap.String("event_id", confirmation.EventID.String()),
					zap.Int("ticket_no", confirmation.TicketNo),
					zap.Error(err),
				)
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}
