package queue

import (
	"context"

	"ticket-ledger/internal/model"
)

type Delivery struct {
	Data *model.BurnConfirmation
	Ack  func()
	Nack func(requeue bool)
}

// ConfirmationQueue decouples the irreversible burn from the best-effort
// off-chain confirmation write.
type ConfirmationQueue interface {
	PublishConfirmation(ctx context.Context, confirmation *model.BurnConfirmation) error
	SubscribeConfirmations(ctx context.Context) (<-chan Delivery, error)
}

// ConfirmationQueueImpl is the in-memory channel-backed queue, suitable for a
// single-process deployment and for tests.
type ConfirmationQueueImpl struct {
	ch chan *model.BurnConfirmation
}

func NewConfirmationQueue(bufferSize int) ConfirmationQueue {
	return &ConfirmationQueueImpl{
		ch: make(chan *model.BurnConfirmation, bufferSize),
	}
}

func (q *ConfirmationQueueImpl) PublishConfirmation(ctx context.Context, confirmation *model.BurnConfirmation) error {
	select {
	case q.ch <- confirmation:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ConfirmationQueueImpl) SubscribeConfirmations(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case confirmation, ok := <-q.ch:
				if !ok {
					return
				}

				delivery := Delivery{
					Data: confirmation,
					Ack:  func() { /* nothing to do for the memory queue */ },
					Nack: func(requeue bool) {
						if !requeue {
							return
						}
						// Requeue must not wedge the consumer when the buffer
						// is full; the subscription context is the escape.
						select {
						case q.ch <- confirmation:
						case <-ctx.Done():
						}
					},
				}

				select {
				case out <- delivery:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
