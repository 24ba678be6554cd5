package settlement

import (
	"context"
	"errors"
	"sync"

	"ticket-ledger/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("transfer amount must be > 0")
)

// EscrowLedger is an in-process account ledger implementing Sink. Balances
// are guarded by a single mutex; a transfer debits and credits under the same
// lock so partial movement is impossible.
type EscrowLedger struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

func NewEscrowLedger() *EscrowLedger {
	return &EscrowLedger{
		balances: make(map[string]decimal.Decimal),
	}
}

// Deposit credits an account. Used to fund buyers before a purchase.
func (l *EscrowLedger) Deposit(account string, amount decimal.Decimal) {
	account = model.NormalizeWallet(account)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] = l.balances[account].Add(amount)
}

// Balance returns the current balance of an account.
func (l *EscrowLedger) Balance(account string) decimal.Decimal {
	account = model.NormalizeWallet(account)

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account]
}

func (l *EscrowLedger) Transfer(ctx context.Context, from string, to string, amount decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	from = model.NormalizeWallet(from)
	to = model.NormalizeWallet(to)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from].LessThan(amount) {
		return ErrInsufficientFunds
	}

	l.balances[from] = l.balances[from].Sub(amount)
	l.balances[to] = l.balances[to].Add(amount)

	return nil
}
