package settlement

import (
	"context"

	"github.com/shopspring/decimal"
)

// Sink is the payment rail boundary. Transfer must be all-or-nothing: either
// the full amount moves from payer to payee or nothing does. A marketplace
// purchase settles through this before ownership changes hands.
type Sink interface {
	Transfer(ctx context.Context, from string, to string, amount decimal.Decimal) error
}
