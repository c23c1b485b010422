package ports

import "context"

// PaymentService is the settlement channel consumed to move funds from a
// buyer to a seller when a purchase settles. The marketplace is a pure
// pass-through, funds are never held by the daemon between calls.
type PaymentService interface {
	// TransferFunds moves the given amount from the payer to the payee.
	TransferFunds(ctx context.Context, from, to string, amount uint64) error
}
