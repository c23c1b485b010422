package application

import "errors"

var (
	// ErrInvalidPrice ...
	ErrInvalidPrice = errors.New("price must be strictly positive")
	// ErrInvalidPayment is returned when the payment does not exactly match
	// the listing price. Neither under- nor over-payment is accepted, there
	// is no refund-of-excess path.
	ErrInvalidPayment = errors.New("payment must exactly match the listing price")
	// ErrCallerNotOwner ...
	ErrCallerNotOwner = errors.New("caller is not the current owner of the token")
	// ErrMarketplaceNotApproved is returned when the marketplace lacks the
	// authorization to transfer the token at listing time.
	ErrMarketplaceNotApproved = errors.New(
		"marketplace is not approved to transfer the token",
	)
	// ErrTransferFailed wraps a failure of the external token transfer
	// during settlement.
	ErrTransferFailed = errors.New("token transfer failed")
	// ErrPaymentFailed wraps a failure of the funds movement during
	// settlement.
	ErrPaymentFailed = errors.New("payment transfer failed")
	// ErrServiceUnavailable is returned when the per-key lock cannot be
	// acquired within the configured timeout.
	ErrServiceUnavailable = errors.New("service is unavailable, try again later")
)
