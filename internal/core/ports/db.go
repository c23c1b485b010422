package ports

import (
	"context"

	"github.com/nifty-network/nifty-daemon/internal/core/domain"
)

// RepoManager gives access to the repositories of the daemon and lets to
// run multiple read/write operations against them in a single
// all-or-nothing transaction.
type RepoManager interface {
	ListingRepository() domain.ListingRepository
	PurchaseRepository() domain.PurchaseRepository

	// RunTransaction executes the handler within a storage transaction.
	// Every repository operation made through the handler's context is
	// either committed as a whole or discarded entirely if the handler
	// returns an error.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
