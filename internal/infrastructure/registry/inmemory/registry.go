package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nifty-network/nifty-daemon/internal/core/domain"
	"github.com/nifty-network/nifty-daemon/internal/core/ports"
)

var (
	// ErrNotTokenOwner ...
	ErrNotTokenOwner = errors.New("from is not the current owner of the token")
	// ErrTransferNotAuthorized ...
	ErrTransferNotAuthorized = errors.New("operator is not authorized to move the token")
	// ErrInsufficientFunds ...
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Registry is a simulated asset registry and balance ledger satisfying
// both ports.AssetRegistry and ports.PaymentService. It lets the daemon
// run end-to-end in development mode, without a chain backend. Approval
// semantics mirror the ones of real token registries: a blanket operator
// approval per owner, or a per-token approval cleared on every transfer.
type Registry struct {
	operatorAddress string

	owners            map[string]string
	operatorApprovals map[string]bool
	tokenApprovals    map[string]string
	balances          map[string]uint64

	lock *sync.RWMutex
}

// NewRegistry returns an empty registry enforcing transfer authorization
// against the given marketplace operator address.
func NewRegistry(operatorAddress string) *Registry {
	return &Registry{
		operatorAddress:   operatorAddress,
		owners:            map[string]string{},
		operatorApprovals: map[string]bool{},
		tokenApprovals:    map[string]string{},
		balances:          map[string]uint64{},
		lock:              &sync.RWMutex{},
	}
}

// MintToken assigns a new token to the given owner.
func (r *Registry) MintToken(assetContract string, tokenID uint64, owner string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	key := domain.ListingKey(assetContract, tokenID)
	if _, ok := r.owners[key]; ok {
		return fmt.Errorf("token %s already minted", key)
	}
	r.owners[key] = owner
	return nil
}

// ApproveOperator grants or revokes the blanket authorization of the
// operator over all the owner's tokens of the asset.
func (r *Registry) ApproveOperator(
	assetContract, owner, operator string, approved bool,
) {
	r.lock.Lock()
	defer r.lock.Unlock()

	key := operatorKey(assetContract, owner, operator)
	if !approved {
		delete(r.operatorApprovals, key)
		return
	}
	r.operatorApprovals[key] = true
}

// ApproveToken grants the authorization to move the single given token.
// The approval is cleared on transfer.
func (r *Registry) ApproveToken(assetContract string, tokenID uint64, operator string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.tokenApprovals[domain.ListingKey(assetContract, tokenID)] = operator
}

// CreditFunds adds the given amount to the account balance.
func (r *Registry) CreditFunds(account string, amount uint64) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.balances[account] += amount
}

// BalanceOf returns the current balance of the account.
func (r *Registry) BalanceOf(account string) uint64 {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.balances[account]
}

func (r *Registry) OwnerOf(
	_ context.Context, assetContract string, tokenID uint64,
) (string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	owner, ok := r.owners[domain.ListingKey(assetContract, tokenID)]
	if !ok {
		return "", ports.ErrTokenNotFound
	}
	return owner, nil
}

func (r *Registry) IsApprovedOperator(
	_ context.Context, assetContract, owner, operator string,
) (bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.operatorApprovals[operatorKey(assetContract, owner, operator)], nil
}

func (r *Registry) IsApprovedForToken(
	_ context.Context, assetContract string, tokenID uint64, operator string,
) (bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.tokenApprovals[domain.ListingKey(assetContract, tokenID)] == operator, nil
}

func (r *Registry) TransferToken(
	_ context.Context, assetContract, from, to string, tokenID uint64,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	key := domain.ListingKey(assetContract, tokenID)
	owner, ok := r.owners[key]
	if !ok {
		return ports.ErrTokenNotFound
	}
	if owner != from {
		return ErrNotTokenOwner
	}
	if !r.operatorApprovals[operatorKey(assetContract, from, r.operatorAddress)] &&
		r.tokenApprovals[key] != r.operatorAddress {
		return ErrTransferNotAuthorized
	}

	r.owners[key] = to
	delete(r.tokenApprovals, key)
	return nil
}

func (r *Registry) TransferFunds(
	_ context.Context, from, to string, amount uint64,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.balances[from] < amount {
		return ErrInsufficientFunds
	}
	r.balances[from] -= amount
	r.balances[to] += amount
	return nil
}

func operatorKey(assetContract, owner, operator string) string {
	return fmt.Sprintf("%s:%s:%s", assetContract, owner, operator)
}
