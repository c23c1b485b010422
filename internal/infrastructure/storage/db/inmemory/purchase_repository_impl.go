package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/nifty-network/nifty-daemon/internal/core/domain"
)

// purchaseRepositoryImpl represents an in memory storage of settlement
// records.
type purchaseRepositoryImpl struct {
	purchases map[uuid.UUID]domain.Purchase

	lock   *sync.RWMutex
	txLock *sync.RWMutex
}

// NewPurchaseRepositoryImpl returns a new empty in-memory implementation
// of the domain.PurchaseRepository.
func NewPurchaseRepositoryImpl() domain.PurchaseRepository {
	return newPurchaseRepositoryImpl(&sync.RWMutex{})
}

func newPurchaseRepositoryImpl(txLock *sync.RWMutex) *purchaseRepositoryImpl {
	return &purchaseRepositoryImpl{
		purchases: map[uuid.UUID]domain.Purchase{},
		lock:      &sync.RWMutex{},
		txLock:    txLock,
	}
}

func (r *purchaseRepositoryImpl) guard(ctx context.Context) func() {
	if ctx.Value("tx") != nil {
		return func() {}
	}
	r.txLock.RLock()
	return r.txLock.RUnlock
}

func (r *purchaseRepositoryImpl) AddPurchase(
	ctx context.Context, purchase *domain.Purchase,
) error {
	defer r.guard(ctx)()
	r.lock.Lock()
	defer r.lock.Unlock()

	r.purchases[purchase.ID] = *purchase
	return nil
}

func (r *purchaseRepositoryImpl) GetAllPurchases(
	ctx context.Context,
) ([]domain.Purchase, error) {
	defer r.guard(ctx)()
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.findPurchases(func(domain.Purchase) bool { return true }), nil
}

func (r *purchaseRepositoryImpl) GetPurchasesByAsset(
	ctx context.Context, assetContract string,
) ([]domain.Purchase, error) {
	defer r.guard(ctx)()
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.findPurchases(func(p domain.Purchase) bool {
		return p.AssetContract == assetContract
	}), nil
}

func (r *purchaseRepositoryImpl) GetPurchasesBySeller(
	ctx context.Context, seller string,
) ([]domain.Purchase, error) {
	defer r.guard(ctx)()
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.findPurchases(func(p domain.Purchase) bool {
		return p.Seller == seller
	}), nil
}

func (r *purchaseRepositoryImpl) findPurchases(
	selector func(domain.Purchase) bool,
) []domain.Purchase {
	purchases := make([]domain.Purchase, 0)
	for _, p := range r.purchases {
		if selector(p) {
			purchases = append(purchases, p)
		}
	}
	sort.Slice(purchases, func(i, j int) bool {
		return purchases[i].SettledAt < purchases[j].SettledAt
	})
	return purchases
}

func (r *purchaseRepositoryImpl) snapshot() map[uuid.UUID]domain.Purchase {
	r.lock.RLock()
	defer r.lock.RUnlock()

	purchases := make(map[uuid.UUID]domain.Purchase, len(r.purchases))
	for k, v := range r.purchases {
		purchases[k] = v
	}
	return purchases
}

func (r *purchaseRepositoryImpl) restore(purchases map[uuid.UUID]domain.Purchase) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.purchases = purchases
}
