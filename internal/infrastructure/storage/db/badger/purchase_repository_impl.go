package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/nifty-network/nifty-daemon/internal/core/domain"
)

type purchaseRepositoryImpl struct {
	db *RepoManager
}

// NewPurchaseRepositoryImpl initialize a badger implementation of the
// domain.PurchaseRepository
func NewPurchaseRepositoryImpl(db *RepoManager) domain.PurchaseRepository {
	return purchaseRepositoryImpl{
		db: db,
	}
}

func (p purchaseRepositoryImpl) AddPurchase(
	ctx context.Context, purchase *domain.Purchase,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return p.db.store.TxInsert(tx, purchase.ID, purchase)
	}
	return p.db.store.Insert(purchase.ID, purchase)
}

func (p purchaseRepositoryImpl) GetAllPurchases(
	ctx context.Context,
) ([]domain.Purchase, error) {
	query := (&badgerhold.Query{}).SortBy("SettledAt")
	return p.findPurchases(ctx, query)
}

func (p purchaseRepositoryImpl) GetPurchasesByAsset(
	ctx context.Context, assetContract string,
) ([]domain.Purchase, error) {
	query := badgerhold.Where("AssetContract").Eq(assetContract).
		SortBy("SettledAt")
	return p.findPurchases(ctx, query)
}

func (p purchaseRepositoryImpl) GetPurchasesBySeller(
	ctx context.Context, seller string,
) ([]domain.Purchase, error) {
	query := badgerhold.Where("Seller").Eq(seller).SortBy("SettledAt")
	return p.findPurchases(ctx, query)
}

func (p purchaseRepositoryImpl) findPurchases(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = p.db.store.TxFind(tx, &purchases, query)
	} else {
		err = p.db.store.Find(&purchases, query)
	}

	return purchases, err
}
