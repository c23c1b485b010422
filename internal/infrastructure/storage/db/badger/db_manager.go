package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/nifty-network/nifty-daemon/internal/core/domain"
	"github.com/nifty-network/nifty-daemon/internal/core/ports"
)

// RepoManager holds the badgerhold store of the daemon along with the
// repositories backed by it. Listings and settlement records share the
// same store so that a single transaction can cover both during a
// purchase.
type RepoManager struct {
	store *badgerhold.Store

	listingRepository  domain.ListingRepository
	purchaseRepository domain.PurchaseRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on
// disk. It expects a base data dir and an optional logger.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	store, err := createDb(baseDbDir+"/marketplace", logger)
	if err != nil {
		return nil, fmt.Errorf("opening marketplace db: %w", err)
	}

	repoManager := &RepoManager{store: store}
	repoManager.listingRepository = NewListingRepositoryImpl(repoManager)
	repoManager.purchaseRepository = NewPurchaseRepositoryImpl(repoManager)
	return repoManager, nil
}

func (d *RepoManager) ListingRepository() domain.ListingRepository {
	return d.listingRepository
}

func (d *RepoManager) PurchaseRepository() domain.PurchaseRepository {
	return d.purchaseRepository
}

// RunTransaction runs the handler within a badger transaction smuggled
// through the context, so that every repository operation made by the
// handler is committed or discarded as a whole. The handler is executed
// exactly once: a transaction discarded because of a conflict surfaces
// badger.ErrConflict to the caller, since the handler may carry external
// side effects that must not be replayed.
func (d *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := d.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, "tx", tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (d *RepoManager) Close() {
	d.store.Close()
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	var buff bytes.Buffer
	de := json.NewDecoder(&buff)

	_, err := buff.Write(data)
	if err != nil {
		return err
	}

	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (db *badgerhold.Store, err error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	db, err = badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})

	return
}
