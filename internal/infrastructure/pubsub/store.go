package pubsub

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/nifty-network/nifty-daemon/internal/core/ports"
	dbbadger "github.com/nifty-network/nifty-daemon/internal/infrastructure/storage/db/badger"
)

// SubscriptionStore persists the webhook subscriptions of the pubsub
// service.
type SubscriptionStore interface {
	AddSubscription(sub *Subscription) error
	GetSubscription(id string) (*Subscription, error)
	RemoveSubscription(id string) error
	ListSubscriptions(topic string) (subscriptions, error)
	Close() error
}

type inMemoryStore struct {
	subs map[string]Subscription
	lock *sync.RWMutex
}

// NewInMemorySubscriptionStore returns a volatile store, subscriptions
// are lost when the daemon restarts.
func NewInMemorySubscriptionStore() SubscriptionStore {
	return &inMemoryStore{
		subs: map[string]Subscription{},
		lock: &sync.RWMutex{},
	}
}

func (s *inMemoryStore) AddSubscription(sub *Subscription) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.subs[sub.ID] = *sub
	return nil
}

func (s *inMemoryStore) GetSubscription(id string) (*Subscription, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (s *inMemoryStore) RemoveSubscription(id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.subs, id)
	return nil
}

func (s *inMemoryStore) ListSubscriptions(topic string) (subscriptions, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	subs := make(subscriptions, 0, len(s.subs))
	for _, sub := range s.subs {
		if topic == ports.UnspecifiedTopic || sub.Event == topic {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (s *inMemoryStore) Close() error { return nil }

type badgerStore struct {
	store *badgerhold.Store
}

// NewBadgerSubscriptionStore opens (or creates if not exists) the badger
// store persisting subscriptions under the given data dir.
func NewBadgerSubscriptionStore(
	baseDbDir string, logger badger.Logger,
) (SubscriptionStore, error) {
	opts := badger.DefaultOptions(baseDbDir + "/pubsub")
	opts.Logger = logger

	store, err := badgerhold.Open(badgerhold.Options{
		Encoder:          dbbadger.JSONEncode,
		Decoder:          dbbadger.JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, fmt.Errorf("opening pubsub db: %w", err)
	}
	return &badgerStore{store}, nil
}

func (s *badgerStore) AddSubscription(sub *Subscription) error {
	err := s.store.Insert(sub.ID, sub)
	if err == badgerhold.ErrKeyExists {
		return nil
	}
	return err
}

func (s *badgerStore) GetSubscription(id string) (*Subscription, error) {
	var sub Subscription
	if err := s.store.Get(id, &sub); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (s *badgerStore) RemoveSubscription(id string) error {
	err := s.store.Delete(id, Subscription{})
	if err == badgerhold.ErrNotFound {
		return nil
	}
	return err
}

func (s *badgerStore) ListSubscriptions(topic string) (subscriptions, error) {
	var subs []Subscription
	query := &badgerhold.Query{}
	if topic != ports.UnspecifiedTopic {
		query = badgerhold.Where("Event").Eq(topic)
	}
	if err := s.store.Find(&subs, query); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *badgerStore) Close() error {
	return s.store.Close()
}
