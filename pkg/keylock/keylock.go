package keylock

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// KeyLock serializes the callers that contend the same key, while letting
// callers on different keys proceed in parallel. Acquisition is bounded
// by the given context, so that a caller waiting on a busy key gives up
// once the context expires instead of blocking forever.
type KeyLock struct {
	mtx   sync.Mutex
	locks map[string]*lockEntry
}

// New returns an empty KeyLock.
func New() *KeyLock {
	return &KeyLock{
		locks: map[string]*lockEntry{},
	}
}

// Lock acquires the lock for the given key, blocking until either the
// lock is available or the context expires. On success it returns the
// function releasing the lock.
func (k *KeyLock) Lock(ctx context.Context, key string) (func(), error) {
	k.mtx.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{sem: semaphore.NewWeighted(1)}
		k.locks[key] = entry
	}
	entry.refs++
	k.mtx.Unlock()

	if err := entry.sem.Acquire(ctx, 1); err != nil {
		k.release(key, entry, false)
		return nil, err
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			k.release(key, entry, true)
		})
	}
	return unlock, nil
}

func (k *KeyLock) release(key string, entry *lockEntry, acquired bool) {
	k.mtx.Lock()
	defer k.mtx.Unlock()

	if acquired {
		entry.sem.Release(1)
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(k.locks, key)
	}
}
