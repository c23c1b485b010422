package keylock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nifty-network/nifty-daemon/pkg/keylock"
)

func TestLockSerializesSameKey(t *testing.T) {
	t.Parallel()

	locker := keylock.New()
	counter := 0

	wg := &sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "asset:7")
			require.NoError(t, err)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, 50, counter)
}

func TestLockTimesOutOnBusyKey(t *testing.T) {
	t.Parallel()

	locker := keylock.New()

	unlock, err := locker.Lock(context.Background(), "asset:7")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	blocked, err := locker.Lock(ctx, "asset:7")
	require.Error(t, err)
	require.Nil(t, blocked)
}

func TestLockIndependentKeys(t *testing.T) {
	t.Parallel()

	locker := keylock.New()

	unlock, err := locker.Lock(context.Background(), "asset:7")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// a different key must not be affected by the held lock.
	other, err := locker.Lock(ctx, "asset:8")
	require.NoError(t, err)
	other()
}

func TestUnlockIsIdempotent(t *testing.T) {
	t.Parallel()

	locker := keylock.New()

	unlock, err := locker.Lock(context.Background(), "asset:7")
	require.NoError(t, err)
	unlock()
	unlock()

	again, err := locker.Lock(context.Background(), "asset:7")
	require.NoError(t, err)
	again()
}
