package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedis_LockUnlock(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewRedis(client, WithTTL(time.Minute))

	unlock, err := locker.Lock(context.Background(), "/tmp/org1/repo1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(DefaultPrefix+"/tmp/org1/repo1"))

	require.NoError(t, unlock())
	assert.False(t, mr.Exists(DefaultPrefix+"/tmp/org1/repo1"))
}

func TestRedis_BlocksUntilReleased(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewRedis(client, WithPollInterval(5*time.Millisecond), WithPrefix("test:"))

	unlock, err := locker.Lock(context.Background(), "key")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := locker.Lock(context.Background(), "key")
		if err == nil {
			_ = second()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held lock")
	case <-time.After(30 * time.Millisecond):
	}

	require.NoError(t, unlock())

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second holder never acquired the released lock")
	}
}

func TestRedis_ContextCancelWhileWaiting(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewRedis(client, WithPollInterval(5*time.Millisecond))

	unlock, err := locker.Lock(context.Background(), "key")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "key")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedis_ExpiredLeaseIsNotReleasedByOldHolder(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewRedis(client, WithTTL(time.Second), WithPollInterval(5*time.Millisecond))

	stale, err := locker.Lock(context.Background(), "key")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	fresh, err := locker.Lock(context.Background(), "key")
	require.NoError(t, err)

	assert.ErrorIs(t, stale(), ErrNotHeld)
	assert.True(t, mr.Exists(DefaultPrefix+"key"), "stale unlock must not drop the new lease")
	assert.NoError(t, fresh())
}
