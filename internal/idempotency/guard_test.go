package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/seller-crm/internal/model"
	"github.com/nimasrn/seller-crm/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGuard(t *testing.T) (*miniredis.Miniredis, *Guard) {
	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter(t.Name(), "crm:", &redis.Options{Addrs: []string{mr.Addr()}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	return mr, NewGuard(adapter, DefaultConfig())
}

func TestGuard_RunsOnceAndReplays(t *testing.T) {
	mr, g := setupGuard(t)
	ctx := context.Background()

	calls := 0
	fn := func() ([]byte, error) {
		calls++
		return []byte(`{"id":1}`), nil
	}

	body, replayed, err := g.Do(ctx, "sellers", "abc", fn)
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, `{"id":1}`, string(body))

	body, replayed, err = g.Do(ctx, "sellers", "abc", fn)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, `{"id":1}`, string(body))
	assert.Equal(t, 1, calls)

	assert.True(t, mr.Exists("crm:idem:result:sellers:abc"))
	assert.False(t, mr.Exists("crm:idem:lock:sellers:abc"))
}

func TestGuard_ScopesAreIndependent(t *testing.T) {
	_, g := setupGuard(t)
	ctx := context.Background()

	calls := 0
	fn := func() ([]byte, error) {
		calls++
		return []byte("ok"), nil
	}

	_, _, err := g.Do(ctx, "sellers", "k", fn)
	require.NoError(t, err)
	_, replayed, err := g.Do(ctx, "transactions", "k", fn)
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, 2, calls)
}

func TestGuard_FailureReleasesKey(t *testing.T) {
	mr, g := setupGuard(t)
	ctx := context.Background()

	boom := errors.New("boom")
	_, _, err := g.Do(ctx, "sellers", "k", func() ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("crm:idem:lock:sellers:k"))
	assert.False(t, mr.Exists("crm:idem:result:sellers:k"))

	body, replayed, err := g.Do(ctx, "sellers", "k", func() ([]byte, error) { return []byte("second"), nil })
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "second", string(body))
}

func TestGuard_InProgress(t *testing.T) {
	mr, g := setupGuard(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("crm:idem:lock:sellers:k", "1"))

	_, _, err := g.Do(ctx, "sellers", "k", func() ([]byte, error) {
		t.Fatal("must not run while the key is locked")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrInProgress)
	assert.Equal(t, model.KindNotCreated, model.KindOf(err))
}

func TestGuard_ResultExpires(t *testing.T) {
	mr, g := setupGuard(t)
	ctx := context.Background()

	fn := func() ([]byte, error) { return []byte("v"), nil }
	_, _, err := g.Do(ctx, "sellers", "k", fn)
	require.NoError(t, err)

	mr.FastForward(25 * time.Hour)

	_, replayed, err := g.Do(ctx, "sellers", "k", fn)
	require.NoError(t, err)
	assert.False(t, replayed)
}

// finishingFirst stores a result for the key just before the lock is taken,
// as a concurrent request that completes in that window would.
type finishingFirst struct {
	redis.RedisAdapter
	resultKey string
	body      []byte
}

func (f finishingFirst) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if err := f.RedisAdapter.Set(ctx, f.resultKey, f.body, time.Hour); err != nil {
		return false, err
	}
	return f.RedisAdapter.SetNX(ctx, key, value, ttl)
}

func TestGuard_ResultStoredWhileAcquiringLock(t *testing.T) {
	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter(t.Name(), "crm:", &redis.Options{Addrs: []string{mr.Addr()}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	conf := DefaultConfig()
	g := NewGuard(finishingFirst{
		RedisAdapter: adapter,
		resultKey:    conf.ResultKeyPrefix + "transactions:race",
		body:         []byte(`{"id":7}`),
	}, conf)

	calls := 0
	body, replayed, err := g.Do(context.Background(), "transactions", "race", func() ([]byte, error) {
		calls++
		return []byte(`{"id":8}`), nil
	})
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, `{"id":7}`, string(body))
	assert.Zero(t, calls)
	assert.False(t, mr.Exists("crm:idem:lock:transactions:race"))
}
