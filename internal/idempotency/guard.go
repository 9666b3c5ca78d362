// Package idempotency makes create requests safe to retry. The first request
// carrying a key runs and its response body is kept; retries with the same
// key get the stored body back instead of creating a second row.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nimasrn/seller-crm/internal/model"
	"github.com/nimasrn/seller-crm/pkg/logger"
	"github.com/nimasrn/seller-crm/pkg/redis"
)

var ErrInProgress = errors.New("request with this idempotency key is still in progress")

type Config struct {
	LockTTL time.Duration

	ResultTTL time.Duration

	LockKeyPrefix string

	ResultKeyPrefix string
}

func DefaultConfig() Config {
	return Config{
		LockTTL:         30 * time.Second,
		ResultTTL:       24 * time.Hour,
		LockKeyPrefix:   "idem:lock:",
		ResultKeyPrefix: "idem:result:",
	}
}

type Guard struct {
	redis  redis.RedisAdapter
	config Config
}

func NewGuard(redisAdapter redis.RedisAdapter, config Config) *Guard {
	return &Guard{
		redis:  redisAdapter,
		config: config,
	}
}

// Do runs fn once per (scope, key). A stored result is returned with
// replayed set. While another request holds the key Do fails with a
// not_created error wrapping ErrInProgress. A failed fn releases the key so
// the client can retry.
func (g *Guard) Do(ctx context.Context, scope, key string, fn func() ([]byte, error)) (body []byte, replayed bool, err error) {
	id := scope + ":" + key
	resultKey := g.config.ResultKeyPrefix + id

	if stored, ok := g.stored(ctx, scope, key, resultKey); ok {
		return stored, true, nil
	}

	lockKey := g.config.LockKeyPrefix + id
	acquired, err := g.redis.SetNX(ctx, lockKey, []byte(strconv.FormatInt(time.Now().UnixNano(), 10)), g.config.LockTTL)
	if err != nil {
		return nil, false, fmt.Errorf("acquire idempotency lock: %w", err)
	}
	if !acquired {
		return nil, false, model.NewError(model.KindNotCreated, ErrInProgress, "%s", ErrInProgress.Error())
	}
	defer g.release(ctx, lockKey)

	// the previous holder may have stored its result and released the lock
	// between the first read and SetNX
	if stored, ok := g.stored(ctx, scope, key, resultKey); ok {
		return stored, true, nil
	}

	body, err = fn()
	if err != nil {
		return nil, false, err
	}

	if err := g.redis.Set(ctx, resultKey, body, g.config.ResultTTL); err != nil {
		logger.Error("[idempotency] failed to store result", "scope", scope, "key", key, "error", err)
	}
	return body, false, nil
}

func (g *Guard) stored(ctx context.Context, scope, key, resultKey string) ([]byte, bool) {
	stored, err := g.redis.Get(ctx, resultKey)
	switch {
	case err == nil:
		logger.Info("[idempotency] replaying stored result", "scope", scope, "key", key)
		return stored, true
	case !redis.IsNil(err):
		logger.Warn("[idempotency] failed to read stored result", "scope", scope, "key", key, "error", err)
	}
	return nil, false
}

func (g *Guard) release(ctx context.Context, lockKey string) {
	if err := g.redis.Del(context.WithoutCancel(ctx), lockKey); err != nil {
		logger.Warn("[idempotency] failed to release lock", "key", lockKey, "error", err)
	}
}
