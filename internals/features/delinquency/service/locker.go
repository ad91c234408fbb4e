package service

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrBatchBusy is returned when another request holds the lock of the same batch.
var ErrBatchBusy = errors.New("batch is being processed by another request")

// BatchLocker serializes the parts of one batch.
type BatchLocker interface {
	Lock(ctx context.Context, batchID string) (unlock func(), err error)
}

// NoopLocker relies on the client sending parts one at a time.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// RedisLocker holds a short-lived Redis lock per batch id.
type RedisLocker struct {
	client *redislock.Client
	TTL    time.Duration
	Wait   time.Duration
	Prefix string
}

func NewRedisLocker(rdb redis.UniversalClient) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(rdb),
		TTL:    2 * time.Minute,
		Wait:   10 * time.Second,
		Prefix: "condoku:import:",
	}
}

func (l *RedisLocker) Lock(ctx context.Context, batchID string) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.Wait)
	defer cancel()

	lock, err := l.client.Obtain(waitCtx, l.Prefix+batchID, l.TTL, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(200 * time.Millisecond),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		return nil, ErrBatchBusy
	}
	if err != nil {
		return nil, err
	}
	return func() {
		_ = lock.Release(context.Background())
	}, nil
}
