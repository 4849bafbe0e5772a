package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const slotNamespace = "storefront:slot:"

type slotCmdable interface {
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
}

// RedisStore keeps slots as plain Redis strings without expiry.
type RedisStore struct {
	client slotCmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

// RedisOptions builds client options from either a URL or an address.
func RedisOptions(url, addr, password string, db int) (*redis.Options, error) {
	if url == "" && addr == "" {
		return nil, errors.New("store: redis url or address is required")
	}
	if url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("store: parsing redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: addr, Password: password, DB: db}, nil
}

func (r *RedisStore) ReadSlot(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, slotNamespace+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSlotNotFound
		}
		return "", fmt.Errorf("store: redis get %s: %w", key, err)
	}
	return v, nil
}

func (r *RedisStore) WriteSlot(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, slotNamespace+key, value, 0).Err(); err != nil {
		return fmt.Errorf("store: redis set %s: %w", key, err)
	}
	return nil
}
