package cartsession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"matcha-storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) Repository {
	return &redisRepo{
		client:    client,
		keyPrefix: "storefront:cart:",
		ttl:       ttl,
	}
}

func (r *redisRepo) Get(ctx context.Context, sessionID string) (string, error) {
	val, err := r.client.Get(ctx, r.keyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("failed to get cart id for session %s: %w", sessionID, err)
	}
	return val, nil
}

func (r *redisRepo) Save(ctx context.Context, sessionID, cartID string) error {
	// A zero ttl keeps the key until it is deleted.
	if err := r.client.Set(ctx, r.keyPrefix+sessionID, cartID, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart id for session %s: %w", sessionID, err)
	}
	return nil
}

func (r *redisRepo) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete cart id for session %s: %w", sessionID, err)
	}
	return nil
}

func (r *redisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
