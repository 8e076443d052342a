package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redisclient "github.com/muhammadheryan/reliefbridge/cmd/redis"
	"github.com/muhammadheryan/reliefbridge/model"
	goredis "github.com/redis/go-redis/v9"
)

const (
	revokedPrefix = "revoked:"
	actorPrefix   = "actor:"
)

// Repository defines methods for interacting with Redis key-values
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	SetActor(ctx context.Context, actor *model.Actor, ttl time.Duration) error
	GetActor(ctx context.Context, userID string) (*model.Actor, error)
	DeleteActor(ctx context.Context, userID string) error
}

type redis struct{}

// NewRepository returns a Redis Repository implementation
func NewRepository() Repository {
	return &redis{}
}

// Get retrieves a value by key, "" when the key does not exist
func (r *redis) Get(ctx context.Context, key string) (string, error) {
	client := redisclient.Get()
	if client == nil {
		return "", nil
	}
	val, err := client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

// SetWithTTL stores a key/value pair with time-to-live
func (r *redis) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	return client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a key from Redis
func (r *redis) Delete(ctx context.Context, key string) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	return client.Del(ctx, key).Err()
}

// RevokeToken marks a token id as logged out until the token would expire
// on its own.
func (r *redis) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.SetWithTTL(ctx, revokedPrefix+tokenID, "1", ttl)
}

func (r *redis) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	client := redisclient.Get()
	if client == nil {
		return false, nil
	}
	n, err := client.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetActor caches the resolved actor of a user id
func (r *redis) SetActor(ctx context.Context, actor *model.Actor, ttl time.Duration) error {
	b, err := json.Marshal(actor)
	if err != nil {
		return err
	}
	return r.SetWithTTL(ctx, actorPrefix+actor.ID, string(b), ttl)
}

// GetActor returns nil, nil on a cache miss
func (r *redis) GetActor(ctx context.Context, userID string) (*model.Actor, error) {
	val, err := r.Get(ctx, actorPrefix+userID)
	if err != nil || val == "" {
		return nil, err
	}
	var actor model.Actor
	if err := json.Unmarshal([]byte(val), &actor); err != nil {
		return nil, err
	}
	return &actor, nil
}

func (r *redis) DeleteActor(ctx context.Context, userID string) error {
	return r.Delete(ctx, actorPrefix+userID)
}
