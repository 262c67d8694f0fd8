package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
)

// Store persists session carts.
type Store interface {
	Get(ctx context.Context, sessionID string, cartType enums.CartType) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, sessionID string, cartType enums.CartType) error
}

// Backend is the key-value surface the Redis-backed store depends on.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID, cartType string) string
}

type redisStore struct {
	client Backend
	ttl    time.Duration
}

// NewRedisStore returns a cart store backed by Redis. Every save refreshes the
// cart TTL so active sessions never lose their cart.
func NewRedisStore(client Backend, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "redis client required")
	}
	if ttl <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart ttl must be positive")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

func (s *redisStore) Get(ctx context.Context, sessionID string, cartType enums.CartType) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID, cartType.String()))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return NewCart(sessionID, cartType), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	return &cart, nil
}

func (s *redisStore) Save(ctx context.Context, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	key := s.client.CartKey(cart.SessionID, cart.Type.String())
	if err := s.client.Set(ctx, key, string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string, cartType enums.CartType) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID, cartType.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}
