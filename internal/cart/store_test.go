package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
)

type fakeBackend struct {
	values  map[string]string
	ttls    map[string]time.Duration
	setErr  error
	getErr  error
	deleted []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeBackend) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	value, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeBackend) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeBackend) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func (f *fakeBackend) CartKey(sessionID, cartType string) string {
	return "mc:cart:" + cartType + ":" + sessionID
}

func TestRedisStoreMissingCartIsEmpty(t *testing.T) {
	store, err := NewRedisStore(newFakeBackend(), time.Hour)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}

	got, err := store.Get(context.Background(), "sess-1", enums.CartTypeB2C)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SessionID != "sess-1" || got.Type != enums.CartTypeB2C {
		t.Fatalf("unexpected cart identity: %+v", got)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(got.Items))
	}
}

func TestRedisStoreSaveRoundTrip(t *testing.T) {
	backend := newFakeBackend()
	store, err := NewRedisStore(backend, 30*time.Minute)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	ctx := context.Background()

	cart := NewCart("sess-2", enums.CartTypeB2B)
	cart.Items = append(cart.Items, Item{
		ProductID:      uuid.New(),
		Name:           "Caja de playeras",
		UnitPriceCents: 12000,
		Quantity:       10,
		MOQ:            10,
		Stock:          100,
		SubtotalCents:  120000,
	})
	if err := store.Save(ctx, cart); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if cart.UpdatedAt.IsZero() {
		t.Fatalf("Save must stamp UpdatedAt")
	}
	if got := backend.ttls["mc:cart:b2b:sess-2"]; got != 30*time.Minute {
		t.Fatalf("ttl = %s, want 30m", got)
	}

	loaded, err := store.Get(ctx, "sess-2", enums.CartTypeB2B)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Quantity != 10 {
		t.Fatalf("unexpected loaded cart: %+v", loaded)
	}
	if loaded.Items[0].SubtotalCents != 120000 {
		t.Fatalf("subtotal = %d", loaded.Items[0].SubtotalCents)
	}
}

func TestRedisStoreDelete(t *testing.T) {
	backend := newFakeBackend()
	store, _ := NewRedisStore(backend, time.Hour)
	ctx := context.Background()

	cart := NewCart("sess-3", enums.CartTypeB2C)
	if err := store.Save(ctx, cart); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "sess-3", enums.CartTypeB2C); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(backend.values) != 0 {
		t.Fatalf("expected backend to be empty after delete")
	}
}

func TestNewRedisStoreValidatesDeps(t *testing.T) {
	if _, err := NewRedisStore(nil, time.Hour); err == nil {
		t.Fatalf("expected nil backend to be rejected")
	}
	if _, err := NewRedisStore(newFakeBackend(), 0); err == nil {
		t.Fatalf("expected zero ttl to be rejected")
	}
}
