package service

import (
	"context"
	"testing"
	"time"
)

func TestMemoryContextCacheStoreTakeOnce(t *testing.T) {
	store := NewMemoryContextCacheStore()
	ctx := context.Background()

	if err := store.PutOnce(ctx, "abc123de", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	data, ok, err := store.TakeOnce(ctx, "abc123de")
	if err != nil || !ok {
		t.Fatalf("first take: ok=%v err=%v", ok, err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected payload: %s", data)
	}

	if _, ok, _ := store.TakeOnce(ctx, "abc123de"); ok {
		t.Fatal("second take must miss")
	}
}

func TestMemoryContextCacheStoreExpiry(t *testing.T) {
	store := NewMemoryContextCacheStore()
	ctx := context.Background()

	if err := store.PutOnce(ctx, "abc123de", []byte("payload"), -time.Second); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, _ := store.TakeOnce(ctx, "abc123de"); ok {
		t.Fatal("expired entry must not be served")
	}
}

func TestMemoryContextCacheStoreUnknownKey(t *testing.T) {
	store := NewMemoryContextCacheStore()
	if _, ok, err := store.TakeOnce(context.Background(), "missing1"); ok || err != nil {
		t.Fatalf("unknown key: ok=%v err=%v", ok, err)
	}
}
