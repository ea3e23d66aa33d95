package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/rmay1er/ai-responder/cache"
)

func newBadger(t *testing.T) cache.Provider {
	t.Helper()
	p, err := cache.NewBadgerProvider(cache.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestBadgerProvider_SetGet(t *testing.T) {
	p := newBadger(t)
	ctx := context.Background()

	if err := p.Set(ctx, "session:bob", []byte(`[{"role":"user","content":"hi"}]`), time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	value, ok, err := p.Get(ctx, "session:bob")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("key should be present")
	}
	if string(value) != `[{"role":"user","content":"hi"}]` {
		t.Errorf("got %q", value)
	}
}

func TestBadgerProvider_MissingKeyIsAbsentNotError(t *testing.T) {
	p := newBadger(t)

	_, ok, err := p.Get(context.Background(), "session:nobody")
	if err != nil {
		t.Fatalf("missing key should not error, got %v", err)
	}
	if ok {
		t.Error("missing key should report absent")
	}
}

func TestBadgerProvider_Overwrite(t *testing.T) {
	p := newBadger(t)
	ctx := context.Background()

	p.Set(ctx, "k", []byte("old"), time.Hour)
	p.Set(ctx, "k", []byte("new"), time.Hour)

	value, _, _ := p.Get(ctx, "k")
	if string(value) != "new" {
		t.Errorf("got %q, want %q", value, "new")
	}
}

func TestBadgerProvider_ClearAll(t *testing.T) {
	p := newBadger(t)
	ctx := context.Background()

	p.Set(ctx, "session:a", []byte("x"), time.Hour)
	p.Set(ctx, "session:b", []byte("y"), time.Hour)

	if err := p.ClearAll(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if _, ok, _ := p.Get(ctx, "session:a"); ok {
		t.Error("keys should be gone after ClearAll")
	}
}

func TestBadgerProvider_ClosedOperationsError(t *testing.T) {
	p, err := cache.NewBadgerProvider(cache.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, _, err := p.Get(context.Background(), "k"); err != cache.ErrClosed {
		t.Errorf("Get after close: got %v, want ErrClosed", err)
	}
}

func TestBadgerProvider_RequiresPathOrInMemory(t *testing.T) {
	if _, err := cache.NewBadgerProvider(cache.BadgerConfig{}); err == nil {
		t.Error("expected error for empty config")
	}
}
