package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(value) != "v" {
		t.Fatalf("expected hit with %q, got %q ok=%v err=%v", "v", value, ok, err)
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	original := []byte("abc")
	if err := c.Set(ctx, "k", original, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	original[0] = 'x'

	value, ok, _ := c.Get(ctx, "k")
	if !ok || string(value) != "abc" {
		t.Fatalf("stored value must not alias caller memory, got %q", value)
	}

	value[0] = 'y'
	again, _, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("returned value must not alias internal state, got %q", again)
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("entry must be visible before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("entry must be treated as absent after expiry")
	}
}
