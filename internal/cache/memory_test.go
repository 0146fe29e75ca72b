package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, found := m.Get(ctx, "missing"); found {
		t.Fatal("expected miss for unknown key")
	}

	m.Set(ctx, "k", []byte("v"), time.Minute)
	got, found := m.Get(ctx, "k")
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	now := time.Now()
	m.now = func() time.Time { return now }

	m.Set(ctx, "k", []byte("v"), 30*time.Second)

	if _, found := m.Get(ctx, "k"); !found {
		t.Fatal("expected hit before expiry")
	}

	now = now.Add(31 * time.Second)
	if _, found := m.Get(ctx, "k"); found {
		t.Fatal("expected miss after TTL elapsed")
	}
	if m.Len() != 0 {
		t.Errorf("expired entry not dropped, Len = %d", m.Len())
	}
}

func TestMemoryReplaceWholesale(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Set(ctx, "k", []byte("old"), time.Minute)
	m.Set(ctx, "k", []byte("new"), time.Minute)

	got, _ := m.Get(ctx, "k")
	if string(got) != "new" {
		t.Errorf("Get = %q, want %q", got, "new")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestMemoryZeroTTLIgnored(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Set(ctx, "k", []byte("v"), 0)
	if _, found := m.Get(ctx, "k"); found {
		t.Fatal("zero TTL should not store")
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				m.Set(ctx, "shared", []byte("value"), time.Minute)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				m.Get(ctx, "shared")
			}
		}()
	}
	wg.Wait()

	if got, found := m.Get(ctx, "shared"); !found || string(got) != "value" {
		t.Errorf("Get after concurrent writes = %q, %v", got, found)
	}
}

func TestKey(t *testing.T) {
	got := Key("Basketball", "stats", " 141 ", "2024")
	want := "basketball:stats:141:2024"
	if got != want {
		t.Errorf("Key = %q, want %q", got, want)
	}
}
