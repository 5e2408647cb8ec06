package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss for unknown key
	_, hit, err := c.Get(ctx, "missing")
	if err != nil || hit {
		t.Errorf("Get(missing) = hit=%v err=%v, want miss", hit, err)
	}

	// Round trip
	if err := c.Set(ctx, "sheet", []byte("png-bytes"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "sheet")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != "png-bytes" {
		t.Errorf("Get = %q hit=%v, want png-bytes hit", data, hit)
	}

	// Expired entries are treated as misses
	if err := c.Set(ctx, "expired", []byte("old"), -time.Second); err != nil {
		t.Fatal(err)
	}
	_, hit, _ = c.Get(ctx, "expired")
	if hit {
		t.Error("expired entry should be a miss")
	}

	// Delete
	if err := c.Delete(ctx, "sheet"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "sheet")
	if hit {
		t.Error("deleted entry should be a miss")
	}

	// Deleting a missing key is fine
	if err := c.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	inner, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer inner.Close()

	a := NewScoped(inner, "a:")
	b := NewScoped(inner, "b:")

	if err := a.Set(ctx, "key", []byte("from-a"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := b.Get(ctx, "key"); hit {
		t.Error("scoped caches should not share keys")
	}
	data, hit, _ := a.Get(ctx, "key")
	if !hit || string(data) != "from-a" {
		t.Errorf("a.Get = %q hit=%v, want from-a hit", data, hit)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestSheetKey(t *testing.T) {
	k1 := SheetKey([]string{"a", "b"})
	k2 := SheetKey([]string{"a", "b"})
	if k1 != k2 {
		t.Error("SheetKey should be deterministic")
	}
	if !strings.HasPrefix(k1, "sheet:") {
		t.Errorf("SheetKey = %q, want sheet: prefix", k1)
	}

	// Frame order is part of the identity
	if SheetKey([]string{"b", "a"}) == k1 {
		t.Error("reordered frames should produce a different key")
	}
}

func TestArtifactKey(t *testing.T) {
	sk := SheetKey([]string{"a"})
	gif := ArtifactKey(sk, "gif")
	contact := ArtifactKey(sk, "contact")
	if gif == contact {
		t.Error("different artifact kinds should produce different keys")
	}
}
