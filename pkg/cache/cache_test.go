package cache

import (
	"context"
	"os"
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

	// Miss on absent key
	_, hit, err := c.Get(ctx, "absent")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("absent key should miss")
	}

	// Set then Get round-trips
	if err := c.Set(ctx, "k1", []byte("layout document"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("stored key should hit")
	}
	if string(data) != "layout document" {
		t.Errorf("Get = %q, want stored payload", data)
	}

	// Delete removes, deleting again is fine
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k1"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("deleting an absent key should not error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "fleeting", []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "fleeting"); hit {
		t.Error("expired entry should miss")
	}

	// Zero ttl means no expiration
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	fc := c.(*FileCache)

	if err := c.Set(ctx, "k1", []byte("good"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := os.WriteFile(fc.path("k1"), []byte("not json at all"), 0644); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	if _, hit, err := c.Get(ctx, "k1"); err != nil || hit {
		t.Errorf("corrupt entry should be a silent miss, got hit=%v err=%v", hit, err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	// Miss on absent key
	if _, hit, err := c.Get(ctx, "absent"); err != nil || hit {
		t.Errorf("absent key should miss, got hit=%v err=%v", hit, err)
	}

	// Set then Get round-trips
	if err := c.Set(ctx, "k1", []byte("scene document"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("stored key should hit")
	}
	if string(data) != "scene document" {
		t.Errorf("Get = %q, want stored payload", data)
	}

	// Delete removes, deleting again is fine
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k1"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("deleting an absent key should not error: %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	mc := c.(*MemoryCache)

	if err := c.Set(ctx, "fleeting", []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "fleeting"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
	if mc.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after the expired entry was dropped", mc.Len())
	}
}

func TestMemoryCacheCleanup(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	mc := c.(*MemoryCache)

	if err := c.Set(ctx, "a", []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Set(ctx, "b", []byte("y"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	mc.Cleanup()

	if mc.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after Cleanup", mc.Len())
	}
	if _, hit, _ := c.Get(ctx, "b"); !hit {
		t.Error("unexpired entry should survive Cleanup")
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

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// LayoutKey folds the engine fingerprint into the key
	lk1 := k.LayoutKey("hash123", "graphviz:dot")
	lk2 := k.LayoutKey("hash123", "exec:elkjs-cli")
	if lk1 == lk2 {
		t.Error("Different engine fingerprints should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey should carry the layout prefix: %s", lk1)
	}
	if lk1 != k.LayoutKey("hash123", "graphviz:dot") {
		t.Error("LayoutKey should be deterministic")
	}

	// SceneKey folds the id width into the key
	sk1 := k.SceneKey("hash123", 6)
	sk2 := k.SceneKey("hash123", 8)
	if sk1 == sk2 {
		t.Error("Different id widths should produce different keys")
	}
	if !strings.HasPrefix(sk1, "scene:") {
		t.Errorf("SceneKey should carry the scene prefix: %s", sk1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:123:")

	// All keys should be prefixed
	lk := scoped.LayoutKey("hash123", "graphviz:dot")
	if !strings.HasPrefix(lk, "tenant:123:layout:") {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", lk)
	}
	sk := scoped.SceneKey("hash123", 6)
	if !strings.HasPrefix(sk, "tenant:123:scene:") {
		t.Errorf("ScopedKeyer SceneKey should be prefixed: %s", sk)
	}

	// The wrapped key survives underneath the prefix
	if strings.TrimPrefix(lk, "tenant:123:") != inner.LayoutKey("hash123", "graphviz:dot") {
		t.Error("ScopedKeyer should not alter the inner key")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.LayoutKey("h", "fp")
	if !strings.HasPrefix(key, "prefix:layout:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Port 1 is never a Redis server; the constructor must fail its ping.
	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("NewRedisCache should fail when the server is unreachable")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("error should name the address: %v", err)
	}
}
