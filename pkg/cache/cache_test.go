package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if n, err := c.Clear(ctx); n != 0 || err != nil {
		t.Errorf("Clear() = %d, %v", n, err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "chart", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, hit, err := c.Get(ctx, "chart")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get(chart) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "chart"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "chart"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "chart"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "a", []byte("1"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "b", []byte("2"), 0); err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("a")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
	if _, hit, _ := c.Get(ctx, "b"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("Get(corrupt) = hit %v, err %v; want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir not empty after Clear(): %d entries", len(entries))
	}

	missing := &FileCache{dir: filepath.Join(t.TempDir(), "nope"), now: time.Now}
	if n, err := missing.Clear(ctx); n != 0 || err != nil {
		t.Errorf("Clear(missing dir) = %d, %v", n, err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}

	j1, err := HashJSON(map[string]float64{"a": 1})
	if err != nil {
		t.Fatalf("HashJSON() error: %v", err)
	}
	j2, _ := HashJSON(map[string]float64{"a": 1.5})
	if j1 == j2 {
		t.Error("HashJSON should depend on values")
	}
	if _, err := HashJSON(make(chan int)); err == nil {
		t.Error("HashJSON(chan) should fail")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := ArtifactKeyOpts{Type: "chart", Format: "svg", Width: 800, Height: 600}
	key := k.ArtifactKey("hash123", base)
	if !strings.HasPrefix(key, "artifact:") {
		t.Errorf("ArtifactKey() = %q, want artifact: prefix", key)
	}
	if key != k.ArtifactKey("hash123", base) {
		t.Error("ArtifactKey should be deterministic")
	}

	variants := []ArtifactKeyOpts{
		{Type: "schematic", Format: "svg", Width: 800, Height: 600},
		{Type: "chart", Format: "png", Width: 800, Height: 600},
		{Type: "chart", Format: "svg", Width: 1024, Height: 600},
		{Type: "chart", Format: "svg", Width: 800, Height: 600, Title: "Reach 2"},
	}
	for _, v := range variants {
		if k.ArtifactKey("hash123", v) == key {
			t.Errorf("ArtifactKey(%+v) should differ from the base key", v)
		}
	}
	if k.ArtifactKey("hash456", base) == key {
		t.Error("different series hashes should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	opts := ArtifactKeyOpts{Type: "chart", Format: "svg"}
	scoped := NewScopedKeyer(NewDefaultKeyer(), "wey:")
	want := "wey:" + NewDefaultKeyer().ArtifactKey("h", opts)
	if got := scoped.ArtifactKey("h", opts); got != want {
		t.Errorf("ArtifactKey() = %q, want %q", got, want)
	}

	if got := NewScopedKeyer(nil, "p:").ArtifactKey("h", opts); !strings.HasPrefix(got, "p:artifact:") {
		t.Errorf("nil inner keyer: got %q", got)
	}
}

func TestRedisCacheNamespace(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
	defer rdb.Close()

	c := newRedisCache(rdb, "")
	if got := c.key("artifact:x"); got != DefaultRedisNamespace+"artifact:x" {
		t.Errorf("key() = %q", got)
	}
	if c.Addr() != "localhost:6379" {
		t.Errorf("Addr() = %q", c.Addr())
	}

	c = newRedisCache(rdb, "custom:")
	if got := c.key("k"); got != "custom:k" {
		t.Errorf("key() = %q, want custom:k", got)
	}
}

func TestNewRedisCacheErrors(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisOptions{}); err == nil {
		t.Error("NewRedisCache without address should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	if err == nil {
		t.Fatal("NewRedisCache with cancelled context should fail")
	}
	if !errors.Is(err, context.Canceled) && !errors.Is(err, ErrNetwork) {
		t.Errorf("NewRedisCache() error = %v", err)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("Retryable should unwrap to the original error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	ctx := context.Background()
	plain := errors.New("plain")

	tests := []struct {
		name      string
		failUntil int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success first try", 0, nil, 1, false},
		{"non-retryable stops", 99, plain, 1, true},
		{"retryable recovers", 2, Retryable(ErrNetwork), 2, false},
		{"retryable exhausts", 99, Retryable(ErrNetwork), 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls < tt.failUntil {
					return tt.err
				}
				if tt.failUntil == 99 {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("RetryWithBackoff() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
