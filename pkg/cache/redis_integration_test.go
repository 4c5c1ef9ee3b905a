//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container and returns a client.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	cleanup := func() {
		_ = client.Close()
		_ = redisContainer.Terminate(ctx)
	}
	return client, cleanup
}

func TestRedisStore_RoundTrip(t *testing.T) {
	client, cleanup := setupRedis(t)
	defer cleanup()

	store := NewRedisStore(client, 0)
	ctx := context.Background()

	entry := &Entry{Key: "user:octocat", Value: []byte(`{"login":"octocat"}`), InsertedAt: time.Now().UTC()}
	if err := store.Set(ctx, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, "user:octocat")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got.Value) != string(entry.Value) {
		t.Errorf("Value = %s, want %s", got.Value, entry.Value)
	}

	if _, err := store.Get(ctx, "user:ghost"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(missing) error = %v, want ErrCacheMiss", err)
	}
}

func TestRedisStore_KeysAndClear(t *testing.T) {
	client, cleanup := setupRedis(t)
	defer cleanup()

	store := NewRedisStore(client, 0)
	ctx := context.Background()

	seed := []string{"user:octocat", "repos:octocat", "user:torvalds"}
	for _, key := range seed {
		if err := store.Set(ctx, &Entry{Key: key, Value: []byte(`{}`), InsertedAt: time.Now()}); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != len(seed) {
		t.Errorf("Keys() = %v, want %d keys", keys, len(seed))
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	keys, err = store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() after Clear error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Keys() after Clear = %v, want none", keys)
	}
}

func TestRedisStore_CacheReadThrough(t *testing.T) {
	client, cleanup := setupRedis(t)
	defer cleanup()

	c := New(NewRedisStore(client, 0), testLogger())
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`{"login":"octocat"}`), nil
	}

	for i := 0; i < 3; i++ {
		value, err := c.GetOrFetch(ctx, Key{Kind: "user", Subject: "octocat"}, fetch)
		if err != nil {
			t.Fatalf("GetOrFetch() error = %v", err)
		}
		if string(value) != `{"login":"octocat"}` {
			t.Errorf("value = %s", value)
		}
	}
	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1 (Redis-backed hits)", calls)
	}
}
