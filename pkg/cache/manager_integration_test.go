//go:build integration

package cache

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer starts a Redis container and returns a client
func setupRedisContainer(t *testing.T) (*redis.Client, func()) {
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

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func TestManager_Integration_RoundTrip(t *testing.T) {
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	manager := NewManager(client, time.Minute)
	ctx := context.Background()

	key := CacheKey{
		Endpoint: "/paginate/professors/ratings",
		QueryParams: url.Values{
			"tid":        {"12345"},
			"filter":     {""},
			"courseCode": {""},
			"page":       {"1"},
		},
	}
	body := []byte(`{"remaining":0,"ratings":[{"id":1}]}`)

	if err := manager.Store(ctx, key, body, nil); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, err := manager.Lookup(ctx, key, nil)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("body = %s, want %s", got, body)
	}

	ttl, err := client.TTL(ctx, key.String()).Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("redis TTL = %v, want (0, 1m]", ttl)
	}
}

func TestManager_Integration_Expiry(t *testing.T) {
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	manager := NewManager(client, 1*time.Second)
	ctx := context.Background()
	key := CacheKey{Endpoint: "/filter/professor/", QueryParams: url.Values{"sid": {"100"}}}

	if err := manager.Store(ctx, key, []byte("{}"), nil); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	time.Sleep(1500 * time.Millisecond)

	if _, err := manager.Lookup(ctx, key, nil); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Lookup() after expiry error = %v, want ErrCacheMiss", err)
	}
}
