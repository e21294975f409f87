//go:build integration

// Package containers starts throwaway backing services for integration
// tests. Each helper terminates its container when the test ends.
package containers

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// Redis is a running Redis container with a connected client.
type Redis struct {
	URL    string
	Client *redis.Client
}

// StartRedis runs redis:7-alpine for the duration of t.
func StartRedis(t *testing.T) *Redis {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse redis url %q: %v", url, err)
	}
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}
	return &Redis{URL: url, Client: client}
}

// Reset drops every key so tests sharing a container start clean.
func (r *Redis) Reset(ctx context.Context) error {
	return r.Client.FlushDB(ctx).Err()
}
