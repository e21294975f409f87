//go:build integration

package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pns/internal/platform/config"
	"pns/pkg/testutil/containers"
)

func TestNewConnects(t *testing.T) {
	rc := containers.StartRedis(t)
	c, err := New(context.Background(), config.RedisConfig{URL: rc.URL, PoolSize: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Health(context.Background()))
}
