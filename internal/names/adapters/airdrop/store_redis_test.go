package airdrop

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStoreRegistersOnGivenRegistry(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })

	reg := prometheus.NewRegistry()
	NewRedisStore(client, reg)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "pns_airdrop_entitlement_check_duration_ms")

	// A second store on a fresh registry does not collide with the first.
	assert.NotPanics(t, func() { NewRedisStore(client, prometheus.NewRegistry()) })
}
