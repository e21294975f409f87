//go:build integration

package airdrop

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"pns/internal/names/ports"
	"pns/pkg/testutil/containers"
)

func TestRedisStore(t *testing.T) {
	rdb := containers.StartRedis(t)
	suite.Run(t, &entitlementSuite{newStore: func() ports.AirdropStore {
		if err := rdb.Reset(context.Background()); err != nil {
			t.Fatalf("reset redis: %v", err)
		}
		return NewRedisStore(rdb.Client, prometheus.NewRegistry())
	}})
}
