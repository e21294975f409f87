package airdrop

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
)

const entitlementKeyPrefix = "pns:airdrop:"

// RedisStore keeps entitlements as marker keys shared by every registry
// instance.
type RedisStore struct {
	client        *redis.Client
	checkDuration prometheus.Histogram
}

// NewRedisStore registers its latency histogram on reg.
func NewRedisStore(client *redis.Client, reg prometheus.Registerer) *RedisStore {
	return &RedisStore{
		client: client,
		checkDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "pns_airdrop_entitlement_check_duration_ms",
			Help:    "Latency of airdrop entitlement checks in milliseconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}),
	}
}

func (s *RedisStore) HasEntitlement(ctx context.Context, addr id.Address) (bool, error) {
	start := time.Now()
	defer func() {
		s.checkDuration.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	n, err := s.client.Exists(ctx, entitlementKey(addr)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ConsumeEntitlement deletes the marker. DEL reports how many keys it
// removed, so two concurrent consumers cannot both succeed.
func (s *RedisStore) ConsumeEntitlement(ctx context.Context, addr id.Address) error {
	n, err := s.client.Del(ctx, entitlementKey(addr)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return dErrors.New(dErrors.CodeAirdropNotValid, "no airdrop entitlement")
	}
	return nil
}

func (s *RedisStore) GrantEntitlement(ctx context.Context, addr id.Address) error {
	return s.client.Set(ctx, entitlementKey(addr), "1", 0).Err()
}

func entitlementKey(addr id.Address) string {
	return entitlementKeyPrefix + addr.String()
}
