package airdrop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"pns/internal/names/ports"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
)

var holder = id.MustParseAddress("00a1b2c3d4e5f60718293a4b5c6d7e8f9012345678")

// entitlementSuite runs the same contract against every AirdropStore.
type entitlementSuite struct {
	suite.Suite
	newStore func() ports.AirdropStore
	store    ports.AirdropStore
}

func (s *entitlementSuite) SetupTest() {
	s.store = s.newStore()
}

func (s *entitlementSuite) TestLifecycle() {
	ctx := context.Background()

	ok, err := s.store.HasEntitlement(ctx, holder)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.GrantEntitlement(ctx, holder))
	s.Require().NoError(s.store.GrantEntitlement(ctx, holder), "granting twice is idempotent")

	ok, err = s.store.HasEntitlement(ctx, holder)
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.store.ConsumeEntitlement(ctx, holder))
	err = s.store.ConsumeEntitlement(ctx, holder)
	s.True(dErrors.HasCode(err, dErrors.CodeAirdropNotValid), "second consume must fail, got %v", err)

	ok, err = s.store.HasEntitlement(ctx, holder)
	s.Require().NoError(err)
	s.False(ok)
}

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &entitlementSuite{newStore: func() ports.AirdropStore { return NewInMemoryStore() }})
}
