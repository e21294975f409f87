package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pns/internal/names/fee"
	"pns/internal/names/models"
	"pns/internal/names/ports"
	"pns/internal/names/ports/mocks"
	"pns/internal/names/store/memory"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
)

// =============================================================================
// Mint Gate Test Suite
// =============================================================================
// The gate's check order is observable through the error a caller gets, so
// each test arranges several failing conditions at once and asserts which
// one wins.

var (
	caller   = id.MustParseAddress("00a1b2c3d4e5f60718293a4b5c6d7e8f9012345678")
	token    = id.MustParseAddress("0200000000000000000000000000000000000000aa")
	receiver = id.MustParseAddress("0000000000000000000000000000000000000000cc")
)

type GateSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	airdrops *mocks.MockAirdropStore
	store    *memory.Store
	policy   models.Policy
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.airdrops = mocks.NewMockAirdropStore(s.ctrl)
	s.store = memory.New()
	s.policy = models.DefaultPolicy()
	s.policy.MintCap = 2
}

func (s *GateSuite) TearDownTest() {
	s.ctrl.Finish()
}

type arrangement struct {
	paused      bool
	whitelist   bool
	listed      bool
	minted      int
	paymentInfo bool
	freeTiers   bool
}

// arrange replaces the registry state.
func (s *GateSuite) arrange(a arrangement) {
	s.store = memory.New()
	s.Require().NoError(s.store.RunInTx(s.ctx, func(ctx context.Context, st ports.State) error {
		settings := models.DefaultSettings()
		settings.Paused = a.paused
		settings.WhitelistPhase = a.whitelist
		if a.freeTiers {
			settings.FeeTiers = fee.Tiers{}
		}
		if a.paymentInfo {
			settings.PaymentToken = token
			settings.PaymentReceiver = receiver
		}
		if err := st.SaveSettings(ctx, settings); err != nil {
			return err
		}
		if a.listed {
			if err := st.AddToWhitelist(ctx, caller); err != nil {
				return err
			}
		}
		for i := 0; i < a.minted; i++ {
			if _, err := st.IncrementMintCount(ctx, caller); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (s *GateSuite) admit(name string, years uint32) (*Admission, error) {
	var adm *Admission
	err := s.store.RunInTx(s.ctx, func(ctx context.Context, st ports.State) error {
		var err error
		adm, err = New(st, s.airdrops, s.policy).Admit(ctx, caller, name, years)
		return err
	})
	return adm, err
}

func (s *GateSuite) requireCode(err error, code dErrors.Code) {
	s.Require().Error(err)
	s.Equal(code, dErrors.CodeOf(err), err.Error())
}

func (s *GateSuite) TestCheckOrder() {
	s.Run("pause wins over every other failure", func() {
		s.arrange(arrangement{paused: true, whitelist: true, minted: 2})
		_, err := s.admit("name", 0)
		s.requireCode(err, dErrors.CodeContractDisabled)
	})

	s.Run("whitelist wins over cap and fee", func() {
		s.arrange(arrangement{whitelist: true, minted: 2})
		s.airdrops.EXPECT().HasEntitlement(gomock.Any(), caller).Return(false, nil)
		_, err := s.admit("name", 0)
		s.requireCode(err, dErrors.CodeUserNotWhitelisted)
	})

	s.Run("cap wins over fee", func() {
		s.arrange(arrangement{whitelist: true, listed: true, minted: 2})
		s.airdrops.EXPECT().HasEntitlement(gomock.Any(), caller).Return(false, nil)
		_, err := s.admit("name", 0)
		s.requireCode(err, dErrors.CodeMintCountLimitReached)
	})

	s.Run("years are checked before payment info", func() {
		s.arrange(arrangement{})
		s.airdrops.EXPECT().HasEntitlement(gomock.Any(), caller).Return(false, nil)
		_, err := s.admit("name", 0)
		s.requireCode(err, dErrors.CodeInvalidSubscriptionYears)
	})

	s.Run("missing token then missing receiver", func() {
		s.arrange(arrangement{})
		s.airdrops.EXPECT().HasEntitlement(gomock.Any(), caller).Return(false, nil)
		_, err := s.admit("name", 1)
		s.requireCode(err, dErrors.CodePaymentTokenNotSet)

		s.Require().NoError(s.store.RunInTx(s.ctx, func(ctx context.Context, st ports.State) error {
			settings, err := st.LoadSettings(ctx)
			if err != nil {
				return err
			}
			settings.PaymentToken = token
			return st.SaveSettings(ctx, settings)
		}))
		s.airdrops.EXPECT().HasEntitlement(gomock.Any(), caller).Return(false, nil)
		_, err = s.admit("name", 1)
		s.requireCode(err, dErrors.CodePaymentReceiverNotSet)
	})
}

func (s *GateSuite) TestAdmit() {
	s.Run("quotes the fee when every check passes", func() {
		s.arrange(arrangement{paymentInfo: true, minted: 1})
		s.airdrops.EXPECT().HasEntitlement(gomock.Any(), caller).Return(false, nil)
		adm, err := s.admit("nam", 3)
		s.Require().NoError(err)
		s.False(adm.Airdrop)
		s.Equal(uint64(300), adm.Fee)
		s.Equal(token, adm.Settings.PaymentToken)
	})

	s.Run("airdrop entitlement bypasses whitelist and waives the fee", func() {
		s.arrange(arrangement{whitelist: true})
		s.airdrops.EXPECT().HasEntitlement(gomock.Any(), caller).Return(true, nil)
		adm, err := s.admit("name", 1)
		s.Require().NoError(err)
		s.True(adm.Airdrop)
		s.Zero(adm.Fee)
	})

	s.Run("zero fee needs no payment info", func() {
		s.arrange(arrangement{freeTiers: true})
		s.airdrops.EXPECT().HasEntitlement(gomock.Any(), caller).Return(false, nil)
		adm, err := s.admit("name", 1)
		s.Require().NoError(err)
		s.Zero(adm.Fee)
		s.False(adm.Airdrop)
	})

	s.Run("zero fee still checks years", func() {
		s.arrange(arrangement{freeTiers: true})
		s.airdrops.EXPECT().HasEntitlement(gomock.Any(), caller).Return(false, nil)
		_, err := s.admit("name", 0)
		s.requireCode(err, dErrors.CodeInvalidSubscriptionYears)
	})

	s.Run("airdrop does not bypass the cap", func() {
		s.arrange(arrangement{whitelist: true, minted: 2})
		s.airdrops.EXPECT().HasEntitlement(gomock.Any(), caller).Return(true, nil)
		_, err := s.admit("name", 1)
		s.requireCode(err, dErrors.CodeMintCountLimitReached)
	})

	s.Run("zero cap admits any count", func() {
		s.policy.MintCap = 0
		defer func() { s.policy.MintCap = 2 }()
		s.arrange(arrangement{paymentInfo: true, minted: 5})
		s.airdrops.EXPECT().HasEntitlement(gomock.Any(), caller).Return(false, nil)
		_, err := s.admit("name", 1)
		s.Require().NoError(err)
	})

	s.Run("nil airdrop store means no entitlements", func() {
		s.arrange(arrangement{paymentInfo: true})
		err := s.store.RunInTx(s.ctx, func(ctx context.Context, st ports.State) error {
			adm, err := New(st, nil, s.policy).Admit(ctx, caller, "name", 1)
			if err == nil {
				s.False(adm.Airdrop)
			}
			return err
		})
		s.Require().NoError(err)
	})
}

func (s *GateSuite) TestCommit() {
	commit := func() (uint32, error) {
		var count uint32
		err := s.store.RunInTx(s.ctx, func(ctx context.Context, st ports.State) error {
			var err error
			count, err = New(st, s.airdrops, s.policy).Commit(ctx, caller)
			return err
		})
		return count, err
	}

	count, err := commit()
	s.Require().NoError(err)
	s.Equal(uint32(1), count)

	count, err = commit()
	s.Require().NoError(err)
	s.Equal(uint32(2), count)
}

func (s *GateSuite) TestConsumeAirdrop() {
	consume := func(airdrops ports.AirdropStore) error {
		return s.store.RunInTx(s.ctx, func(ctx context.Context, st ports.State) error {
			return New(st, airdrops, s.policy).ConsumeAirdrop(ctx, caller)
		})
	}

	s.Run("entitlement is spent", func() {
		s.airdrops.EXPECT().ConsumeEntitlement(gomock.Any(), caller).Return(nil)
		s.Require().NoError(consume(s.airdrops))
	})

	s.Run("spent entitlement is reported as such", func() {
		s.airdrops.EXPECT().ConsumeEntitlement(gomock.Any(), caller).
			Return(dErrors.New(dErrors.CodeAirdropNotValid, "no entitlement"))
		s.requireCode(consume(s.airdrops), dErrors.CodeAirdropNotValid)
	})

	s.Run("store outage is internal", func() {
		s.airdrops.EXPECT().ConsumeEntitlement(gomock.Any(), caller).Return(errors.New("redis down"))
		s.requireCode(consume(s.airdrops), dErrors.CodeInternal)
	})

	s.Run("no airdrop store", func() {
		s.requireCode(consume(nil), dErrors.CodeAirdropNotValid)
	})

	s.Require().NoError(s.store.View(s.ctx, func(ctx context.Context, st ports.State) error {
		n, err := st.MintCount(ctx, caller)
		s.Zero(n, "consuming an airdrop never counts a mint")
		return err
	}))
}
