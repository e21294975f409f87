package handler

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	jwttoken "pns/internal/jwt_token"
	"pns/internal/names/adapters/access"
	"pns/internal/names/adapters/airdrop"
	"pns/internal/names/adapters/nft"
	"pns/internal/names/adapters/payment"
	"pns/internal/names/fee"
	"pns/internal/names/models"
	"pns/internal/names/service"
	"pns/internal/names/store/memory"
	id "pns/pkg/domain"
	"pns/pkg/platform/middleware/request"
	"pns/pkg/platform/middleware/requesttime"
	"pns/pkg/testutil"
)

var (
	alice    = id.MustParseAddress("00a1b2c3d4e5f60718293a4b5c6d7e8f9012345678")
	bob      = id.MustParseAddress("0100000000000000000000000000000000000000b0")
	admin    = id.MustParseAddress("0300000000000000000000000000000000000000ad")
	operator = id.MustParseAddress("0300000000000000000000000000000000000000ee")
	token    = id.MustParseAddress("0200000000000000000000000000000000000000aa")
	receiver = id.MustParseAddress("0000000000000000000000000000000000000000cc")

	requestNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

type HandlerSuite struct {
	suite.Suite
	router http.Handler
	jwt    *jwttoken.JWTService
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

// SetupTest wires a real service over the in-memory store. Names of five or
// more characters are free; shorter names cost a fee.
func (s *HandlerSuite) SetupTest() {
	store := memory.New(memory.WithSettings(models.Settings{
		PaymentToken:    token,
		PaymentReceiver: receiver,
		FeeTiers:        fee.Tiers{200, 150, 100, 1_500_000, 0},
	}))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.New(store,
		payment.NewInMemoryRail(token),
		nft.NewInMemoryLedger(),
		access.NewStaticAdmins(admin),
		models.DefaultPolicy(),
		service.WithLogger(logger),
		service.WithRailOperator(operator),
		service.WithAirdropStore(airdrop.NewInMemoryStore()),
	)
	s.Require().NoError(err)

	s.jwt = jwttoken.NewJWTService("test-signing-key", "pns", "pns-api")
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.WithClock(func() time.Time { return requestNow }))
	New(svc, logger, jwttoken.NewJWTServiceAdapter(s.jwt), 6).Register(r)
	s.router = r
}

func (s *HandlerSuite) do(method, path string, as id.Address, body any) *httptest.ResponseRecorder {
	req := testutil.NewJSONRequest(s.T(), method, path, body)
	if !as.IsNil() {
		tok, err := s.jwt.GenerateAccessToken(as, time.Hour)
		s.Require().NoError(err)
		testutil.WithBearer(req, tok)
	}
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(v))
}

func (s *HandlerSuite) TestMintAndRead() {
	s.Run("mutations require a token", func() {
		rec := s.do(http.MethodPost, "/domains", "", map[string]any{"name": "partisia", "years": 1})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("free name is minted immediately", func() {
		rec := s.do(http.MethodPost, "/domains", alice, map[string]any{"name": "Partisia", "years": 2})
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

		var resp DomainResponse
		s.decode(rec, &resp)
		s.Equal("partisia", resp.Name)
		s.Equal(alice.String(), resp.Owner)
		s.Equal(requestNow.Unix()+2*models.SecondsPerYear, resp.ExpiresAt)
	})

	s.Run("minting a taken name conflicts", func() {
		rec := s.do(http.MethodPost, "/domains", bob, map[string]any{"name": "partisia", "years": 1})
		s.Equal(http.StatusConflict, rec.Code)
		s.Contains(rec.Body.String(), `"error":"minted"`)
	})

	s.Run("domain lookup is public", func() {
		rec := s.do(http.MethodGet, "/domains/partisia", "", nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp DomainResponse
		s.decode(rec, &resp)
		s.Equal(string(models.StatusActive), resp.Status)
	})

	s.Run("unknown domain is not found", func() {
		rec := s.do(http.MethodGet, "/domains/missing", "", nil)
		s.Equal(http.StatusNotFound, rec.Code)
		s.Contains(rec.Body.String(), "domain_not_minted")
	})

	s.Run("mint count reflects the mint", func() {
		rec := s.do(http.MethodGet, "/accounts/"+alice.String()+"/mint-count", "", nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp MintCountResponse
		s.decode(rec, &resp)
		s.Equal(uint32(1), resp.MintCount)
	})

	s.Run("malformed body is rejected", func() {
		rec := s.do(http.MethodPost, "/domains", alice, map[string]any{"name": "other", "years": 1, "bogus": true})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestPaidMint() {
	rec := s.do(http.MethodPost, "/domains", alice, map[string]any{"name": "mpc", "years": 1})
	s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())

	var pending PaymentResponse
	s.decode(rec, &pending)
	s.NotEmpty(pending.ID)
	s.Equal(uint64(100), pending.Fee)
	s.Equal("0.0001", pending.TokenAmount)
	s.Equal(token.String(), pending.Token)

	s.Run("nothing is minted before confirmation", func() {
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/domains/mpc", "", nil).Code)
	})

	s.Run("only the rail operator may confirm", func() {
		rec := s.do(http.MethodPost, "/payments/"+pending.ID+"/confirm", alice, map[string]any{"success": true})
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("confirmation mints the name", func() {
		rec := s.do(http.MethodPost, "/payments/"+pending.ID+"/confirm", operator, map[string]any{"success": true})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		var resp ConfirmPaymentResponse
		s.decode(rec, &resp)
		s.Equal(string(models.PaymentSucceeded), resp.Status)
		s.Require().NotNil(resp.Domain)
		s.Equal(alice.String(), resp.Domain.Owner)
	})

	s.Run("a payment is confirmed at most once", func() {
		rec := s.do(http.MethodPost, "/payments/"+pending.ID+"/confirm", operator, map[string]any{"success": true})
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("success flag is required", func() {
		rec := s.do(http.MethodPost, "/payments/whatever/confirm", operator, map[string]any{})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})
}

func (s *HandlerSuite) TestRenewAndTransfer() {
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/domains", alice, map[string]any{"name": "partisia", "years": 1}).Code)

	s.Run("free renewal commits", func() {
		rec := s.do(http.MethodPost, "/domains/partisia/renew", bob, map[string]any{"years": 1})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		var resp DomainResponse
		s.decode(rec, &resp)
		s.Equal(requestNow.Unix()+2*models.SecondsPerYear, resp.ExpiresAt)
	})

	s.Run("years out of range", func() {
		rec := s.do(http.MethodPost, "/domains/partisia/renew", alice, map[string]any{"years": 0})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		s.Contains(rec.Body.String(), "invalid_subscription_years")
	})

	s.Run("non-owner cannot transfer", func() {
		rec := s.do(http.MethodPost, "/domains/partisia/transfer", bob, map[string]any{"new_owner": bob.String()})
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("owner transfers", func() {
		rec := s.do(http.MethodPost, "/domains/partisia/transfer", alice, map[string]any{"new_owner": bob.String()})
		s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

		var resp DomainResponse
		s.decode(s.do(http.MethodGet, "/domains/partisia", "", nil), &resp)
		s.Equal(bob.String(), resp.Owner)
	})

	s.Run("invalid new owner", func() {
		rec := s.do(http.MethodPost, "/domains/partisia/transfer", bob, map[string]any{"new_owner": "nope"})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})
}

func (s *HandlerSuite) TestRecords() {
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/domains", alice, map[string]any{"name": "partisia", "years": 1}).Code)
	data := base64.StdEncoding.EncodeToString([]byte("https://partisia.blockchain"))

	s.Run("owner sets a record", func() {
		rec := s.do(http.MethodPut, "/domains/partisia/records/uri", alice, map[string]any{"data": data})
		s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())
	})

	s.Run("record is readable", func() {
		rec := s.do(http.MethodGet, "/domains/partisia/records/uri", "", nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp RecordResponse
		s.decode(rec, &resp)
		s.Equal([]byte("https://partisia.blockchain"), resp.Data)
	})

	s.Run("other callers cannot write", func() {
		rec := s.do(http.MethodPut, "/domains/partisia/records/bio", bob, map[string]any{"data": data})
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("unknown class", func() {
		rec := s.do(http.MethodPut, "/domains/partisia/records/phone", alice, map[string]any{"data": data})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		s.Contains(rec.Body.String(), "invalid_record_class")
	})

	s.Run("owner deletes the record", func() {
		s.Require().Equal(http.StatusNoContent, s.do(http.MethodDelete, "/domains/partisia/records/uri", alice, nil).Code)
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/domains/partisia/records/uri", "", nil).Code)
	})
}

func (s *HandlerSuite) TestQuote() {
	rec := s.do(http.MethodGet, "/fees/quote?name=abcd&years=2", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp QuoteResponse
	s.decode(rec, &resp)
	s.Equal(uint64(3_000_000), resp.Fee)
	s.Equal("3", resp.TokenAmount)

	s.Equal(http.StatusUnprocessableEntity, s.do(http.MethodGet, "/fees/quote?name=abcd&years=x", "", nil).Code)
}

func (s *HandlerSuite) TestAdmin() {
	s.Run("non-admin is rejected", func() {
		rec := s.do(http.MethodPut, "/admin/paused", alice, map[string]any{"enabled": true})
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("pause blocks mints", func() {
		s.Require().Equal(http.StatusNoContent, s.do(http.MethodPut, "/admin/paused", admin, map[string]any{"enabled": true}).Code)
		rec := s.do(http.MethodPost, "/domains", alice, map[string]any{"name": "partisia", "years": 1})
		s.Equal(http.StatusServiceUnavailable, rec.Code)
		s.Require().Equal(http.StatusNoContent, s.do(http.MethodPut, "/admin/paused", admin, map[string]any{"enabled": false}).Code)
	})

	s.Run("whitelist phase admits listed callers only", func() {
		s.Require().Equal(http.StatusNoContent, s.do(http.MethodPut, "/admin/whitelist-phase", admin, map[string]any{"enabled": true}).Code)

		rec := s.do(http.MethodPost, "/admin/whitelist", admin, map[string]any{"addresses": []string{" " + alice.String() + " ", alice.String()}})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		var added WhitelistResponse
		s.decode(rec, &added)
		s.Equal([]string{alice.String()}, added.Added)

		s.Equal(http.StatusCreated, s.do(http.MethodPost, "/domains", alice, map[string]any{"name": "partisia", "years": 1}).Code)
		s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/domains", bob, map[string]any{"name": "bobname", "years": 1}).Code)

		s.Require().Equal(http.StatusNoContent, s.do(http.MethodDelete, "/admin/whitelist/"+alice.String(), admin, nil).Code)
		s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/domains", alice, map[string]any{"name": "another", "years": 1}).Code)
	})

	s.Run("airdrop bypasses the whitelist", func() {
		s.Require().Equal(http.StatusNoContent, s.do(http.MethodPost, "/admin/airdrops", admin, map[string]any{"address": bob.String()}).Code)
		s.Equal(http.StatusCreated, s.do(http.MethodPost, "/domains", bob, map[string]any{"name": "bob", "years": 1}).Code)
	})

	s.Run("fee tiers need five entries", func() {
		rec := s.do(http.MethodPut, "/admin/fee-tiers", admin, map[string]any{"tiers": []uint64{1, 2, 3}})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)

		rec = s.do(http.MethodPut, "/admin/fee-tiers", admin, map[string]any{"tiers": []uint64{5, 4, 3, 2, 1}})
		s.Require().Equal(http.StatusNoContent, rec.Code)

		var q QuoteResponse
		s.decode(s.do(http.MethodGet, "/fees/quote?name=abcdef&years=1", "", nil), &q)
		s.Equal(uint64(1), q.Fee)
	})

	s.Run("payment info is validated", func() {
		rec := s.do(http.MethodPut, "/admin/payment-info", admin, map[string]any{"token": token.String(), "receiver": "bad"})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		rec = s.do(http.MethodPut, "/admin/payment-info", admin, map[string]any{"token": token.String(), "receiver": receiver.String()})
		s.Equal(http.StatusNoContent, rec.Code)
	})
}
