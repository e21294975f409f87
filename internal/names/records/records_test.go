package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"pns/internal/names/models"
	"pns/internal/names/ports"
	"pns/internal/names/store/memory"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
)

const year = models.SecondsPerYear

var (
	alice = id.MustParseAddress("00a1b2c3d4e5f60718293a4b5c6d7e8f9012345678")
	bob   = id.MustParseAddress("0100000000000000000000000000000000000000b0")
)

type RecordsSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memory.Store
	policy models.Policy
	now    int64
}

func TestRecordsSuite(t *testing.T) {
	suite.Run(t, new(RecordsSuite))
}

func (s *RecordsSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.policy = models.DefaultPolicy()
	s.policy.MaxCustomRecords = 2
	s.now = 1_700_000_000

	s.Require().NoError(s.store.RunInTx(s.ctx, func(ctx context.Context, st ports.State) error {
		if err := st.SaveDomain(ctx, &models.Domain{Name: "partisia", Owner: alice, MintedAt: s.now, ExpiresAt: s.now + year}); err != nil {
			return err
		}
		return st.SaveDomain(ctx, &models.Domain{Name: "blog.partisia", Owner: bob, Parent: "partisia", MintedAt: s.now, ExpiresAt: s.now + year})
	}))
}

func (s *RecordsSuite) inTx(fn func(r *Records) error) error {
	return s.store.RunInTx(s.ctx, func(ctx context.Context, st ports.State) error {
		return fn(New(st, s.policy))
	})
}

func (s *RecordsSuite) set(name string, class models.RecordClass, data string, caller id.Address, now int64) error {
	return s.inTx(func(r *Records) error {
		_, err := r.Set(s.ctx, name, class, []byte(data), caller, now)
		return err
	})
}

func (s *RecordsSuite) del(name string, class models.RecordClass, caller id.Address) error {
	return s.inTx(func(r *Records) error {
		return r.Delete(s.ctx, name, class, caller)
	})
}

func (s *RecordsSuite) get(name string, class models.RecordClass) (string, error) {
	var rec *models.Record
	err := s.inTx(func(r *Records) error {
		var err error
		rec, err = r.Get(s.ctx, name, class)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(rec.Data), nil
}

func (s *RecordsSuite) requireCode(err error, code dErrors.Code) {
	s.Require().Error(err)
	s.Equal(code, dErrors.CodeOf(err), err.Error())
}

func (s *RecordsSuite) TestSetAndGet() {
	s.Run("owner writes and anyone reads", func() {
		s.Require().NoError(s.set("partisia", models.ClassWallet, "w1", alice, s.now))
		s.Require().NoError(s.set("partisia", models.ClassWallet, "w2", alice, s.now))
		data, err := s.get("partisia", models.ClassWallet)
		s.Require().NoError(err)
		s.Equal("w2", data)
	})

	s.Run("absent record is not found", func() {
		_, err := s.get("partisia", models.ClassBio)
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("absent domain is not minted", func() {
		s.requireCode(s.set("ghost", models.ClassWallet, "x", alice, s.now), dErrors.CodeDomainNotMinted)
		_, err := s.get("ghost", models.ClassWallet)
		s.requireCode(err, dErrors.CodeDomainNotMinted)
	})

	s.Run("expired domain rejects writes but still resolves", func() {
		s.requireCode(s.set("partisia", models.ClassWallet, "late", alice, s.now+year), dErrors.CodeDomainExpired)
		data, err := s.get("partisia", models.ClassWallet)
		s.Require().NoError(err)
		s.Equal("w2", data)
	})

	s.Run("oversized data is rejected", func() {
		big := make([]byte, s.policy.MaxRecordLength+1)
		s.requireCode(s.set("partisia", models.ClassBio, string(big), alice, s.now), dErrors.CodeRecordDataTooLong)
		s.Require().NoError(s.set("partisia", models.ClassBio, string(big[:s.policy.MaxRecordLength]), alice, s.now))
	})
}

func (s *RecordsSuite) TestNonOwnerAlwaysUnauthorized() {
	for _, now := range []int64{s.now, s.now + 2*year} {
		s.requireCode(s.set("partisia", models.ClassWallet, "x", bob, now), dErrors.CodeUnauthorized)
		s.requireCode(s.del("partisia", models.ClassWallet, bob), dErrors.CodeUnauthorized)
	}
}

func (s *RecordsSuite) TestCustomRecordCap() {
	s.Require().NoError(s.set("partisia", models.CustomClass("a"), "1", alice, s.now))
	s.Require().NoError(s.set("partisia", models.CustomClass("b"), "2", alice, s.now))

	s.Run("cap plus one fails", func() {
		s.requireCode(s.set("partisia", models.CustomClass("c"), "3", alice, s.now), dErrors.CodeMaxCustomRecords)
	})

	s.Run("overwriting an existing custom key is allowed at the cap", func() {
		s.Require().NoError(s.set("partisia", models.CustomClass("a"), "1b", alice, s.now))
	})

	s.Run("well-known classes do not count", func() {
		s.Require().NoError(s.set("partisia", models.ClassEmail, "a@b.c", alice, s.now))
	})

	s.Run("deleting frees a slot", func() {
		s.Require().NoError(s.del("partisia", models.CustomClass("b"), alice))
		s.Require().NoError(s.set("partisia", models.CustomClass("c"), "3", alice, s.now))
	})
}

func (s *RecordsSuite) TestDelete() {
	s.Run("missing record fails", func() {
		s.requireCode(s.del("partisia", models.ClassAvatar, alice), dErrors.CodeRecordNotMinted)
	})

	s.Run("owner deletes an existing record", func() {
		s.Require().NoError(s.set("partisia", models.ClassAvatar, "img", alice, s.now))
		s.Require().NoError(s.del("partisia", models.ClassAvatar, alice))
		_, err := s.get("partisia", models.ClassAvatar)
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("absent domain fails", func() {
		s.requireCode(s.del("ghost", models.ClassAvatar, alice), dErrors.CodeDomainNotMinted)
	})
}

func (s *RecordsSuite) TestInheritedRecords() {
	s.Require().NoError(s.set("partisia", models.ClassURI, "https://partisia.example", alice, s.now))

	s.Run("child cannot write or delete an inherited class", func() {
		s.requireCode(s.set("blog.partisia", models.ClassURI, "https://blog.example", bob, s.now), dErrors.CodeParentRecord)
		s.requireCode(s.del("blog.partisia", models.ClassURI, bob), dErrors.CodeParentRecord)
	})

	s.Run("child resolves inherited class from parent", func() {
		data, err := s.get("blog.partisia", models.ClassURI)
		s.Require().NoError(err)
		s.Equal("https://partisia.example", data)
	})

	s.Run("child owns its other classes", func() {
		s.Require().NoError(s.set("blog.partisia", models.ClassWallet, "bw", bob, s.now))
		data, err := s.get("blog.partisia", models.ClassWallet)
		s.Require().NoError(err)
		s.Equal("bw", data)
	})
}
