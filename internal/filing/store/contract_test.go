package store_test

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/suite"

	"pscfiling/internal/filing/models"
	"pscfiling/internal/filing/store"
	"pscfiling/pkg/platform/sentinel"
	"pscfiling/pkg/testutil"
)

// ContractSuite holds the behaviour every backend must share. Backend suites
// embed it and set newStore.
type ContractSuite struct {
	suite.Suite
	newStore func() store.Store
	store    store.Store
	ctx      context.Context
}

func (s *ContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func (s *ContractSuite) TestCreateAndFind() {
	for _, pscType := range models.PscTypes {
		s.Run(pscType.String(), func() {
			f := testutil.NewFilingBuilder(pscType).Build()
			s.Require().NoError(s.store.Create(s.ctx, f))

			got, err := s.store.FindByID(s.ctx, pscType.Variant(), f.Common().ID)
			s.Require().NoError(err)
			s.Equal(f.Common().ID, got.Common().ID)
			s.Equal(pscType, got.Common().PscType)
			s.Equal(f.Variant(), got.Variant())
			s.Equal("2022-10-05", got.Common().CeasedOn.String())
		})
	}
}

func (s *ContractSuite) TestFindMissing() {
	_, err := s.store.FindByID(s.ctx, models.VariantIndividual, "does-not-exist")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ContractSuite) TestCollectionsAreSeparate() {
	f := testutil.NewFilingBuilder(models.PscTypeIndividual).Build()
	s.Require().NoError(s.store.Create(s.ctx, f))

	_, err := s.store.FindByID(s.ctx, models.VariantWithIdentification, f.Common().ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ContractSuite) TestCreateDuplicate() {
	f := testutil.NewFilingBuilder(models.PscTypeLegalPerson).Build()
	s.Require().NoError(s.store.Create(s.ctx, f))

	s.ErrorIs(s.store.Create(s.ctx, f), sentinel.ErrConflict)
}

func (s *ContractSuite) TestConditionalUpdate() {
	f := testutil.NewFilingBuilder(models.PscTypeIndividual).WithEtag("etag-1").Individual()
	s.Require().NoError(s.store.Create(s.ctx, f))

	s.Run("matching etag wins", func() {
		f.Etag = "etag-2"
		f.NaturesOfControl = []string{"ownership-of-shares-25-to-50-percent"}
		f.UpdatedAt = f.UpdatedAt.Add(time.Hour)
		s.Require().NoError(s.store.Update(s.ctx, f, "etag-1"))

		got, err := s.store.FindByID(s.ctx, models.VariantIndividual, f.ID)
		s.Require().NoError(err)
		s.Equal("etag-2", got.Common().Etag)
		s.Equal([]string{"ownership-of-shares-25-to-50-percent"}, got.Common().NaturesOfControl)
	})

	s.Run("stale etag conflicts", func() {
		f.Etag = "etag-3"
		s.ErrorIs(s.store.Update(s.ctx, f, "etag-1"), sentinel.ErrConflict)

		got, err := s.store.FindByID(s.ctx, models.VariantIndividual, f.ID)
		s.Require().NoError(err)
		s.Equal("etag-2", got.Common().Etag)
	})

	s.Run("missing filing is not found", func() {
		other := testutil.NewFilingBuilder(models.PscTypeIndividual).Build()
		s.ErrorIs(s.store.Update(s.ctx, other, "etag-0"), sentinel.ErrNotFound)
	})
}

func (s *ContractSuite) TestConcurrentUpdatesOneWinner() {
	f := testutil.NewFilingBuilder(models.PscTypeCorporateEntity).WithEtag("base").WithIdentification()
	s.Require().NoError(s.store.Create(s.ctx, f))

	result := testutil.RunConcurrent(10, func(i int) error {
		next := *f
		next.Etag = fmt.Sprintf("etag-%d", i)
		return s.store.Update(s.ctx, &next, "base")
	})

	s.Equal(int32(1), result.Successes)
	s.Equal(int32(9), result.Conflicts)
	s.Zero(result.Errors)
}
