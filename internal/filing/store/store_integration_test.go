//go:build integration

package store_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"pscfiling/internal/filing/models"
	"pscfiling/internal/filing/store"
	"pscfiling/pkg/platform/sentinel"
	"pscfiling/pkg/testutil"
	"pscfiling/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	ContractSuite
	postgres *containers.PostgresContainer
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.newStore = func() store.Store { return store.NewPostgres(s.postgres.DB) }
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateFilings(s.T().Context()))
	s.ContractSuite.SetupTest()
}

func (s *PostgresStoreSuite) TestRowTagMismatchIsInvalidState() {
	f := testutil.NewFilingBuilder(models.PscTypeCorporateEntity).Build()
	s.Require().NoError(s.store.Create(s.ctx, f))

	_, err := s.postgres.DB.ExecContext(s.ctx,
		`UPDATE psc_with_identification_filings SET psc_type = 'legal-person' WHERE id = $1`, f.Common().ID)
	s.Require().NoError(err)

	_, err = s.store.FindByID(s.ctx, models.VariantWithIdentification, f.Common().ID)
	s.ErrorIs(err, sentinel.ErrInvalidState)
}

type RedisStoreSuite struct {
	ContractSuite
	redis *containers.RedisContainer
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.newStore = func() store.Store { return store.NewRedis(s.redis.Client) }
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.Client.FlushDB(s.T().Context()).Err())
	s.ContractSuite.SetupTest()
}

func (s *RedisStoreSuite) TestDocumentUnderVariantKey() {
	f := testutil.NewFilingBuilder(models.PscTypeIndividual).Build()
	s.Require().NoError(s.store.Create(s.ctx, f))

	n, err := s.redis.Client.Exists(s.ctx, store.Key(models.VariantIndividual, f.Common().ID)).Result()
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}
