package patch

//go:generate mockgen -source=engine.go -destination=mocks/mocks.go -package=mocks Repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pscfiling/internal/filing/metrics"
	"pscfiling/internal/filing/models"
	"pscfiling/internal/filing/patch/mocks"
	"pscfiling/internal/filing/store"
	"pscfiling/internal/filing/validation"
	"pscfiling/internal/platform/config"
	"pscfiling/pkg/platform/sentinel"
	"pscfiling/pkg/testutil"
)

func TestRetry(t *testing.T) {
	t.Run("stops after maxRetries conflicting attempts", func(t *testing.T) {
		calls := 0
		_, err := Retry(3, func(n int) (Result, error) {
			calls++
			assert.Equal(t, calls, n)
			return Result{}, sentinel.ErrConflict
		})
		assert.ErrorIs(t, err, ErrRetriesExhausted)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns the first non-conflict answer", func(t *testing.T) {
		calls := 0
		res, err := Retry(5, func(n int) (Result, error) {
			calls++
			if n < 2 {
				return Result{}, sentinel.ErrConflict
			}
			return RetrievalFailure("gone"), nil
		})
		assert.NoError(t, err)
		assert.Equal(t, OutcomeRetrievalFailure, res.Outcome)
		assert.Equal(t, 2, calls)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		_, err := Retry(5, func(int) (Result, error) {
			calls++
			return Result{}, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("a bound below one still makes one attempt", func(t *testing.T) {
		calls := 0
		_, err := Retry(0, func(int) (Result, error) {
			calls++
			return Result{}, sentinel.ErrConflict
		})
		assert.ErrorIs(t, err, ErrRetriesExhausted)
		assert.Equal(t, 1, calls)
	})
}

type EngineSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.InMemoryStore
	metrics *metrics.Metrics
	engine  *Engine
	now     time.Time
	filing  *models.IndividualFiling
	target  Target
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	s.now = time.Date(2022, 10, 10, 12, 0, 0, 0, time.UTC)
	validators := validation.NewPatchValidators(config.DefaultRules().Messages)
	s.engine = New(s.store, validators, 3,
		WithClock(func() time.Time { return s.now }),
		WithMetrics(s.metrics),
	)
	s.filing = testutil.NewFilingBuilder(models.PscTypeIndividual).WithEtag("etag-0").Individual()
	s.Require().NoError(s.store.Create(s.ctx, s.filing))
	s.target = Target{TransactionID: s.filing.TransactionID, PscType: models.PscTypeIndividual, FilingID: s.filing.ID}
}

func (s *EngineSuite) stored() *models.IndividualFiling {
	f, err := s.store.FindByID(s.ctx, models.VariantIndividual, s.filing.ID)
	s.Require().NoError(err)
	return f.(*models.IndividualFiling)
}

func (s *EngineSuite) TestSuccessfulPatch() {
	res, err := s.engine.Apply(s.ctx, s.target, []byte(`{"ceased_on":"2022-10-01","natures_of_control":["right-to-appoint-and-remove-directors"]}`))

	s.Require().NoError(err)
	s.Equal(OutcomeSuccess, res.Outcome)

	got := s.stored()
	s.Equal("2022-10-01", got.CeasedOn.String())
	s.Equal([]string{"right-to-appoint-and-remove-directors"}, got.NaturesOfControl)
	s.NotEqual("etag-0", got.Etag)
	s.Len(got.Etag, 40)
	s.Equal(s.now, got.UpdatedAt)
	s.Equal(s.filing.CreatedAt, got.CreatedAt)
	s.Equal("Bloggs", got.NameElements.Surname)
	s.Equal(got.Etag, res.Filing.Common().Etag)
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.FilingsPatched.WithLabelValues("individual", "success")))
}

func (s *EngineSuite) TestFilingWithoutReferencesCanBePatched() {
	bare := testutil.NewFilingBuilder(models.PscTypeIndividual).WithoutReferences().Individual()
	s.Require().NoError(s.store.Create(s.ctx, bare))
	target := Target{TransactionID: bare.TransactionID, PscType: models.PscTypeIndividual, FilingID: bare.ID}

	res, err := s.engine.Apply(s.ctx, target, []byte(`{"ceased_on":"2022-10-01"}`))

	s.Require().NoError(err)
	s.Equal(OutcomeSuccess, res.Outcome, "errors: %v", res.Errors)
	s.Nil(res.Filing.Common().ReferencePscID)
	s.Equal("2022-10-01", res.Filing.Common().CeasedOn.String())
}

func (s *EngineSuite) TestSystemFieldsAreRestored() {
	doc := `{
		"id": "hijacked",
		"etag": "client-etag",
		"kind": "something-else",
		"psc_type": "legal-person",
		"transaction_id": "other-transaction",
		"created_at": "2000-01-01T00:00:00Z",
		"links": {"self": "/elsewhere"}
	}`

	res, err := s.engine.Apply(s.ctx, s.target, []byte(doc))

	s.Require().NoError(err)
	s.Require().Equal(OutcomeSuccess, res.Outcome)
	got := s.stored()
	s.Equal(s.filing.ID, got.ID)
	s.Equal(models.KindCessation, got.Kind)
	s.Equal(models.PscTypeIndividual, got.PscType)
	s.Equal(s.filing.TransactionID, got.TransactionID)
	s.Equal(s.filing.Links, got.Links)
	s.Equal(s.filing.CreatedAt, got.CreatedAt)
	s.NotEqual("client-etag", got.Etag)
}

func (s *EngineSuite) TestSamePatchTwiceGivesSameData() {
	doc := []byte(`{"register_entry_date":"2022-10-07","name_elements":{"forename":"Joseph"}}`)

	_, err := s.engine.Apply(s.ctx, s.target, doc)
	s.Require().NoError(err)
	first := s.stored()

	_, err = s.engine.Apply(s.ctx, s.target, doc)
	s.Require().NoError(err)
	second := s.stored()

	s.NotEqual(first.Etag, second.Etag)
	first.Etag, second.Etag = "", ""
	s.Equal(first, second)
	s.Equal("Joseph", second.NameElements.Forename)
	s.Equal("Bloggs", second.NameElements.Surname)
}

func (s *EngineSuite) TestValidationFailureDoesNotPersist() {
	s.Run("date in the future", func() {
		res, err := s.engine.Apply(s.ctx, s.target, []byte(`{"ceased_on":"2022-10-11"}`))

		s.Require().NoError(err)
		s.Equal(OutcomeValidationFailure, res.Outcome)
		s.Require().Len(res.Errors, 1)
		s.Equal("ceased_on", res.Errors[0].Field)
		s.Equal("etag-0", s.stored().Etag)
	})

	s.Run("reference field removed", func() {
		res, err := s.engine.Apply(s.ctx, s.target, []byte(`{"reference_etag":null}`))

		s.Require().NoError(err)
		s.Equal(OutcomeValidationFailure, res.Outcome)
		s.Require().Len(res.Errors, 1)
		s.Equal("reference_etag must not be removed", res.Errors[0].Message)
		s.Equal("6789", s.stored().ReferenceEtagValue())
	})
}

func (s *EngineSuite) TestRetrievalFailure() {
	s.Run("unknown filing", func() {
		target := s.target
		target.FilingID = "missing"

		res, err := s.engine.Apply(s.ctx, target, []byte(`{}`))

		s.Require().NoError(err)
		s.Equal(OutcomeRetrievalFailure, res.Outcome)
		s.Contains(res.Reason, "missing")
	})

	s.Run("filing from another transaction", func() {
		target := s.target
		target.TransactionID = "000000-000000-000000"

		res, err := s.engine.Apply(s.ctx, target, []byte(`{}`))

		s.Require().NoError(err)
		s.Equal(OutcomeRetrievalFailure, res.Outcome)
	})
}

func (s *EngineSuite) TestMergeFailure() {
	for name, doc := range map[string]string{
		"not json":         `{"ceased_on":`,
		"bad date":         `{"ceased_on":"05/10/2022"}`,
		"wrong field type": `{"natures_of_control":"one"}`,
	} {
		s.Run(name, func() {
			_, err := s.engine.Apply(s.ctx, s.target, []byte(doc))

			s.ErrorIs(err, ErrMergeFailed)
			s.Equal("etag-0", s.stored().Etag)
		})
	}
}

type EngineConflictSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	repo    *mocks.MockRepository
	metrics *metrics.Metrics
	engine  *Engine
	filing  models.Filing
	target  Target
}

func TestEngineConflictSuite(t *testing.T) {
	suite.Run(t, new(EngineConflictSuite))
}

func (s *EngineConflictSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = mocks.NewMockRepository(s.ctrl)
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	validators := validation.NewPatchValidators(config.DefaultRules().Messages)
	s.engine = New(s.repo, validators, 3,
		WithClock(func() time.Time { return time.Date(2022, 10, 10, 0, 0, 0, 0, time.UTC) }),
		WithMetrics(s.metrics),
	)
	s.filing = testutil.NewFilingBuilder(models.PscTypeCorporateEntity).WithEtag("etag-0").Build()
	c := s.filing.Common()
	s.target = Target{TransactionID: c.TransactionID, PscType: c.PscType, FilingID: c.ID}
}

func (s *EngineConflictSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *EngineConflictSuite) TestExhaustion() {
	s.repo.EXPECT().FindByID(gomock.Any(), models.VariantWithIdentification, s.target.FilingID).Return(s.filing, nil).Times(3)
	s.repo.EXPECT().Update(gomock.Any(), gomock.Any(), "etag-0").Return(sentinel.ErrConflict).Times(3)

	_, err := s.engine.Apply(context.Background(), s.target, []byte(`{"name":"Renamed Ltd"}`))

	s.ErrorIs(err, ErrRetriesExhausted)
	s.Equal(float64(2), promtest.ToFloat64(s.metrics.PatchConflicts))
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.FilingsPatched.WithLabelValues("corporate-entity", "retries_exhausted")))
}

func (s *EngineConflictSuite) TestConflictThenSuccess() {
	refreshed, err := models.Clone(s.filing)
	s.Require().NoError(err)
	refreshed.Common().Etag = "etag-1"

	gomock.InOrder(
		s.repo.EXPECT().FindByID(gomock.Any(), models.VariantWithIdentification, s.target.FilingID).Return(s.filing, nil),
		s.repo.EXPECT().Update(gomock.Any(), gomock.Any(), "etag-0").Return(sentinel.ErrConflict),
		s.repo.EXPECT().FindByID(gomock.Any(), models.VariantWithIdentification, s.target.FilingID).Return(refreshed, nil),
		s.repo.EXPECT().Update(gomock.Any(), gomock.Any(), "etag-1").DoAndReturn(
			func(_ context.Context, f models.Filing, _ string) error {
				s.Equal("Renamed Ltd", f.(*models.WithIdentificationFiling).Name)
				return nil
			}),
	)

	res, err := s.engine.Apply(context.Background(), s.target, []byte(`{"name":"Renamed Ltd"}`))

	s.Require().NoError(err)
	s.Equal(OutcomeSuccess, res.Outcome)
}

func (s *EngineConflictSuite) TestStoreFailureIsNotRetried() {
	boom := errors.New("connection refused")
	s.repo.EXPECT().FindByID(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := s.engine.Apply(context.Background(), s.target, []byte(`{}`))

	s.ErrorIs(err, boom)
}

func (s *EngineConflictSuite) TestFilingDeletedBetweenReadAndWrite() {
	s.repo.EXPECT().FindByID(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.filing, nil)
	s.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(sentinel.ErrNotFound)

	res, err := s.engine.Apply(context.Background(), s.target, []byte(`{}`))

	s.Require().NoError(err)
	s.Equal(OutcomeRetrievalFailure, res.Outcome)
}
