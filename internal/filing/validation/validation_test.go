package validation

//go:generate mockgen -source=rule.go -destination=mocks/mocks.go -package=mocks PscLookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pscfiling/internal/clients"
	"pscfiling/internal/filing/metrics"
	"pscfiling/internal/filing/models"
	"pscfiling/internal/filing/validation/mocks"
	"pscfiling/internal/platform/config"
)

type ChainSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	lookup     *mocks.MockPscLookup
	metrics    *metrics.Metrics
	msgs       config.Messages
	dispatcher *Dispatcher
	tx         models.Transaction
}

func TestChainSuite(t *testing.T) {
	suite.Run(t, new(ChainSuite))
}

func (s *ChainSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.lookup = mocks.NewMockPscLookup(s.ctrl)
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	s.msgs = config.DefaultRules().Messages
	counting := NewCountingLookup(s.lookup, s.metrics)
	s.dispatcher = NewDispatcher(NewChains(counting, s.msgs), WithMetrics(s.metrics))
	s.tx = models.Transaction{ID: "178417-909116-690426", CompanyNumber: "01234567", Status: models.TransactionStatusOpen}
}

func (s *ChainSuite) TearDownTest() {
	s.ctrl.Finish()
}

func ptr[T any](v T) *T { return &v }

func date(s string) *models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func validFiling() *models.IndividualFiling {
	return &models.IndividualFiling{Communal: models.Communal{
		ID:                "filing-1",
		PscType:           models.PscTypeIndividual,
		CeasedOn:          date("2022-10-05"),
		RegisterEntryDate: date("2022-10-05"),
		ReferencePscID:    ptr("12345"),
		ReferenceEtag:     ptr("6789"),
	}}
}

func activePsc() *models.PscDetails {
	return &models.PscDetails{Etag: "6789", NotifiedOn: date("2022-09-01")}
}

func (s *ChainSuite) run(f models.Filing) *Context {
	vctx := NewContext(f, s.tx, f.Common().PscType, "token")
	s.Require().NoError(s.dispatcher.Validate(context.Background(), vctx))
	return vctx
}

func (s *ChainSuite) expectLookups(times int, details *models.PscDetails, err error) {
	s.lookup.EXPECT().
		GetPscDetails(gomock.Any(), s.tx, "12345", models.PscTypeIndividual, "token").
		Return(details, err).
		Times(times)
}

func (s *ChainSuite) TestValidFiling() {
	s.expectLookups(4, activePsc(), nil)

	vctx := s.run(validFiling())

	s.True(vctx.Valid())
	s.Empty(vctx.Errors())
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.ValidationRuns.WithLabelValues("individual", "true")))
	s.Equal(float64(4), promtest.ToFloat64(s.metrics.PscLookups.WithLabelValues("found")))
}

func (s *ChainSuite) TestRequiredFields() {
	s.Run("one error per missing field and no lookup", func() {
		f := &models.IndividualFiling{Communal: models.Communal{PscType: models.PscTypeIndividual}}

		vctx := s.run(f)

		errs := vctx.Errors()
		s.Require().Len(errs, 4)
		s.Equal(FieldCeasedOn, errs[0].Field)
		s.Equal(FieldRegisterEntryDate, errs[1].Field)
		s.Equal(FieldReferencePscID, errs[2].Field)
		s.Equal(FieldReferenceEtag, errs[3].Field)
		s.Equal(s.msgs.CeasedOnRequired, errs[0].Message)
	})

	s.Run("blank reference id counts as missing", func() {
		f := validFiling()
		f.ReferencePscID = ptr("  ")

		vctx := s.run(f)

		s.Require().Len(vctx.Errors(), 1)
		s.Equal(FieldReferencePscID, vctx.Errors()[0].Field)
	})
}

func (s *ChainSuite) TestPscNotFoundStopsChain() {
	notFound := clients.NewServiceError(clients.ErrorNotFound, "psc", "not found", 404, nil)
	s.expectLookups(1, nil, notFound)

	vctx := s.run(validFiling())

	errs := vctx.Errors()
	s.Require().Len(errs, 1)
	s.Equal(FieldReferencePscID, errs[0].Field)
	s.Equal("PSC with id 12345 not found", errs[0].Message)
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.PscLookups.WithLabelValues("not_found")))
}

func (s *ChainSuite) TestEtagMismatch() {
	s.Run("reports a single error and continues", func() {
		f := validFiling()
		f.ReferenceEtag = ptr("0000")
		s.expectLookups(4, activePsc(), nil)

		vctx := s.run(f)

		errs := vctx.Errors()
		s.Require().Len(errs, 1)
		s.Equal(FieldReferenceEtag, errs[0].Field)
		s.Equal("Etag for PSC does not match latest value", errs[0].Message)
		s.Equal("0000", errs[0].RejectedValue)
	})

	s.Run("a fresh run gives the same result", func() {
		f := validFiling()
		f.ReferenceEtag = ptr("0000")
		s.expectLookups(8, activePsc(), nil)

		first := s.run(f).Errors()
		second := s.run(f).Errors()

		s.Equal(first, second)
		s.Len(second, 1)
	})
}

func (s *ChainSuite) TestDateRules() {
	s.Run("ceased on before notified on", func() {
		f := validFiling()
		f.CeasedOn = date("2022-08-01")
		f.RegisterEntryDate = date("2022-08-01")
		s.expectLookups(4, activePsc(), nil)

		errs := s.run(f).Errors()

		s.Require().Len(errs, 1)
		s.Equal(FieldCeasedOn, errs[0].Field)
		s.Contains(errs[0].Message, "(2022-09-01)")
	})

	s.Run("ceased on equal to notified on is accepted", func() {
		f := validFiling()
		f.CeasedOn = date("2022-09-01")
		s.expectLookups(4, activePsc(), nil)

		s.True(s.run(f).Valid())
	})

	s.Run("register entry before ceased on", func() {
		f := validFiling()
		f.RegisterEntryDate = date("2022-10-04")
		s.expectLookups(4, activePsc(), nil)

		errs := s.run(f).Errors()

		s.Require().Len(errs, 1)
		s.Equal(FieldRegisterEntryDate, errs[0].Field)
		s.Equal(s.msgs.RegisterEntryBeforeCeased, errs[0].Message)
	})
}

func (s *ChainSuite) TestPscAlreadyCeased() {
	details := activePsc()
	details.CeasedOn = date("2022-09-30")
	s.expectLookups(4, details, nil)

	errs := s.run(validFiling()).Errors()

	s.Require().Len(errs, 1)
	s.Equal(FieldCeasedOn, errs[0].Field)
	s.Equal(s.msgs.PscAlreadyCeased, errs[0].Message)
}

func (s *ChainSuite) TestErrorsAccumulateInChainOrder() {
	details := &models.PscDetails{Etag: "other", NotifiedOn: date("2022-11-01"), CeasedOn: date("2022-10-01")}
	s.expectLookups(4, details, nil)
	f := validFiling()
	f.RegisterEntryDate = date("2022-10-01")

	errs := s.run(f).Errors()

	s.Require().Len(errs, 4)
	s.Equal(FieldReferenceEtag, errs[0].Field)
	s.Equal(FieldCeasedOn, errs[1].Field)
	s.Equal(FieldRegisterEntryDate, errs[2].Field)
	s.Equal(FieldCeasedOn, errs[3].Field)
}

func (s *ChainSuite) TestWithIdentificationTypesUseTheChain() {
	for _, pscType := range []models.PscType{models.PscTypeCorporateEntity, models.PscTypeLegalPerson} {
		s.Run(pscType.String(), func() {
			f := &models.WithIdentificationFiling{Communal: validFiling().Communal}
			f.PscType = pscType
			s.lookup.EXPECT().
				GetPscDetails(gomock.Any(), s.tx, "12345", pscType, "token").
				Return(activePsc(), nil).
				Times(4)

			s.True(s.run(f).Valid())
		})
	}
}

func (s *ChainSuite) TestUnsupportedPscType() {
	vctx := NewContext(validFiling(), s.tx, models.PscType("super-secure"), "token")

	err := s.dispatcher.Validate(context.Background(), vctx)

	s.ErrorIs(err, ErrUnsupportedPscType)
	s.Empty(vctx.Errors())
}

func (s *ChainSuite) TestLookupFailurePropagates() {
	boom := clients.NewServiceError(clients.ErrorUnavailable, "psc", "service unavailable", 503, errors.New("503"))
	s.expectLookups(1, nil, boom)
	vctx := NewContext(validFiling(), s.tx, models.PscTypeIndividual, "token")

	err := s.dispatcher.Validate(context.Background(), vctx)

	s.Require().Error(err)
	s.Contains(err.Error(), "rule psc_exists")
	s.Equal(clients.ErrorUnavailable, clients.CategoryOf(err))
	s.Empty(vctx.Errors())
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.PscLookups.WithLabelValues("error")))
}

func TestFill(t *testing.T) {
	got := fill("PSC with id {id} not found", "id", "abc")
	if got != "PSC with id abc not found" {
		t.Fatalf("fill() = %q", got)
	}
	if fill("no placeholders") != "no placeholders" {
		t.Fatal("fill without pairs changed the message")
	}
}

type PatchValidatorSuite struct {
	suite.Suite
	validators *PatchValidators
	now        time.Time
	msgs       config.Messages
}

func TestPatchValidatorSuite(t *testing.T) {
	suite.Run(t, new(PatchValidatorSuite))
}

func (s *PatchValidatorSuite) SetupTest() {
	s.msgs = config.DefaultRules().Messages
	s.validators = NewPatchValidators(s.msgs)
	s.now = time.Date(2022, 10, 10, 15, 0, 0, 0, time.UTC)
}

func (s *PatchValidatorSuite) validate(f models.Filing) []models.FieldError {
	return s.validators.For(f).Validate(f, f, s.now)
}

func (s *PatchValidatorSuite) validatePatch(stored, merged models.Filing) []models.FieldError {
	return s.validators.For(merged).Validate(stored, merged, s.now)
}

func (s *PatchValidatorSuite) TestValidIndividual() {
	s.Empty(s.validate(validFiling()))
}

func (s *PatchValidatorSuite) TestDatesInFuture() {
	f := validFiling()
	f.CeasedOn = date("2022-10-11")
	f.RegisterEntryDate = date("2022-10-12")

	errs := s.validate(f)

	s.Require().Len(errs, 2)
	s.Equal(FieldCeasedOn, errs[0].Field)
	s.Equal(s.msgs.DateInFuture, errs[0].Message)
	s.Equal(FieldRegisterEntryDate, errs[1].Field)
}

func (s *PatchValidatorSuite) TestTodayIsNotInFuture() {
	f := validFiling()
	f.CeasedOn = date("2022-10-10")
	f.RegisterEntryDate = date("2022-10-10")

	s.Empty(s.validate(f))
}

func (s *PatchValidatorSuite) TestRemovedReferenceFields() {
	s.Run("removing stored references is rejected", func() {
		merged := validFiling()
		merged.ReferencePscID = nil
		merged.ReferenceEtag = nil

		errs := s.validatePatch(validFiling(), merged)

		s.Require().Len(errs, 2)
		s.Equal("reference_psc_id must not be removed", errs[0].Message)
		s.Equal("reference_etag must not be removed", errs[1].Message)
	})

	s.Run("references never supplied stay absent", func() {
		stored := validFiling()
		stored.ReferencePscID = nil
		stored.ReferenceEtag = nil
		merged := validFiling()
		merged.ReferencePscID = nil
		merged.ReferenceEtag = nil
		merged.CeasedOn = date("2022-10-01")

		s.Empty(s.validatePatch(stored, merged))
	})
}

func (s *PatchValidatorSuite) TestResidentialAddressConflict() {
	f := validFiling()
	f.IsResidentialAddressSameAsServiceAddress = ptr(true)
	f.ResidentialAddress = &models.Address{Premises: "1"}

	errs := s.validate(f)

	s.Require().Len(errs, 1)
	s.Equal("residential_address", errs[0].Field)
}

func (s *PatchValidatorSuite) TestNaturesOfControlLimit() {
	f := validFiling()
	f.NaturesOfControl = make([]string, 33)
	for i := range f.NaturesOfControl {
		f.NaturesOfControl[i] = "ownership-of-shares-75-to-100-percent"
	}

	errs := s.validate(f)

	s.Require().NotEmpty(errs)
	s.Equal("natures_of_control", errs[0].Field)
}

func (s *PatchValidatorSuite) TestWithIdentification() {
	s.Run("valid", func() {
		f := &models.WithIdentificationFiling{
			Communal:       validFiling().Communal,
			Name:           "Acme Holdings Ltd",
			Identification: &models.Identification{CountryRegistered: "England"},
		}
		f.PscType = models.PscTypeCorporateEntity

		s.Empty(s.validate(f))
	})

	s.Run("blank country registered", func() {
		stored := &models.WithIdentificationFiling{
			Communal:       validFiling().Communal,
			Identification: &models.Identification{CountryRegistered: "England", RegistrationNumber: "123"},
		}
		stored.PscType = models.PscTypeLegalPerson
		f := &models.WithIdentificationFiling{
			Communal:       validFiling().Communal,
			Identification: &models.Identification{RegistrationNumber: "123"},
		}
		f.PscType = models.PscTypeLegalPerson

		errs := s.validatePatch(stored, f)

		s.Require().Len(errs, 1)
		s.Equal("identification.country_registered", errs[0].Field)
	})
}
