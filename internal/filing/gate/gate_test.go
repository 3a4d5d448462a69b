package gate

//go:generate mockgen -source=gate.go -destination=mocks/mocks.go -package=mocks TransactionGetter,CompanyProfileGetter

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pscfiling/internal/clients"
	"pscfiling/internal/filing/gate/mocks"
	"pscfiling/internal/filing/metrics"
	"pscfiling/internal/filing/models"
	"pscfiling/internal/platform/config"
	"pscfiling/pkg/platform/httputil"
	"pscfiling/pkg/platform/middleware/auth"
	"pscfiling/pkg/testutil"
)

type GateSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	transactions *mocks.MockTransactionGetter
	profiles     *mocks.MockCompanyProfileGetter
	metrics      *metrics.Metrics
	router       chi.Router
	reached      bool
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.transactions = mocks.NewMockTransactionGetter(s.ctrl)
	s.profiles = mocks.NewMockCompanyProfileGetter(s.ctrl)
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	s.reached = false

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := New(s.transactions, s.profiles, config.DefaultRules(), WithLogger(logger), WithMetrics(s.metrics))

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := TransactionFrom(r.Context())
		s.True(ok, "handler should see the loaded transaction")
		s.reached = true
		w.WriteHeader(http.StatusCreated)
	})

	s.router = chi.NewRouter()
	s.router.Use(auth.RequirePassthroughToken(logger))
	s.router.With(g.OpenTransaction, g.EligibleCompany).Post("/transactions/{transactionId}/psc", final)
	s.router.With(g.OpenTransaction).Patch("/transactions/{transactionId}/psc/{id}", final)
}

func (s *GateSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *GateSuite) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(auth.HeaderAccessToken, "token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *GateSuite) errorList(rec *httptest.ResponseRecorder) httputil.ErrorList {
	var body httputil.ErrorList
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *GateSuite) eligibleCompany() *models.CompanyProfile {
	return &models.CompanyProfile{CompanyNumber: testutil.TestIDs.CompanyNumber, Type: "ltd", CompanyStatus: "active"}
}

func (s *GateSuite) expectTransaction(tx models.Transaction) {
	s.transactions.EXPECT().GetTransaction(gomock.Any(), tx.ID, "token").Return(&tx, nil)
}

func (s *GateSuite) TestCreateAdmitted() {
	tx := testutil.OpenTransaction()
	s.expectTransaction(tx)
	s.profiles.EXPECT().GetCompanyProfile(gomock.Any(), tx, "token").Return(s.eligibleCompany(), nil)

	rec := s.do(http.MethodPost, "/transactions/"+tx.ID+"/psc")

	s.Equal(http.StatusCreated, rec.Code)
	s.True(s.reached)
}

func (s *GateSuite) TestClosedTransaction() {
	s.Run("create", func() {
		tx := testutil.OpenTransaction()
		tx.Status = "closed"
		s.expectTransaction(tx)

		rec := s.do(http.MethodPost, "/transactions/"+tx.ID+"/psc")

		s.Equal(http.StatusConflict, rec.Code)
		body := s.errorList(rec)
		s.Require().Len(body.Errors, 1)
		s.Equal("Transaction "+tx.ID+" is not open", body.Errors[0].Error)
		s.Equal("$", body.Errors[0].Location)
		s.Equal("json-path", body.Errors[0].LocationType)
		s.Equal("ch:validation", body.Errors[0].Type)
		s.False(s.reached)
	})

	s.Run("patch", func() {
		tx := testutil.OpenTransaction()
		tx.Status = "closed pending payment"
		s.expectTransaction(tx)

		rec := s.do(http.MethodPatch, "/transactions/"+tx.ID+"/psc/abc")

		s.Equal(http.StatusConflict, rec.Code)
		s.False(s.reached)
	})

	s.Equal(float64(2), promtest.ToFloat64(s.metrics.GateRejections.WithLabelValues(ReasonTransactionClosed)))
}

func (s *GateSuite) TestIneligibleCompany() {
	tx := testutil.OpenTransaction()
	s.expectTransaction(tx)
	profile := &models.CompanyProfile{Type: "registered-society-non-jurisdictional", CompanyStatus: "dissolved", HasSuperSecurePscs: true}
	s.profiles.EXPECT().GetCompanyProfile(gomock.Any(), tx, "token").Return(profile, nil)

	rec := s.do(http.MethodPost, "/transactions/"+tx.ID+"/psc")

	s.Equal(http.StatusConflict, rec.Code)
	body := s.errorList(rec)
	s.Require().Len(body.Errors, 3)
	s.Equal("Company has super secure PSCs and cannot file this form", body.Errors[0].Error)
	s.Contains(body.Errors[1].Error, "registered-society-non-jurisdictional")
	s.Contains(body.Errors[2].Error, "dissolved")
	s.False(s.reached)
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.GateRejections.WithLabelValues(ReasonSuperSecure)))
}

func (s *GateSuite) TestCheckCompanyStatuses() {
	g := New(nil, nil, config.DefaultRules())
	for status, admitted := range map[string]bool{
		"active":           true,
		"liquidation":      true,
		"dissolved":        false,
		"converted-closed": false,
	} {
		s.Run(status, func() {
			_, violations := g.CheckCompany(&models.CompanyProfile{Type: "ltd", CompanyStatus: status})
			s.Equal(admitted, len(violations) == 0)
		})
	}
}

func (s *GateSuite) TestUpstreamFailures() {
	s.Run("transaction not found", func() {
		s.transactions.EXPECT().GetTransaction(gomock.Any(), "missing", "token").
			Return(nil, clients.NewServiceError(clients.ErrorNotFound, "transactions-api", "not found", 404, nil))

		rec := s.do(http.MethodPatch, "/transactions/missing/psc/abc")

		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("company profile unavailable", func() {
		tx := testutil.OpenTransaction()
		s.expectTransaction(tx)
		s.profiles.EXPECT().GetCompanyProfile(gomock.Any(), tx, "token").
			Return(nil, clients.NewServiceError(clients.ErrorUnavailable, "company-profile-api", "circuit open", 0, nil))

		rec := s.do(http.MethodPost, "/transactions/"+tx.ID+"/psc")

		s.Equal(http.StatusBadGateway, rec.Code)
	})

	s.False(s.reached)
}
