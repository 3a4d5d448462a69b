// Package gate holds the admissibility checks that run before a filing is
// created or patched. A rejected request never reaches the handler.
package gate

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pscfiling/internal/clients"
	"pscfiling/internal/filing/metrics"
	"pscfiling/internal/filing/models"
	"pscfiling/internal/platform/config"
	dErrors "pscfiling/pkg/domain-errors"
	"pscfiling/pkg/platform/httputil"
	"pscfiling/pkg/platform/middleware/auth"
	request "pscfiling/pkg/platform/middleware/request"
)

// URLParamTransactionID is the chi route parameter holding the transaction id.
const URLParamTransactionID = "transactionId"

// Rejection reasons, used as metric labels.
const (
	ReasonTransactionClosed = "transaction_closed"
	ReasonSuperSecure       = "super_secure"
	ReasonCompanyType       = "company_type"
	ReasonCompanyStatus     = "company_status"
)

type TransactionGetter interface {
	GetTransaction(ctx context.Context, id, token string) (*models.Transaction, error)
}

type CompanyProfileGetter interface {
	GetCompanyProfile(ctx context.Context, tx models.Transaction, token string) (*models.CompanyProfile, error)
}

type contextKeyTransaction struct{}

// WithTransaction stores the transaction a gate loaded so handlers need not
// fetch it again.
func WithTransaction(ctx context.Context, tx *models.Transaction) context.Context {
	return context.WithValue(ctx, contextKeyTransaction{}, tx)
}

// TransactionFrom returns the transaction loaded by a gate, if any.
func TransactionFrom(ctx context.Context) (*models.Transaction, bool) {
	tx, ok := ctx.Value(contextKeyTransaction{}).(*models.Transaction)
	return tx, ok && tx != nil
}

// Gates builds the admissibility middleware.
type Gates struct {
	transactions TransactionGetter
	profiles     CompanyProfileGetter
	rules        config.Rules
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Gates)

func WithLogger(l *slog.Logger) Option {
	return func(g *Gates) {
		g.logger = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gates) {
		g.metrics = m
	}
}

func New(transactions TransactionGetter, profiles CompanyProfileGetter, rules config.Rules, opts ...Option) *Gates {
	g := &Gates{
		transactions: transactions,
		profiles:     profiles,
		rules:        rules,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OpenTransaction loads the transaction named in the path and rejects the
// request with 409 unless it is open.
func (g *Gates) OpenTransaction(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tx, ok := g.loadTransaction(w, r)
		if !ok {
			return
		}
		if !tx.IsOpen() {
			msg := strings.ReplaceAll(g.rules.Messages.TransactionClosed, "{id}", tx.ID)
			g.reject(ctx, w, ReasonTransactionClosed, []dErrors.Violation{{Message: msg}})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithTransaction(ctx, tx)))
	})
}

// EligibleCompany rejects the request with 409 when the transaction's company
// may not file a cessation.
func (g *Gates) EligibleCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tx, ok := g.loadTransaction(w, r)
		if !ok {
			return
		}
		profile, err := g.profiles.GetCompanyProfile(ctx, *tx, auth.GetToken(ctx))
		if err != nil {
			g.logger.ErrorContext(ctx, "failed to load company profile",
				"error", err,
				"company_number", tx.CompanyNumber,
				"request_id", request.GetRequestID(ctx),
			)
			httputil.WriteError(w, clients.ToDomainError(err, "company profile unavailable"))
			return
		}
		if reason, violations := g.CheckCompany(profile); len(violations) > 0 {
			g.reject(ctx, w, reason, violations)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithTransaction(ctx, tx)))
	})
}

// CheckCompany returns one violation per eligibility failure. The reason is
// the first failure found.
func (g *Gates) CheckCompany(p *models.CompanyProfile) (string, []dErrors.Violation) {
	var (
		reason     string
		violations []dErrors.Violation
	)
	add := func(r, msg string) {
		if reason == "" {
			reason = r
		}
		violations = append(violations, dErrors.Violation{Message: msg})
	}
	msgs := g.rules.Messages
	if p.HasSuperSecurePscs {
		add(ReasonSuperSecure, msgs.CompanySuperSecure)
	}
	if !g.rules.CompanyTypeAllowed(p.Type) {
		add(ReasonCompanyType, strings.ReplaceAll(msgs.CompanyTypeNotAllowed, "{type}", p.Type))
	}
	if !g.rules.CompanyStatusAllowed(p.CompanyStatus) {
		add(ReasonCompanyStatus, strings.ReplaceAll(msgs.CompanyStatusNotAllowed, "{status}", p.CompanyStatus))
	}
	return reason, violations
}

func (g *Gates) loadTransaction(w http.ResponseWriter, r *http.Request) (*models.Transaction, bool) {
	ctx := r.Context()
	if tx, ok := TransactionFrom(ctx); ok {
		return tx, true
	}
	id := chi.URLParam(r, URLParamTransactionID)
	tx, err := g.transactions.GetTransaction(ctx, id, auth.GetToken(ctx))
	if err != nil {
		g.logger.ErrorContext(ctx, "failed to load transaction",
			"error", err,
			"transaction_id", id,
			"request_id", request.GetRequestID(ctx),
		)
		httputil.WriteError(w, clients.ToDomainError(err, "transaction "+id+" could not be loaded"))
		return nil, false
	}
	return tx, true
}

func (g *Gates) reject(ctx context.Context, w http.ResponseWriter, reason string, violations []dErrors.Violation) {
	g.logger.InfoContext(ctx, "request rejected by gate",
		"reason", reason,
		"request_id", request.GetRequestID(ctx),
	)
	if g.metrics != nil {
		g.metrics.GateRejections.WithLabelValues(reason).Inc()
	}
	httputil.WriteError(w, dErrors.WithViolations(dErrors.CodeConflict, violations[0].Message, violations))
}
