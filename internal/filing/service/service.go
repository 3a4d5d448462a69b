package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"pscfiling/internal/clients"
	"pscfiling/internal/filing/filingdata"
	"pscfiling/internal/filing/metrics"
	"pscfiling/internal/filing/models"
	"pscfiling/internal/filing/patch"
	"pscfiling/internal/filing/validation"
	dErrors "pscfiling/pkg/domain-errors"
	audit "pscfiling/pkg/platform/audit"
	"pscfiling/pkg/platform/middleware/requesttime"
	"pscfiling/pkg/platform/sentinel"
)

// Store defines the persistence the service needs.
// Error Contract:
// - FindByID returns sentinel.ErrNotFound when no filing exists in the variant's collection
// - Create returns sentinel.ErrConflict when the id is taken
type Store interface {
	Create(ctx context.Context, f models.Filing) error
	FindByID(ctx context.Context, variant models.Variant, id string) (models.Filing, error)
}

// Transactions reads and updates transactions in the transactions API.
type Transactions interface {
	GetTransaction(ctx context.Context, id, token string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx models.Transaction, token string) error
}

// Validator runs the rule chain for a validation context.
type Validator interface {
	Validate(ctx context.Context, vctx *validation.Context) error
}

// Patcher applies merge patches with retry.
type Patcher interface {
	Apply(ctx context.Context, target patch.Target, doc []byte) (patch.Result, error)
}

// AuditLogger records filing lifecycle events.
type AuditLogger interface {
	Log(ctx context.Context, event audit.AuditEvent, subject audit.Subject, extra ...any)
}

// ValidationStatus is the outcome of running the rule chain on a stored filing.
type ValidationStatus struct {
	IsValid bool
	Errors  []models.FieldError
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditor(a AuditLogger) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithBasePath sets the prefix of filing self links.
func WithBasePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.basePath = path
		}
	}
}

// Service owns the filing lifecycle: create, review, patch, validate and
// project for the filing generator.
type Service struct {
	store        Store
	transactions Transactions
	psc          validation.PscLookup
	validator    Validator
	patcher      Patcher
	projector    *filingdata.Projector
	auditor      AuditLogger
	metrics      *metrics.Metrics
	logger       *slog.Logger
	basePath     string
}

func New(
	store Store,
	transactions Transactions,
	psc validation.PscLookup,
	validator Validator,
	patcher Patcher,
	projector *filingdata.Projector,
	opts ...Option,
) *Service {
	svc := &Service{
		store:        store,
		transactions: transactions,
		psc:          psc,
		validator:    validator,
		patcher:      patcher,
		projector:    projector,
		logger:       slog.Default(),
		basePath:     "/transactions",
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.auditor == nil {
		svc.auditor = audit.NewLogger(svc.logger, nil)
	}
	return svc
}

// Create stores a new filing for tx and links it into the transaction's
// resources. System fields on f are overwritten.
func (s *Service) Create(ctx context.Context, tx models.Transaction, f models.Filing, token string) (models.Filing, error) {
	now := requesttime.Now(ctx)
	c := f.Common()
	c.ID = models.NewFilingID()
	c.Kind = models.KindCessation
	c.TransactionID = tx.ID
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Links = models.NewLinks(s.basePath, tx.ID, c.PscType, c.ID)
	c.Etag = models.NextEtag("")

	if err := s.store.Create(ctx, f); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store filing")
	}
	if s.metrics != nil {
		s.metrics.FilingsCreated.WithLabelValues(c.PscType.String()).Inc()
	}
	s.auditor.Log(ctx, audit.EventFilingCreated, subjectOf(c))

	if err := s.linkToTransaction(ctx, tx, c, token); err != nil {
		s.logger.ErrorContext(ctx, "filing stored but transaction not updated",
			"error", err,
			"filing_id", c.ID,
			"transaction_id", tx.ID,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to link filing to transaction")
	}
	return f, nil
}

func (s *Service) linkToTransaction(ctx context.Context, tx models.Transaction, c *models.Communal, token string) error {
	resources := make(map[string]models.Resource, len(tx.Resources)+1)
	maps.Copy(resources, tx.Resources)
	resources[c.Links.Self] = models.Resource{
		Kind: models.KindCessation,
		Links: map[string]string{
			"resource":          c.Links.Self,
			"validation_status": c.Links.ValidationStatus,
		},
	}
	tx.Resources = resources

	if err := s.transactions.UpdateTransaction(ctx, tx, token); err != nil {
		return fmt.Errorf("update transaction %s: %w", tx.ID, err)
	}
	s.auditor.Log(ctx, audit.EventTransactionLinked, audit.Subject{FilingID: c.ID, TransactionID: tx.ID})
	return nil
}

// Get returns a filing of pscType that belongs to transactionID.
func (s *Service) Get(ctx context.Context, transactionID string, pscType models.PscType, filingID string) (models.Filing, error) {
	f, err := s.store.FindByID(ctx, pscType.Variant(), filingID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "filing not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load filing")
	}
	c := f.Common()
	if c.TransactionID != transactionID || c.PscType != pscType {
		return nil, dErrors.New(dErrors.CodeNotFound, "filing not found")
	}
	return f, nil
}

// Patch merges doc into the filing and returns the stored result.
func (s *Service) Patch(ctx context.Context, transactionID string, pscType models.PscType, filingID string, doc []byte) (models.Filing, error) {
	res, err := s.patcher.Apply(ctx, patch.Target{TransactionID: transactionID, PscType: pscType, FilingID: filingID}, doc)
	switch {
	case errors.Is(err, patch.ErrMergeFailed):
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "patch could not be applied to filing")
	case errors.Is(err, patch.ErrRetriesExhausted):
		return nil, dErrors.Wrap(err, dErrors.CodeConflict, "filing was modified concurrently, retry the request")
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to patch filing")
	}

	switch res.Outcome {
	case patch.OutcomeRetrievalFailure:
		return nil, dErrors.New(dErrors.CodeNotFound, res.Reason)
	case patch.OutcomeValidationFailure:
		return nil, dErrors.WithViolations(dErrors.CodeValidation, res.Errors[0].Message, models.Violations(res.Errors))
	}

	c := res.Filing.Common()
	s.auditor.Log(ctx, audit.EventFilingUpdated, subjectOf(c))
	return res.Filing, nil
}

// ValidationStatus runs the full rule chain against the stored filing.
func (s *Service) ValidationStatus(ctx context.Context, transactionID string, pscType models.PscType, filingID, token string) (*ValidationStatus, error) {
	f, err := s.Get(ctx, transactionID, pscType, filingID)
	if err != nil {
		return nil, err
	}
	tx, err := s.loadTransaction(ctx, transactionID, token)
	if err != nil {
		return nil, err
	}

	vctx := validation.NewContext(f, *tx, pscType, token)
	if err := s.validator.Validate(ctx, vctx); err != nil {
		if errors.Is(err, validation.ErrUnsupportedPscType) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "no validation rules for psc type")
		}
		return nil, clients.ToDomainError(err, "validation could not be completed")
	}

	s.auditor.Log(ctx, audit.EventFilingValidated,
		audit.Subject{FilingID: filingID, TransactionID: transactionID, PscType: pscType.String()},
		"valid", vctx.Valid(),
	)
	return &ValidationStatus{IsValid: vctx.Valid(), Errors: vctx.Errors()}, nil
}

// FilingData projects the stored filing, enriched with current register
// details, for the filing generator.
func (s *Service) FilingData(ctx context.Context, transactionID string, pscType models.PscType, filingID, token string) ([]filingdata.FilingApi, error) {
	f, err := s.Get(ctx, transactionID, pscType, filingID)
	if err != nil {
		return nil, err
	}
	tx, err := s.loadTransaction(ctx, transactionID, token)
	if err != nil {
		return nil, err
	}

	details, err := s.psc.GetPscDetails(ctx, *tx, f.Common().ReferencePscIDValue(), pscType, token)
	if err != nil {
		if !clients.IsNotFound(err) {
			return nil, clients.ToDomainError(err, "psc details unavailable")
		}
		details = nil
	}

	projected, err := s.projector.Project(f, details)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build filing data")
	}
	if s.metrics != nil {
		s.metrics.ProjectionsServed.WithLabelValues(pscType.String()).Inc()
	}
	return []filingdata.FilingApi{projected}, nil
}

func (s *Service) loadTransaction(ctx context.Context, id, token string) (*models.Transaction, error) {
	tx, err := s.transactions.GetTransaction(ctx, id, token)
	if err != nil {
		return nil, clients.ToDomainError(err, "transaction "+id+" could not be loaded")
	}
	return tx, nil
}

func subjectOf(c *models.Communal) audit.Subject {
	return audit.Subject{
		FilingID:      c.ID,
		TransactionID: c.TransactionID,
		PscType:       c.PscType.String(),
		Etag:          c.Etag,
	}
}
