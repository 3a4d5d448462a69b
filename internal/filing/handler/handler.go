package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pscfiling/internal/filing/filingdata"
	"pscfiling/internal/filing/gate"
	"pscfiling/internal/filing/models"
	"pscfiling/internal/filing/service"
	dErrors "pscfiling/pkg/domain-errors"
	"pscfiling/pkg/platform/httputil"
	"pscfiling/pkg/platform/middleware/auth"
	request "pscfiling/pkg/platform/middleware/request"
	limits "pscfiling/pkg/platform/validation"
)

// Route parameters.
const (
	URLParamPscType  = "pscType"
	URLParamFilingID = "filingId"
)

// Service defines the filing operations the handler exposes.
type Service interface {
	Create(ctx context.Context, tx models.Transaction, f models.Filing, token string) (models.Filing, error)
	Get(ctx context.Context, transactionID string, pscType models.PscType, filingID string) (models.Filing, error)
	Patch(ctx context.Context, transactionID string, pscType models.PscType, filingID string, doc []byte) (models.Filing, error)
	ValidationStatus(ctx context.Context, transactionID string, pscType models.PscType, filingID, token string) (*service.ValidationStatus, error)
	FilingData(ctx context.Context, transactionID string, pscType models.PscType, filingID, token string) ([]filingdata.FilingApi, error)
}

// Gatekeeper supplies the admissibility middleware for mutating routes.
type Gatekeeper interface {
	OpenTransaction(next http.Handler) http.Handler
	EligibleCompany(next http.Handler) http.Handler
}

// Handler serves the PSC cessation filing endpoints.
type Handler struct {
	filings  Service
	gates    Gatekeeper
	logger   *slog.Logger
	basePath string
}

// New creates a filing Handler. basePath is the public transactions prefix,
// normally "/transactions".
func New(filings Service, gates Gatekeeper, logger *slog.Logger, basePath string) *Handler {
	if basePath == "" {
		basePath = "/transactions"
	}
	return &Handler{
		filings:  filings,
		gates:    gates,
		logger:   logger,
		basePath: basePath,
	}
}

// Register registers the public and private filing routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route(h.basePath+"/{"+gate.URLParamTransactionID+"}/persons-with-significant-control/{"+URLParamPscType+"}", func(r chi.Router) {
		r.Use(requirePscType)
		r.With(h.gates.OpenTransaction, h.gates.EligibleCompany, request.BodyLimit(limits.MaxBodySize)).Post("/", h.handleCreate)
		r.Get("/{"+URLParamFilingID+"}", h.handleGet)
		r.With(h.gates.OpenTransaction, request.BodyLimit(limits.MaxBodySize)).Patch("/{"+URLParamFilingID+"}", h.handlePatch)
		r.Get("/{"+URLParamFilingID+"}/validation_status", h.handleValidationStatus)
	})
	r.With(requirePscType).Get(
		"/private"+h.basePath+"/{"+gate.URLParamTransactionID+"}/persons-with-significant-control/{"+URLParamPscType+"}/{"+URLParamFilingID+"}/filings",
		h.handleFilingData,
	)
}

type pscTypeKey struct{}

// requirePscType answers 404 for PSC types the service has no filing for.
func requirePscType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pscType, ok := models.ParsePscType(chi.URLParam(r, URLParamPscType))
		if !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown psc type"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), pscTypeKey{}, pscType)))
	})
}

func pscTypeFrom(ctx context.Context) models.PscType {
	t, _ := ctx.Value(pscTypeKey{}).(models.PscType)
	return t
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	pscType := pscTypeFrom(ctx)

	tx, ok := gate.TransactionFrom(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "transaction missing from context despite gate middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "transaction context error"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateFilingRequest](w, r, h.logger)
	if !ok {
		return
	}
	f, err := req.ToFiling(pscType)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid create filing request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	created, err := h.filings.Create(ctx, *tx, f, auth.GetToken(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create filing",
			"request_id", requestID,
			"transaction_id", tx.ID,
			"psc_type", pscType.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Location", created.Common().Links.Self)
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := h.filings.Get(ctx, chi.URLParam(r, gate.URLParamTransactionID), pscTypeFrom(ctx), chi.URLParam(r, URLParamFilingID))
	if err != nil {
		h.logFailure(ctx, "failed to get filing", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	doc, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read patch body",
			"request_id", requestID,
			"error", err,
		)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body too large"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	f, err := h.filings.Patch(ctx, chi.URLParam(r, gate.URLParamTransactionID), pscTypeFrom(ctx), chi.URLParam(r, URLParamFilingID), doc)
	if err != nil {
		h.logFailure(ctx, "failed to patch filing", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) handleValidationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, err := h.filings.ValidationStatus(ctx,
		chi.URLParam(r, gate.URLParamTransactionID),
		pscTypeFrom(ctx),
		chi.URLParam(r, URLParamFilingID),
		auth.GetToken(ctx),
	)
	if err != nil {
		h.logFailure(ctx, "failed to compute validation status", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toValidationStatusResponse(status))
}

func (h *Handler) handleFilingData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := h.filings.FilingData(ctx,
		chi.URLParam(r, gate.URLParamTransactionID),
		pscTypeFrom(ctx),
		chi.URLParam(r, URLParamFilingID),
		auth.GetToken(ctx),
	)
	if err != nil {
		h.logFailure(ctx, "failed to build filing data", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, data)
}

// logFailure logs client-caused failures at warn and the rest at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	args := []any{"request_id", request.GetRequestID(ctx), "error", err}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) && httputil.DomainCodeToHTTPStatus(domainErr.Code) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg, args...)
		return
	}
	h.logger.ErrorContext(ctx, msg, args...)
}
