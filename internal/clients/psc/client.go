// Package psc is the client for the persons-with-significant-control API.
package psc

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"pscfiling/internal/clients"
	"pscfiling/internal/filing/models"
	"pscfiling/internal/platform/tracer"
)

// Client fetches PSC register entries.
type Client struct {
	base *clients.Base
}

// New creates a PSC API client.
func New(cfg clients.Config) *Client {
	cfg.Service = "psc-api"
	return &Client{base: clients.NewBase(cfg)}
}

// GetPscDetails fetches one PSC of the transaction's company. A missing PSC
// is reported as a *clients.ServiceError with category not_found.
func (c *Client) GetPscDetails(ctx context.Context, tx models.Transaction, pscID string, pscType models.PscType, token string) (details *models.PscDetails, err error) {
	ctx, span := c.base.Tracer().Start(ctx, tracer.SpanPscDetails,
		tracer.String(tracer.AttrTransactionID, tx.ID),
		tracer.String(tracer.AttrCompanyNumber, tx.CompanyNumber),
		tracer.String(tracer.AttrPscType, pscType.String()),
		tracer.String(tracer.AttrPscID, pscID),
	)
	defer func() { span.End(err) }()

	path := fmt.Sprintf("/company/%s/persons-with-significant-control/%s/%s",
		url.PathEscape(tx.CompanyNumber), pscType, url.PathEscape(pscID))

	var out models.PscDetails
	if err := c.base.Do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
