// Package companyprofile is the client for the company profile API.
package companyprofile

import (
	"context"
	"net/http"
	"net/url"

	"pscfiling/internal/clients"
	"pscfiling/internal/filing/models"
	"pscfiling/internal/platform/tracer"
)

// Client fetches company profiles.
type Client struct {
	base *clients.Base
}

// New creates a company profile API client.
func New(cfg clients.Config) *Client {
	cfg.Service = "company-profile-api"
	return &Client{base: clients.NewBase(cfg)}
}

// GetCompanyProfile fetches the profile of the transaction's company.
func (c *Client) GetCompanyProfile(ctx context.Context, tx models.Transaction, token string) (profile *models.CompanyProfile, err error) {
	ctx, span := c.base.Tracer().Start(ctx, tracer.SpanCompanyProfile,
		tracer.String(tracer.AttrTransactionID, tx.ID),
		tracer.String(tracer.AttrCompanyNumber, tx.CompanyNumber),
	)
	defer func() { span.End(err) }()

	var out models.CompanyProfile
	if err := c.base.Do(ctx, http.MethodGet, "/company/"+url.PathEscape(tx.CompanyNumber), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
