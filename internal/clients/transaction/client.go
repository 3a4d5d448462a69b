// Package transaction is the client for the transactions API.
package transaction

import (
	"context"
	"net/http"
	"net/url"

	"pscfiling/internal/clients"
	"pscfiling/internal/filing/models"
	"pscfiling/internal/platform/tracer"
)

// Client reads and updates transactions.
type Client struct {
	base *clients.Base
}

// New creates a transactions API client.
func New(cfg clients.Config) *Client {
	cfg.Service = "transactions-api"
	return &Client{base: clients.NewBase(cfg)}
}

// GetTransaction fetches a transaction by id.
func (c *Client) GetTransaction(ctx context.Context, id, token string) (tx *models.Transaction, err error) {
	ctx, span := c.base.Tracer().Start(ctx, tracer.SpanTransactionGet, tracer.String(tracer.AttrTransactionID, id))
	defer func() { span.End(err) }()

	var out models.Transaction
	if err := c.base.Do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTransaction replaces the transaction's mutable fields, including its
// resources map.
func (c *Client) UpdateTransaction(ctx context.Context, tx models.Transaction, token string) (err error) {
	ctx, span := c.base.Tracer().Start(ctx, tracer.SpanTransactionUpdate, tracer.String(tracer.AttrTransactionID, tx.ID))
	defer func() { span.End(err) }()

	return c.base.Do(ctx, http.MethodPut, "/private/transactions/"+url.PathEscape(tx.ID), token, tx, nil)
}
