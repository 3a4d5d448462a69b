package validation

import (
	"pscfiling/internal/filing/models"
)

// Context is the state of one validation run. It is never persisted and must
// not be shared between runs.
type Context struct {
	Filing      models.Filing
	Transaction models.Transaction
	PscType     models.PscType
	Token       string

	errs []models.FieldError
}

// NewContext builds a Context with an empty error list.
func NewContext(filing models.Filing, tx models.Transaction, pscType models.PscType, token string) *Context {
	return &Context{
		Filing:      filing,
		Transaction: tx,
		PscType:     pscType,
		Token:       token,
	}
}

// AddError appends a field error. Errors are never removed or deduplicated.
func (c *Context) AddError(fe models.FieldError) {
	c.errs = append(c.errs, fe)
}

// Errors returns the accumulated errors in the order they were added.
func (c *Context) Errors() []models.FieldError {
	out := make([]models.FieldError, len(c.errs))
	copy(out, c.errs)
	return out
}

// Valid reports whether no errors were recorded.
func (c *Context) Valid() bool {
	return len(c.errs) == 0
}
