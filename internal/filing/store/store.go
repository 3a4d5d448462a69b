// Package store persists PSC cessation filings. Every backend keeps one
// collection per filing variant and updates are conditional on the etag the
// caller last read.
//
// Error contract for all backends:
//   - sentinel.ErrNotFound when no filing has the id in that variant's collection
//   - sentinel.ErrConflict when an update's expected etag is stale or a create reuses an id
//   - sentinel.ErrInvalidState when a stored document's psc_type does not belong to the collection
//   - wrapped errors for infrastructure failures
package store

import (
	"context"
	"fmt"

	"pscfiling/internal/filing/models"
	"pscfiling/pkg/platform/sentinel"
)

// Store is implemented by the memory, postgres and redis backends.
type Store interface {
	Create(ctx context.Context, f models.Filing) error
	FindByID(ctx context.Context, variant models.Variant, id string) (models.Filing, error)
	Update(ctx context.Context, f models.Filing, expectedEtag string) error
}

// decode reads a stored document and checks its tag against the collection it
// came from.
func decode(variant models.Variant, data []byte) (models.Filing, error) {
	f, err := models.DecodeFiling(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sentinel.ErrInvalidState, err)
	}
	if f.Variant() != variant {
		return nil, fmt.Errorf("%w: %s filing stored in %s collection", sentinel.ErrInvalidState, f.Variant(), variant)
	}
	return f, nil
}
