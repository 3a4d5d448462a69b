package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and clients return these
// (optionally wrapped) so services can translate them into domain errors
// exactly once.
//
//   - ErrNotFound: record does not exist in the store
//   - ErrConflict: conditional write lost against a newer etag
//   - ErrInvalidState: stored record does not match the requested variant
//   - ErrUnavailable: backing service temporarily unavailable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
