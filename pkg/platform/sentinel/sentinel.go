package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: row does not exist in the store, or is hidden by soft delete
// - ErrConflict: uniqueness or identifier collision that should not happen
// - ErrUnavailable: backing store temporarily unreachable
//
// For validation errors (bad input, unknown type pairs), use
// pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
