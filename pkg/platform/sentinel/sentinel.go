package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Record store backends and the
// store layer return these (optionally wrapped) so care services can translate
// them into coded domain errors.
//
//   - ErrNotFound: the id does not resolve in its collection
//   - ErrUnavailable: the backend failed to read or write
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
