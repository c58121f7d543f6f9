package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into coded domain errors.
//
//   - ErrNotFound: no row/record for the lookup key
//   - ErrConflict: uniqueness constraint hit
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
