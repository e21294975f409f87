package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and the registry service translates them into coded domain errors:
//   - ErrNotFound: the row or key does not exist
//   - ErrConflict: a uniqueness constraint rejected the write
//   - ErrUnavailable: the backing store could not be reached
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
