package repository

import "github.com/pkg/errors"

var (
	// ErrNotCached is returned when the client is offline and the
	// requested scope has nothing cached to fall back on.
	ErrNotCached = errors.New("no network connection and no cached data")

	// ErrValidation rejects a request before any I/O is attempted.
	ErrValidation = errors.New("validation failed")
)

// CacheWriteError marks a local store failure during a cache write.
// Unlike a network hiccup it is surfaced directly to the caller, never
// converted into a stale-cache fallback.
type CacheWriteError struct {
	Err error
}

func (e *CacheWriteError) Error() string {
	return "cache write failed: " + e.Err.Error()
}

func (e *CacheWriteError) Unwrap() error {
	return e.Err
}
