package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrNoTaggedObject is the perception-miss sentinel: no on-screen
	// candidate for a tagged category. Always recoverable; callers log,
	// back off and retry next tick.
	ErrNoTaggedObject = errors.New("no tagged object on screen")
)
