package overlay

import "errors"

var (
	// ErrInvalidGeometry is returned by New when the overlay cannot be placed
	// inside the viewport. The caller must fix the configuration.
	ErrInvalidGeometry = errors.New("invalid overlay geometry")

	// ErrIllegalState is returned when a move or release arrives without a
	// preceding press. It points at a state-tracking bug in the host.
	ErrIllegalState = errors.New("no active gesture session")
)
