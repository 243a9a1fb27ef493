package sim

import "errors"

var (
	// ErrConfiguration means a run could not be set up. No event has been processed.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidState means an event was dispatched after the run timed out.
	ErrInvalidState = errors.New("invalid dispatcher state")
	// ErrInvalidEvent means a domain event carried a malformed payload and was not applied.
	ErrInvalidEvent = errors.New("invalid event")
)
