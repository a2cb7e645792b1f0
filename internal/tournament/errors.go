package tournament

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the target player or match does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a mutation is rejected before touching state.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput is returned for malformed arguments.
	ErrInvalidInput = errors.New("invalid input")

	ErrAlreadyRegistered = fmt.Errorf("%w: player is already registered", ErrConflict)
	ErrSelfMatch         = fmt.Errorf("%w: a player cannot duel themselves", ErrConflict)
	ErrScheduledInPast   = fmt.Errorf("%w: match must be scheduled in the future", ErrConflict)
	ErrDuplicateMatch    = fmt.Errorf("%w: an identical match is already scheduled", ErrConflict)
	ErrAmbiguousID       = fmt.Errorf("%w: match id prefix matches more than one match", ErrConflict)
	ErrNotCancellable    = fmt.Errorf("%w: only scheduled matches can be cancelled", ErrConflict)

	ErrInvalidDelta = fmt.Errorf("%w: stat deltas must be non-negative", ErrInvalidInput)
	ErrInvalidName  = fmt.Errorf("%w: display name is required", ErrInvalidInput)
	ErrInvalidID    = fmt.Errorf("%w: id must be positive", ErrInvalidInput)
)
