package compositor

import "errors"

var (
	// ErrInvalidAnimation is returned when an animation's parameters can never be evaluated.
	ErrInvalidAnimation = errors.New("compositor: invalid animation")

	// ErrUnknownTimingFunction is returned by ParseTimingFunction for an unrecognized name.
	ErrUnknownTimingFunction = errors.New("compositor: unknown timing function")

	// ErrNoTransaction is returned by Commit when no transaction is open.
	ErrNoTransaction = errors.New("compositor: commit without open transaction")
)
