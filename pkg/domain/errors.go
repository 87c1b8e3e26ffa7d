package domain

import "errors"

// ErrInvalidInput is returned when the stone list contains a token that is not
// a non-negative decimal integer representable as a uint64.
var ErrInvalidInput = errors.New("invalid input")

// ErrNegativeIterations is returned when a run is requested with a negative blink count.
var ErrNegativeIterations = errors.New("negative iterations")

// ErrOverflow is returned when a stone value or a stone count no longer fits in a uint64.
var ErrOverflow = errors.New("uint64 overflow")

// ErrTooManyStones is returned when an ordered expansion would exceed its stone limit.
var ErrTooManyStones = errors.New("too many stones to enumerate")

// ErrResultNotFound is returned when a result key cannot be found in the store.
var ErrResultNotFound = errors.New("result not found")

// ErrInvalidPart is returned when a part other than 1 or 2 is requested.
var ErrInvalidPart = errors.New("invalid part")

// IsInputError reports whether err was caused by the caller's input rather
// than by the engine or one of its collaborators.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNegativeIterations) ||
		errors.Is(err, ErrTooManyStones) ||
		errors.Is(err, ErrInvalidPart)
}
