package calculator

import "github.com/pkg/errors"

// Precondition violations. Callers map these to a bad-request response;
// an empty result is never reported through an error.
var (
	ErrInvalidReference = errors.New("reference coordinate must be finite")
	ErrInvalidRadius    = errors.New("radius must be a positive number of kilometres")
	ErrInvalidLimit     = errors.New("limit must be a positive integer")
)

// IsPrecondition reports whether err is one of the input validation errors above.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrInvalidReference) ||
		errors.Is(err, ErrInvalidRadius) ||
		errors.Is(err, ErrInvalidLimit)
}
