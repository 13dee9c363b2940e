package vocab

import "errors"

var (
	// ErrNotFound indicates an operation referenced an id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidGrade indicates a review grade outside the 1-4 range. This is
	// a caller bug, not a user input problem, so it is never clamped away.
	ErrInvalidGrade = errors.New("invalid grade")
)
