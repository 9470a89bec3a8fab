package apperrors

import "errors"

var (
	// ErrSchema marks malformed raw input detected at construction time,
	// e.g. missing key columns or non-integer year labels on a yearly frame.
	ErrSchema = errors.New("invalid input schema")

	// ErrInvalidArgument marks invalid operation arguments, e.g. a bad
	// filter level suffix or an ambiguous metadata alignment.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict marks data or metadata collisions during append, rename
	// and metadata merges.
	ErrConflict = errors.New("conflict")
)
