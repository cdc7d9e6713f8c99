package corpus

import "errors"

// Domain errors. These are returned to the immediate caller and must not
// be swallowed by the ranking or similarity layers, which only ever see
// already-validated snapshots.
var (
	// ErrNotFound indicates a document id that was never assigned.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates malformed input, such as a non-positive
	// document id or a query missing required fields.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptySource indicates a document source query yielded nothing.
	ErrEmptySource = errors.New("no data for this origin")
)
