package savings

import "errors"

var (
	// ErrInvalidDate reports a record whose dates cannot take part in a calculation.
	ErrInvalidDate = errors.New("invalid date")
	// ErrNotFound reports an unknown record or transaction id.
	ErrNotFound = errors.New("not found")
)
