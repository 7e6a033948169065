package field

import "errors"

var (
	ErrMalformedGrid   = errors.New("malformed grid")
	ErrUnknownColor    = errors.New("unknown color")
	ErrColumnFull      = errors.New("column full")
	ErrInvalidDecision = errors.New("invalid decision")
	ErrInvalidColumn   = errors.New("invalid column")
	ErrEmptyColumn     = errors.New("empty column")
)
