package executor

import "errors"

var (
	// ErrInvalidInput marks validation failures detected before any
	// network I/O: bad method, empty or malformed URL, unresolved
	// template variables. It is the only error class Execute returns;
	// transport failures become zero-status responses instead.
	ErrInvalidInput = errors.New("invalid input")
)
