package errors

import "errors"

var (
	ErrNotFound = errors.New("catalog entry not found")

	ErrInvalidID = errors.New("invalid catalog ID")
)
