package document

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a caller handed over malformed input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRange indicates a complexity range with Min greater than Max.
	ErrInvalidRange = errors.New("invalid complexity range")

	// ErrUnknownMethod indicates a clustering method outside the closed set.
	ErrUnknownMethod = errors.New("unknown clustering method")

	// ErrNotFound indicates a document path that is not part of the snapshot.
	ErrNotFound = errors.New("not found")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
