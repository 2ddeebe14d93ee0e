// Package resolve normalizes extracted entities and resolves them into
// a fully parameterized intent, consulting session context for
// follow-up questions. Everything here is pure: the session is read,
// never written.
package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedIntent indicates the question could not be mapped
	// to any supported intent.
	ErrUnrecognizedIntent = errors.New("resolve: unrecognized intent")
	// ErrAmbiguousParameter indicates a parameter was found but could
	// not be normalized to a single value.
	ErrAmbiguousParameter = errors.New("resolve: ambiguous parameter")
	// ErrUnknownDimension indicates a grouping dimension outside the
	// supported set.
	ErrUnknownDimension = errors.New("resolve: unknown dimension")
)

// MissingParameterError indicates a required parameter that neither the
// question nor the session context supplied.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("resolve: missing required parameter %q", e.Name)
}
