// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package units

import "fmt"

// StructuralError reports source content that is missing a required
// sub-element or is otherwise malformed. It aborts reconstruction of the
// enclosing unit; there is no partial result.
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string { return e.Msg }

// NewStructuralError builds a StructuralError from a format string.
func NewStructuralError(format string, args ...any) *StructuralError {
	return &StructuralError{Msg: fmt.Sprintf(format, args...)}
}
