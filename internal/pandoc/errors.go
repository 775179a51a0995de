// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandoc

// ExternalToolError reports a missing or failing external converter. It
// aborts the whole conversion; nothing is retried.
type ExternalToolError struct {
	Tool string
	Err  error
}

func (e *ExternalToolError) Error() string {
	return e.Err.Error()
}

func (e *ExternalToolError) Unwrap() error { return e.Err }
