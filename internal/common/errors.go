// Package common defines the sentinel errors shared by repositories,
// services, and the HTTP layer. Callers match them with errors.Is;
// services may wrap them with fmt.Errorf("...: %w", ...) to attach a
// user-facing message.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorConflict     = errors.New("already exists")

	// Request-shape errors (bad length, charset, range). Always wrapped
	// with a message the transport can show verbatim.
	ErrorValidation = errors.New("validation error")
)
