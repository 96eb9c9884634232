// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current
// caller is not authorized to perform an operation on a resource owned
// by someone else, while ErrConflict signals that a guarded
// transition's precondition did not hold (its UPDATE/DELETE matched
// zero rows).
package repository

import "errors"

// ErrForbidden denotes an operation on a resource the caller does not
// own; handlers should translate it into an HTTP 403 response. No
// method in this package returns it: the ownership guards in TicketRepo
// match zero rows and report ErrConflict instead.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a guarded lifecycle transition's
// WHERE clause matches zero rows — the ticket's current status,
// ownership, or lease no longer satisfies the precondition the caller
// assumed. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")