package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrConflict     = errors.New("domain: conflict")
	ErrUnauthorized = errors.New("domain: unauthorized")
	ErrForbidden    = errors.New("domain: forbidden")

	// ErrColumnNotEmpty is returned when deleting a column that still holds
	// tasks. Tasks must be moved first so none are silently orphaned.
	ErrColumnNotEmpty = errors.New("domain: column is not empty")

	// ErrInvitationPending is returned when a pending invitation already
	// exists for the same email and project.
	ErrInvitationPending = errors.New("domain: pending invitation exists")

	// ErrAlreadyMember is returned when inviting an email that already
	// belongs to the project.
	ErrAlreadyMember = errors.New("domain: user is already a member")
)
