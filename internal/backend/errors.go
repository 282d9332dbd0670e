package backend

import (
	"errors"
)

var (
	// ErrInvalidCredentials is returned by Login when the backend rejects
	// the email/password pair.
	ErrInvalidCredentials = errors.New("backend rejected credentials")

	// ErrNotFound is returned when the backend reports a missing record.
	ErrNotFound = errors.New("backend record not found")

	// ErrForbidden is returned on a backend 403. Seeing this for a
	// capability the portal evaluator granted means client and server
	// permission state have drifted apart; callers log it as an
	// inconsistency rather than swallowing it.
	ErrForbidden = errors.New("backend denied the operation")
)
