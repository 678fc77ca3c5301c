package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto the
// HTTP contract; anything else surfaces as an internal error.
var (
	// ErrNotFound covers absent entities and cross-tenant references alike,
	// so a guessed foreign id is indistinguishable from a missing one.
	ErrNotFound = errors.New("not found")

	// ErrNoCopies rejects a checkout when every copy is out
	ErrNoCopies = errors.New("no copies available")

	// ErrAlreadyReturned rejects a second return of the same loan
	ErrAlreadyReturned = errors.New("already returned")

	// ErrForbidden rejects a return by someone who is neither the borrower
	// nor an admin of the book's university
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput rejects malformed request data
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials rejects a login with a wrong email or password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConflict covers duplicate-entity rejections and a checkout guard
	// that kept losing the book row after retries
	ErrConflict = errors.New("conflict")
)
