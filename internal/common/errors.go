// Package common defines shared constants and sentinel errors used across
// the Borobo console client. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Login errors.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Any authenticated data call answered with 401: the backend session is
	// gone and the client must return to the login screen.
	ErrSessionExpired = errors.New("session expired")

	// Non-401 failures on data loading. ErrServer covers the authenticate
	// endpoint, ErrFetch the data-fetch endpoints.
	ErrServer = errors.New("server error")
	ErrFetch  = errors.New("fetch error")

	// A failed file or bundle download. Isolated per attempt: it never
	// affects the session or any already-loaded data.
	ErrDownload = errors.New("download failed")

	// Client-side password policy failure. The request is never sent.
	ErrValidation = errors.New("validation error")
)

// BackendRejectionError carries the backend's own rejection message for a
// password change, to be shown to the user verbatim.
type BackendRejectionError struct {
	Message string
}

func (e *BackendRejectionError) Error() string {
	return fmt.Sprintf("rejected by backend: %s", e.Message)
}
