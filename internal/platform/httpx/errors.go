// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Authentication failures are reported uniformly; infrastructure
// failures never leak internal detail.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
	case errors.Is(err, shared.ErrDuplicateEmail):
		Problem(w, http.StatusConflict, "Conflict", "email already registered")
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", "resource not found")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
