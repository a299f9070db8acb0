package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"leoniportal/internal/domain"
	impl "leoniportal/internal/service/impl"
	obsmw "leoniportal/internal/observability/middleware"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// writeError maps the service error taxonomy onto the wire: validation and
// duplicates → 400, credential failures → 401, missing records → 404,
// anything else → a generic 500 with the detail kept in the logs only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidationError(err):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrDuplicateParentEmail),
		errors.Is(err, domain.ErrDuplicateEmployeeID):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrTokenInvalidOrExpired):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		// One message for unknown email and wrong password alike.
		writeFailure(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, domain.ErrUserNotFound):
		writeFailure(w, http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrDocumentNotFound), errors.Is(err, domain.ErrNotOwner):
		// Hiding other users' documents: ownership failures read as absence.
		writeFailure(w, http.StatusNotFound, "document request not found")
	default:
		slog.Error("unhandled request error",
			"error", err,
			"path", r.URL.Path,
			"request_id", obsmw.RequestIDFromContext(r.Context()),
		)
		writeFailure(w, http.StatusInternalServerError, "internal server error")
	}
}

func isValidationError(err error) bool {
	for _, v := range []error{
		impl.ErrMissingFields,
		impl.ErrInvalidEmail,
		impl.ErrInvalidPhone,
		impl.ErrEmailsMustDiffer,
		impl.ErrPasswordMismatch,
		impl.ErrPasswordTooShort,
		impl.ErrEmptyPassword,
		impl.ErrBadImagePayload,
		impl.ErrUnsupportedImage,
		impl.ErrMalformedDocument,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
