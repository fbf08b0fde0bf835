package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/service"
	"github.com/MKhiriev/go-tech-support/internal/utils"
	"github.com/MKhiriev/go-tech-support/internal/validators"
)

type errorStatus struct {
	target error
	status int
}

// errorStatuses is checked in order: a joined error resolves to its first
// listed cause.
var errorStatuses = []errorStatus{
	{ErrInvalidJSON, http.StatusBadRequest},
	{ErrMissingFile, http.StatusBadRequest},
	{ErrNoPaths, http.StatusBadRequest},
	{ErrInvalidRecoveryLink, http.StatusBadRequest},

	{validators.ErrUnsupportedType, http.StatusBadRequest},
	{validators.ErrUnknownField, http.StatusBadRequest},
	{validators.ErrInvalidEmail, http.StatusBadRequest},
	{validators.ErrInvalidPassword, http.StatusBadRequest},
	{validators.ErrInvalidUsername, http.StatusBadRequest},
	{validators.ErrInvalidRole, http.StatusBadRequest},
	{validators.ErrEmptyName, http.StatusBadRequest},
	{validators.ErrEmptyTitle, http.StatusBadRequest},
	{validators.ErrInvalidURL, http.StatusBadRequest},
	{validators.ErrNoFieldsToUpdate, http.StatusBadRequest},
	{validators.ErrMissingApproval, http.StatusBadRequest},

	{service.ErrStoreUnavailable, http.StatusServiceUnavailable},
	{service.ErrInvalidDataProvided, http.StatusBadRequest},
	{service.ErrEmptyUserPatch, http.StatusBadRequest},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrNotSignedIn, http.StatusUnauthorized},

	{adapter.ErrInvalidCredentials, http.StatusUnauthorized},
	{adapter.ErrNoSession, http.StatusUnauthorized},
	{adapter.ErrUnauthorized, http.StatusUnauthorized},
	{adapter.ErrForbidden, http.StatusForbidden},
	{adapter.ErrNotFound, http.StatusNotFound},
	{adapter.ErrConflict, http.StatusConflict},
	{adapter.ErrBucketExists, http.StatusConflict},
	{adapter.ErrBadRequest, http.StatusBadRequest},
	{adapter.ErrInvalidIdentifier, http.StatusBadRequest},
	{adapter.ErrUnavailable, http.StatusServiceUnavailable},
	{adapter.ErrBadGateway, http.StatusBadGateway},
	{adapter.ErrSchemaMismatch, http.StatusBadGateway},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeServiceError logs err and answers with the status it maps to. Server
// errors hide their text from the caller.
func writeServiceError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status := statusFromError(err)
	logger.FromRequest(r).Err(err).Str("func", fn).Int("status", status).Msg("request failed")

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	utils.WriteError(w, message, status)
}
