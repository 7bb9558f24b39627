package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"pantrypal-backend/internal/apperr"
	"pantrypal-backend/internal/response"
)

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceErr maps the service error taxonomy onto HTTP statuses.
// Anything unclassified is a 500 with the detail logged, not leaked.
func writeServiceErr(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		response.WriteErr(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrValidation):
		response.WriteErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		response.WriteErr(w, http.StatusNotFound, err.Error())
	default:
		log.Error("unexpected error", zap.Error(err))
		response.WriteErr(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
	}
}
