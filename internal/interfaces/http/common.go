// Package http wires the chi router, middleware and request handlers that
// expose the study service over HTTP.
package http

import (
	"encoding/json"
	"net/http"

	"studytrack-backend/pkg/api"
	appErrors "studytrack-backend/pkg/errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// contextKey is used for context values set by middleware.
type contextKey struct {
	name string
}

var userIDKey = contextKey{"userID"}

// getUserID extracts the authenticated user id set by the auth middleware.
func getUserID(r *http.Request) (string, bool) {
	v := r.Context().Value(userIDKey)
	if v == nil {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok && userID != ""
}

var validate = validator.New()

// decodeAndValidate parses the JSON body into dst and runs struct validation.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return appErrors.NewValidation("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return appErrors.NewValidation(err.Error())
	}
	return nil
}

// handleServiceError maps service errors to HTTP status codes.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case appErrors.IsValidation(err):
		api.Error(w, http.StatusBadRequest, err.Error())
	case appErrors.IsNotFound(err):
		api.Error(w, http.StatusNotFound, err.Error())
	case appErrors.IsConflict(err):
		api.Error(w, http.StatusConflict, err.Error())
	default:
		logger.Error("internal error", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "an internal error occurred")
	}
}
