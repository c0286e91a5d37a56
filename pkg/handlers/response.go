package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/apperrors"
	"github.com/ekaya-inc/prospect-crm/pkg/logging"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writeError writes an error response, logging encoding failures.
func writeError(w http.ResponseWriter, logger *zap.Logger, statusCode int, errorCode, message string) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// writeResponse writes a JSON body, logging encoding failures.
func writeResponse(w http.ResponseWriter, logger *zap.Logger, statusCode int, data interface{}) {
	if err := WriteJSON(w, statusCode, data); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeServiceError maps a service error onto the HTTP error contract:
// validation failures are 400 validation_error, missing rows are 404
// <entity>_not_found, and anything else is a 500 whose detail only goes to
// the log.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, entity, action string) {
	switch {
	case apperrors.IsValidation(err):
		writeError(w, logger, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, logger, http.StatusNotFound, entity+"_not_found", capitalize(entity)+" not found")
	case errors.Is(err, apperrors.ErrConflict):
		writeError(w, logger, http.StatusConflict, entity+"_conflict", err.Error())
	default:
		logger.Error("Failed to "+action,
			zap.String("entity", entity),
			zap.String("error", logging.SanitizeError(err)))
		writeError(w, logger, http.StatusInternalServerError, "internal_error", "Failed to "+action)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
