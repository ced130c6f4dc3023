package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"snapgram_server/pkg/apperrors"
)

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// Success writes the standard success envelope, merging extra payload
// fields alongside success and message.
func Success(w http.ResponseWriter, status int, message string, extra map[string]interface{}) {
	body := map[string]interface{}{
		"success": true,
		"message": message,
	}
	for key, value := range extra {
		body[key] = value
	}
	WriteJSON(w, status, body)
}

// Error maps an application error to its HTTP status and writes the
// failure envelope. Unclassified errors become a generic 500.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidArgument:
		status = http.StatusBadRequest
	case apperrors.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case apperrors.CodePermissionDenied:
		status = http.StatusForbidden
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeAlreadyExists:
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}
	WriteJSON(w, status, map[string]interface{}{
		"success": false,
		"message": apperrors.MessageOf(err),
	})
}
