package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"smartbrief-backend/internal/models"
	"smartbrief-backend/internal/repository"
	"smartbrief-backend/internal/services"
)

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Success:   false,
		Error:     message,
		Code:      code,
		RequestID: r.Header.Get("X-Request-ID"),
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	resp := errorResp(code, message, r)
	resp.Fields = fields
	return resp
}

// handleServiceError maps service errors onto the uniform error body. Anything
// unrecognized came from the completion endpoint.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
	case errors.Is(err, services.ErrExtractionFailed):
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("EXTRACTION_FAILED", err.Error(), r))
	case errors.Is(err, services.ErrUnsupportedFormat):
		writeJSON(w, http.StatusBadRequest, errorResp("UNSUPPORTED_FORMAT", err.Error(), r))
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Resource not found", r))
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorResp("TIMEOUT", "The AI provider did not answer in time", r))
	default:
		writeJSON(w, http.StatusBadGateway, errorResp("AI_ERROR", err.Error(), r))
	}
}
