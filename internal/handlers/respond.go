package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"flashscroll-backend/internal/importer"
	"flashscroll-backend/internal/jobs"
	"flashscroll-backend/internal/models"
	"flashscroll-backend/internal/repository"
	"flashscroll-backend/internal/services"
)

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *repository.ValidationError
	var notFoundErr *repository.NotFoundError
	var parseErr *importer.ParseError
	var generationErr *services.GenerationError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", validationErr.Fields, r))
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", notFoundErr.Message, r))
	case errors.As(err, &parseErr):
		writeJSON(w, http.StatusBadRequest, errorResp("IMPORT_PARSE_ERROR", "Error parsing file.", r))
	case errors.As(err, &generationErr):
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_ERROR", "Failed to generate cards.", r))
	case errors.Is(err, jobs.ErrInFlight):
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", err.Error(), r))
	case errors.Is(err, jobs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
