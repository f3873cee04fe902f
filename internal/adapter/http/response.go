package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
	"github.com/YelzhanWeb/qr-order/internal/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, message string, statusCode int, validationErrors []ValidationError) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:  message,
		Errors: validationErrors,
	})
}

// respondDomainError maps the error kinds of the domain package onto HTTP status codes.
// Validation is checked before not-found because an unknown table or product on
// create is a validation failure that wraps a NotFoundError.
func respondDomainError(w http.ResponseWriter, r *http.Request, lgr logger.Logger, err error) {
	if statusForError(err) == http.StatusInternalServerError {
		lgr.Error("request_failed", fmt.Sprintf("%s %s failed", r.Method, r.URL.Path), logger.RequestID(r.Context()), nil, err)
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: verr.Field, Message: verr.Message},
		})
	case errors.Is(err, domain.ErrInvalidStatus):
		respondError(w, err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, err.Error(), http.StatusNotFound, nil)
	default:
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
