package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"microblogPosts/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError sends {"error": message} with the given status.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrPostNotFound), errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := statusFor(err)
	attrs := []any{"operation", operation, "status", status, "error", err.Error(), "path", r.URL.Path}

	if status >= http.StatusInternalServerError {
		h.Logger.Error("post operation failed", attrs...)
	} else {
		h.Logger.Info("post operation rejected", attrs...)
	}

	WriteError(w, err.Error(), status)
}

// validationMessage flattens validator errors into one client-facing line.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fe.Field()+" should not be empty")
		case "min":
			messages = append(messages, fe.Field()+" must be longer than or equal to "+fe.Param()+" characters")
		default:
			messages = append(messages, fe.Field()+" is invalid")
		}
	}

	return strings.Join(messages, "; ")
}
