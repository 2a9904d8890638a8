package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

// writeSuccess renders the uniform success envelope {statusCode, data, message}.
func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

// writeError maps a domain error to the error envelope
// {statusCode, message, errors, data:null}. This is the single place where
// errors become HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong"

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		message = apiErr.Message
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		message = "user not found"
	case errors.Is(err, model.ErrTaskNotFound):
		status = http.StatusNotFound
		message = "task not found"
	case errors.Is(err, model.ErrUserAlreadyExists):
		status = http.StatusConflict
		message = "user with email or username already exists"
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "invalid username or password"
	case errors.Is(err, model.ErrUnauthorized), errors.Is(err, model.ErrTokenInvalid), errors.Is(err, model.ErrTokenExpired):
		status = http.StatusUnauthorized
		message = "invalid or expired token"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		message = "access denied"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		message = "invalid input"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIErrorResponse{
		StatusCode: status,
		Message:    message,
		Errors:     []string{},
	})
}
