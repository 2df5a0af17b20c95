package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/logging"
	"infinite-experiment/calllist/internal/models/dtos"
)

func GetResponseTime(init time.Time) string {
	return fmt.Sprintf("%dms", time.Since(init).Milliseconds())
}

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	writeJSON(w, code, dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	})
}

// RespondError sends a standardized JSON error response.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	code := http.StatusInternalServerError
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	msg := message
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	writeJSON(w, code, dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      msg,
		ResponseTime: GetResponseTime(initTime),
	})
}

// StatusFor maps the directory error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, directory.ErrValidation), errors.Is(err, directory.ErrInvariantViolation):
		return http.StatusBadRequest
	case errors.Is(err, directory.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, directory.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError picks the status from err. Internal errors are logged
// and replaced with a generic message.
func RespondDomainError(w http.ResponseWriter, initTime time.Time, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		logging.Error("Request failed", "error", err)
		RespondError(w, initTime, nil, constants.MsgInternal, code)
		return
	}
	RespondError(w, initTime, err, "", code)
}

func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err)
	}
}
