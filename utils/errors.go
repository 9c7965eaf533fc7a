package utils

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"todo-api/models"
)

const (
	MsgTaskNotFound     = "Task not found"
	MsgValidationFailed = "Validation failed"
	MsgInternalError    = "Internal server error"
)

// ErrorWriter logs an error with its request and turns it into an envelope.
// Outside development, 500 responses carry no detail about the cause.
type ErrorWriter struct {
	Logger      *log.Logger
	Development bool
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Write logs err and writes the matching error envelope.
func (ew *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	logger := ew.Logger.With("method", r.Method, "path", r.URL.Path, "status", status)

	env := Envelope{Success: false, Timestamp: Timestamp()}
	switch status {
	case http.StatusBadRequest:
		var verr *models.ValidationError
		errors.As(err, &verr)
		logger.Warn("Request rejected", "issues", verr.Issues)
		env.Message = MsgValidationFailed
		env.Error = verr.Error()
	case http.StatusNotFound:
		logger.Warn("Task not found", "err", err)
		env.Error = MsgTaskNotFound
	default:
		var serr *models.StoreError
		if errors.As(err, &serr) {
			logger.Error("Store failure", "op", serr.Op, "err", err)
		} else {
			logger.Error("Unhandled error", "err", err)
		}
		env.Error = MsgInternalError
		if ew.Development {
			env.Details = err.Error()
		}
	}
	WriteJSON(w, status, env)
}

// BadRequest rejects a request with the given validation issues.
func (ew *ErrorWriter) BadRequest(w http.ResponseWriter, r *http.Request, issues ...string) {
	ew.Write(w, r, models.NewValidationError(issues...))
}
