package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/models"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{models.NewValidationError("Title is required"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", models.NewValidationError("x")), http.StatusBadRequest},
		{models.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("failed to delete task 1: %w", models.ErrNotFound), http.StatusNotFound},
		{&models.StoreError{Op: "create", Err: errors.New("boom")}, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.status, StatusFor(tc.err), tc.err.Error())
	}
}

func TestErrorWriter(t *testing.T) {
	logger := log.New(io.Discard)
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)

	t.Run("validation", func(t *testing.T) {
		ew := &ErrorWriter{Logger: logger}
		rec := httptest.NewRecorder()
		ew.Write(rec, req, models.NewValidationError("Title is required", "Title too long"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "Title is required, Title too long", env.Error)
		assert.Equal(t, MsgValidationFailed, env.Message)
	})

	t.Run("not found", func(t *testing.T) {
		ew := &ErrorWriter{Logger: logger}
		rec := httptest.NewRecorder()
		ew.Write(rec, req, fmt.Errorf("failed to toggle task x: %w", models.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, MsgTaskNotFound, decodeEnvelope(t, rec).Error)
	})

	t.Run("store error hidden in production", func(t *testing.T) {
		ew := &ErrorWriter{Logger: logger}
		rec := httptest.NewRecorder()
		ew.Write(rec, req, &models.StoreError{Op: "create", Err: errors.New("pq: relation tasks does not exist")})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, MsgInternalError, env.Error)
		assert.Empty(t, env.Details)
		assert.NotContains(t, rec.Body.String(), "relation")
	})

	t.Run("details in development", func(t *testing.T) {
		ew := &ErrorWriter{Logger: logger, Development: true}
		rec := httptest.NewRecorder()
		ew.Write(rec, req, errors.New("boom"))

		env := decodeEnvelope(t, rec)
		assert.Equal(t, MsgInternalError, env.Error)
		assert.Equal(t, "boom", env.Details)
	})
}

func TestSendHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	SendCreated(rec, map[string]string{"id": "1"}, "Task created successfully")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Task created successfully", env.Message)
	_, err := time.Parse(time.RFC3339, env.Timestamp)
	assert.NoError(t, err)

	rec = httptest.NewRecorder()
	SendSuccess(rec, http.StatusOK, []int{}, "")
	assert.JSONEq(t, `[]`, string(mustField(t, rec.Body.Bytes(), "data")))

	rec = httptest.NewRecorder()
	SendNoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func mustField(t *testing.T, body []byte, name string) json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &fields))
	raw, ok := fields[name]
	require.True(t, ok, "missing field %q", name)
	return raw
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(io.Discard, "debug", true)
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())

	_, err = NewLogger(io.Discard, "chatty", false)
	assert.Error(t, err)
}
