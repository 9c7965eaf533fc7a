package middlewares

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/models"
	"todo-api/utils"
)

func newErrorWriter() *utils.ErrorWriter {
	return &utils.ErrorWriter{Logger: log.New(io.Discard)}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) utils.Envelope {
	t.Helper()
	var env utils.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestValidateBody_Create(t *testing.T) {
	var got models.CreateTaskInput
	reached := false
	h := ValidateBody(newErrorWriter(), CreateTaskSchema, models.ValidateCreate)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			var ok bool
			got, ok = Body[models.CreateTaskInput](r)
			require.True(t, ok)
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	tests := []struct {
		name    string
		body    string
		status  int
		contain string
	}{
		{"valid", `{"title":"Buy milk","color":"blue"}`, http.StatusNoContent, ""},
		{"unknown fields ignored", `{"title":"Buy milk","color":"blue","id":"x"}`, http.StatusNoContent, ""},
		{"null optional fields", `{"title":"a","color":"red","description":null,"dueDate":null,"priority":null}`, http.StatusNoContent, ""},
		{"empty body", ``, http.StatusBadRequest, MsgInvalidJSON},
		{"malformed", `{"title":`, http.StatusBadRequest, MsgInvalidJSON},
		{"trailing data", `{"title":"a","color":"red"} {}`, http.StatusBadRequest, MsgInvalidJSON},
		{"array body", `[]`, http.StatusBadRequest, "body:"},
		{"wrong type", `{"title":5,"color":"red"}`, http.StatusBadRequest, "title:"},
		{"missing title", `{"color":"red"}`, http.StatusBadRequest, "Title is required"},
		{"blank title", `{"title":"   ","color":"red"}`, http.StatusBadRequest, "Title is required"},
		{"bad color", `{"title":"a","color":"turquoise"}`, http.StatusBadRequest, "Color must be one of"},
		{"bad priority", `{"title":"a","color":"red","priority":"someday"}`, http.StatusBadRequest, "Priority must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reached = false
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(tc.body))
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status != http.StatusBadRequest {
				assert.True(t, reached)
				return
			}
			assert.False(t, reached)
			env := decode(t, rec)
			assert.False(t, env.Success)
			assert.Contains(t, env.Error, tc.contain)
		})
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title":"Buy milk","color":"blue","priority":"high"}`)))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Buy milk", got.Title)
	require.NotNil(t, got.Priority)
	assert.Equal(t, "high", *got.Priority)
}

func TestValidateBody_Update(t *testing.T) {
	h := ValidateBody(newErrorWriter(), UpdateTaskSchema, models.ValidateUpdate)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			in, ok := Body[models.UpdateTaskInput](r)
			require.True(t, ok)
			require.NotNil(t, in.Completed)
			w.WriteHeader(http.StatusOK)
		}),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"completed":true}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"completed":"yes"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Error, "completed:")
}

func TestValidateBody_TooLarge(t *testing.T) {
	h := ValidateBody(newErrorWriter(), CreateTaskSchema, models.ValidateCreate)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}),
	)

	body := `{"title":"` + strings.Repeat("a", MaxBodyBytes) + `","color":"red"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MsgBodyTooLarge, decode(t, rec).Error)
}

func TestBody_Missing(t *testing.T) {
	_, ok := Body[models.CreateTaskInput](httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestValidateTaskID(t *testing.T) {
	h := ValidateTaskID(newErrorWriter())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		id     string
		status int
	}{
		{uuid.NewString(), http.StatusOK},
		{"not-a-uuid", http.StatusBadRequest},
		{"123", http.StatusBadRequest},
	}
	for _, tc := range tests {
		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/tasks/"+tc.id, nil), map[string]string{"id": tc.id})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, tc.id)
		if tc.status == http.StatusBadRequest {
			assert.Equal(t, MsgInvalidID, decode(t, rec).Error)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestRequestLogger(t *testing.T) {
	var buf strings.Builder
	logger := log.NewWithOptions(&buf, log.Options{Formatter: log.JSONFormatter})

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks?x=1", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &line))
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/api/tasks?x=1", line["path"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
	assert.Equal(t, "warn", line["level"])
}

func TestRecover(t *testing.T) {
	h := Recover(newErrorWriter())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, utils.MsgInternalError, env.Error)
	assert.Empty(t, env.Details)
}
