package middlewares

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todo-api/utils"
)

// MaxBodyBytes caps every request body read by ValidateBody.
const MaxBodyBytes = 1 << 20

const (
	MsgInvalidJSON  = "Invalid JSON body"
	MsgBodyTooLarge = "Request body too large"
	MsgInvalidID    = "Invalid task ID"
)

type contextKey string

const bodyKey contextKey = "body"

//go:embed schemas/*.json
var schemaFS embed.FS

// Compiled request schemas.
var (
	CreateTaskSchema = mustCompile("create_task.json")
	UpdateTaskSchema = mustCompile("update_task.json")
)

func mustCompile(name string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(err)
	}

	url := "https://todo-api.local/schemas/" + name
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return schema
}

// ValidateBody reads the JSON body, checks it against schema, decodes it
// into T and applies rule. Any failure ends the request with a 400; on
// success the decoded value is available to the next handler through Body.
func ValidateBody[T any](ew *utils.ErrorWriter, schema *jsonschema.Schema, rule func(T) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					ew.BadRequest(w, r, MsgBodyTooLarge)
					return
				}
				ew.Write(w, r, err)
				return
			}

			dec := json.NewDecoder(bytes.NewReader(data))
			dec.UseNumber()
			var doc any
			if err := dec.Decode(&doc); err != nil || dec.More() {
				ew.BadRequest(w, r, MsgInvalidJSON)
				return
			}

			if err := schema.Validate(doc); err != nil {
				ew.BadRequest(w, r, schemaIssues(err)...)
				return
			}

			var body T
			if err := json.Unmarshal(data, &body); err != nil {
				ew.BadRequest(w, r, MsgInvalidJSON)
				return
			}
			if err := rule(body); err != nil {
				ew.Write(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), bodyKey, body)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Body returns the value stored by ValidateBody.
func Body[T any](r *http.Request) (T, bool) {
	body, ok := r.Context().Value(bodyKey).(T)
	return body, ok
}

// ValidateTaskID rejects requests whose {id} path parameter is not a UUID.
func ValidateTaskID(ew *utils.ErrorWriter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := mux.Vars(r)["id"]
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := uuid.Parse(id); err != nil {
				ew.BadRequest(w, r, MsgInvalidID)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func schemaIssues(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var issues []string
	collectSchemaIssues(ve, &issues)
	return issues
}

func collectSchemaIssues(ve *jsonschema.ValidationError, issues *[]string) {
	if len(ve.Causes) == 0 {
		*issues = append(*issues, fieldName(ve.InstanceLocation)+": "+ve.Message)
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaIssues(cause, issues)
	}
}

func fieldName(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return "body"
	}
	return strings.ReplaceAll(ptr, "/", ".")
}

