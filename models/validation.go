package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// CreateTaskInput is the payload accepted when creating a task.
type CreateTaskInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Color       string  `json:"color" validate:"required,oneof=red blue green yellow purple orange pink gray"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	DueDate     *string `json:"dueDate" validate:"omitnil,duedate"`
	Priority    *string `json:"priority" validate:"omitnil,oneof=low medium high urgent"`
}

// Normalize returns a copy with the title trimmed.
func (in CreateTaskInput) Normalize() CreateTaskInput {
	in.Title = strings.TrimSpace(in.Title)
	return in
}

// UpdateTaskInput is a partial payload; absent fields stay unchanged.
type UpdateTaskInput struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Color       *string `json:"color" validate:"omitnil,oneof=red blue green yellow purple orange pink gray"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	DueDate     *string `json:"dueDate" validate:"omitnil,duedate"`
	Priority    *string `json:"priority" validate:"omitnil,oneof=low medium high urgent"`
	Completed   *bool   `json:"completed"`
}

// Normalize returns a copy with the title, if present, trimmed.
func (in UpdateTaskInput) Normalize() UpdateTaskInput {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}
	return in
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		_, err := ParseDueDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateCreate checks a create payload.
func ValidateCreate(in CreateTaskInput) error {
	return check(in.Normalize())
}

// ValidateUpdate checks a partial update payload.
func ValidateUpdate(in UpdateTaskInput) error {
	return check(in.Normalize())
}

func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	issues := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, issueMessage(fe))
	}
	return &ValidationError{Issues: issues}
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "title":
		if fe.Tag() == "max" {
			return "Title too long"
		}
		return "Title is required"
	case "color":
		if fe.Tag() == "required" {
			return "Color is required"
		}
		return "Color must be one of: " + strings.Join(TaskColors, ", ")
	case "description":
		return "Description too long"
	case "dueDate":
		return "Due date must be a valid date"
	case "priority":
		return "Priority must be one of: " + strings.Join(TaskPriorities, ", ")
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// ParseDueDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date
// (interpreted as midnight UTC).
func ParseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q", s)
	}
	return t, nil
}
