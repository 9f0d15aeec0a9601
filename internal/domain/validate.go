package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one invalid task field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every invalid field of a task input or patch.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return "invalid task: " + strings.Join(parts, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func taskValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
			return Priority(fl.Field().String()).Known()
		})
		validate = v
	})
	return validate
}

// Validate checks the input against the task table constraints.
func (in TaskInput) Validate() error {
	return toValidationError(taskValidator().Struct(in))
}

// Validate checks every field set on the patch.
func (p TaskPatch) Validate() error {
	return toValidationError(taskValidator().Struct(p))
}

// columnNames maps struct fields to the column names users see in errors.
var columnNames = map[string]string{
	"TaskName":      "task_name",
	"Assignee":      "assignee",
	"DueDate":       "due_date",
	"Priority":      "priority",
	"Progress":      "progress",
	"PastDelayDays": "past_delay_days",
	"Dependencies":  "dependencies",
	"RiskFactors":   "risk_factors",
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		name := CoalesceStr(columnNames[fe.StructField()], fe.StructField())
		out.Fields = append(out.Fields, FieldError{Field: name, Message: describeTag(fe)})
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "priority":
		return fmt.Sprintf("must be one of high, medium, low (got %q)", fmt.Sprint(fe.Value()))
	case "min":
		if fe.Kind().String() == "string" {
			return "must not be empty"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
