package triage

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const (
	MaxAge       = 120
	MaxPainScale = 10
)

// FieldError reports a single malformed field on a SymptomRecord.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a SymptomRecord before evaluation. All violations are
// collected so the caller can report every bad field at once. A record that
// fails validation must never reach Engine.Evaluate.
func Validate(r SymptomRecord) error {
	var result *multierror.Error

	if r.Age < 0 || r.Age > MaxAge {
		result = multierror.Append(result, &FieldError{
			Field:   "age",
			Message: fmt.Sprintf("must be between 0 and %d, got %d", MaxAge, r.Age),
		})
	}
	if r.DurationHours < 0 {
		result = multierror.Append(result, &FieldError{
			Field:   "duration_hours",
			Message: fmt.Sprintf("must not be negative, got %g", r.DurationHours),
		})
	}
	if strings.TrimSpace(r.SymptomsText) == "" {
		result = multierror.Append(result, &FieldError{
			Field:   "symptoms_text",
			Message: "must not be empty",
		})
	}
	if r.PainScale < 0 || r.PainScale > MaxPainScale {
		result = multierror.Append(result, &FieldError{
			Field:   "pain_scale",
			Message: fmt.Sprintf("must be between 0 and %d, got %d", MaxPainScale, r.PainScale),
		})
	}
	switch r.Severity {
	case SeverityMild, SeverityModerate, SeveritySevere:
	default:
		result = multierror.Append(result, &FieldError{
			Field:   "severity",
			Message: fmt.Sprintf("must be one of mild, moderate or severe, got %q", r.Severity),
		})
	}

	return result.ErrorOrNil()
}
