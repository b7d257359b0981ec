package triage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcceptsWellFormedRecord(t *testing.T) {
	assert.NoError(t, Validate(midRangeRecord()))
}

func TestValidate_RejectsBadFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SymptomRecord)
		field  string
	}{
		{"negative age", func(r *SymptomRecord) { r.Age = -1 }, "age"},
		{"age above bound", func(r *SymptomRecord) { r.Age = 121 }, "age"},
		{"negative duration", func(r *SymptomRecord) { r.DurationHours = -0.5 }, "duration_hours"},
		{"empty symptoms", func(r *SymptomRecord) { r.SymptomsText = "" }, "symptoms_text"},
		{"whitespace symptoms", func(r *SymptomRecord) { r.SymptomsText = "   \t" }, "symptoms_text"},
		{"pain scale above bound", func(r *SymptomRecord) { r.PainScale = 11 }, "pain_scale"},
		{"negative pain scale", func(r *SymptomRecord) { r.PainScale = -1 }, "pain_scale"},
		{"unknown severity", func(r *SymptomRecord) { r.Severity = "catastrophic" }, "severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := midRangeRecord()
			tt.mutate(&record)

			err := Validate(record)
			require.Error(t, err)

			var fieldErr *FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.field, fieldErr.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	record := SymptomRecord{
		Age:           200,
		DurationHours: -1,
		SymptomsText:  "",
		PainScale:     42,
		Severity:      "",
	}

	err := Validate(record)
	require.Error(t, err)

	for _, field := range []string{"age", "duration_hours", "symptoms_text", "pain_scale", "severity"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestValidate_ZeroDurationPermitted(t *testing.T) {
	record := midRangeRecord()
	record.DurationHours = 0
	assert.NoError(t, Validate(record))
}
