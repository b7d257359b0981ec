package triage

// Level is a discrete triage outcome, totally ordered by urgency.
type Level string

const (
	LevelEmergency Level = "Emergency"
	LevelUrgent    Level = "Urgent"
	LevelRoutine   Level = "Routine"
	LevelSelfCare  Level = "Self-care"
)

var levelRank = map[Level]int{
	LevelSelfCare:  0,
	LevelRoutine:   1,
	LevelUrgent:    2,
	LevelEmergency: 3,
}

// Rank returns the position of the level in the urgency order.
// Higher means more urgent.
func (l Level) Rank() int {
	return levelRank[l]
}

// MoreUrgent reports whether l outranks other.
func (l Level) MoreUrgent(other Level) bool {
	return l.Rank() > other.Rank()
}

// Severity is the user's self-reported symptom severity. It is an input,
// distinct from the computed triage Level.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// SymptomRecord is the normalized intake input. It is immutable for the
// duration of an evaluation.
type SymptomRecord struct {
	Age            int      `json:"age"`
	DurationHours  float64  `json:"duration_hours"`
	SymptomsText   string   `json:"symptoms_text"`
	MedicalHistory string   `json:"medical_history,omitempty"`
	PainScale      int      `json:"pain_scale"`
	Severity       Severity `json:"severity"`
}

// RedFlagMatch is a triggered emergency phrase and the category it maps to.
type RedFlagMatch struct {
	Phrase   string `json:"phrase"`
	Category string `json:"category"`
	MinLevel Level  `json:"min_level"`
}

// Contribution is the output of a single rule check: a level and the
// human-readable reason that justifies it.
type Contribution struct {
	Level  Level
	Reason string
}

// Verdict is the final triage outcome. Reasons is never empty: every rule
// that determined the level contributed at least one entry.
type Verdict struct {
	Level   Level    `json:"level"`
	Reasons []string `json:"reasons"`
}
