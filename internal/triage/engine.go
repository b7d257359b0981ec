package triage

import (
	"fmt"
	"strings"

	"carepilot/internal/suggest"
)

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Thresholds holds the numeric cutoffs the rule cascade evaluates against.
// They are configuration, loaded at engine construction, so the rule table
// can be audited and tuned without touching control flow.
type Thresholds struct {
	// PainUrgent is the pain scale value at or above which pain alone is
	// urgent.
	PainUrgent int
	// PainMax is the top of the pain scale; maximal pain with acute onset
	// is treated as an emergency even without a keyword match.
	PainMax int
	// AcuteOnsetHours bounds what counts as acute onset.
	AcuteOnsetHours float64
	// PediatricAge and GeriatricAge bound the age ranges that lower the bar
	// for escalation.
	PediatricAge int
	GeriatricAge int
	// ChronicHours is the duration beyond which a complaint is no longer a
	// self-care default.
	ChronicHours float64
	// SeriousConfidence is the minimum top-suggestion confidence for the
	// suggestion rule to fire.
	SeriousConfidence float64
}

// DefaultThresholds returns the shipped rule cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PainUrgent:        8,
		PainMax:           10,
		AcuteOnsetHours:   1,
		PediatricAge:      12,
		GeriatricAge:      65,
		ChronicHours:      168,
		SeriousConfidence: 0.7,
	}
}

func (t Thresholds) validate() error {
	if t.PainUrgent <= 0 || t.PainUrgent > t.PainMax {
		return fmt.Errorf("pain urgent cutoff %d must be in (0, %d]", t.PainUrgent, t.PainMax)
	}
	if t.PainMax != MaxPainScale {
		return fmt.Errorf("pain scale max %d must be %d", t.PainMax, MaxPainScale)
	}
	if t.AcuteOnsetHours <= 0 {
		return fmt.Errorf("acute onset window %g must be positive", t.AcuteOnsetHours)
	}
	if t.PediatricAge <= 0 || t.GeriatricAge <= t.PediatricAge {
		return fmt.Errorf("age bands %d/%d are not ordered", t.PediatricAge, t.GeriatricAge)
	}
	if t.ChronicHours <= 0 {
		return fmt.Errorf("chronic duration %g must be positive", t.ChronicHours)
	}
	if t.SeriousConfidence <= 0 || t.SeriousConfidence > 1 {
		return fmt.Errorf("serious confidence %g must be in (0, 1]", t.SeriousConfidence)
	}
	return nil
}

// Engine applies the ordered triage rule cascade. It is stateless: every
// Evaluate call is a pure function of its inputs, so concurrent evaluations
// need no locking.
type Engine struct {
	thresholds Thresholds
	serious    map[string]struct{}
}

// NewEngine constructs an engine from rule thresholds and the set of
// condition labels considered serious for the suggestion-confidence rule.
// Malformed thresholds are fatal here: the engine refuses to exist with a
// broken rule set rather than silently skip rules.
func NewEngine(thresholds Thresholds, seriousConditions []string) (*Engine, error) {
	if err := thresholds.validate(); err != nil {
		return nil, fmt.Errorf("invalid triage thresholds: %w", err)
	}
	serious := make(map[string]struct{}, len(seriousConditions))
	for _, label := range seriousConditions {
		serious[normalizeLabel(label)] = struct{}{}
	}
	return &Engine{thresholds: thresholds, serious: serious}, nil
}

// DefaultSeriousConditions is the shipped serious-condition label set.
func DefaultSeriousConditions() []string {
	return []string{
		"heart attack",
		"stroke",
		"pulmonary embolism",
		"sepsis",
		"meningitis",
		"appendicitis",
		"anaphylaxis",
		"diabetic ketoacidosis",
	}
}

// Evaluate runs the rule cascade over a validated record, the red-flag
// matches for its text, and the (possibly empty) condition suggestions.
// The verdict level is the maximum urgency across all rule contributions;
// the reasons are the contributions at that level, in evaluation order.
// Conflicting signals always resolve toward the higher urgency.
func (e *Engine) Evaluate(record SymptomRecord, redFlags []RedFlagMatch, suggestions []suggest.Suggestion) Verdict {
	var contributions []Contribution

	contributions = append(contributions, e.redFlagRule(redFlags)...)
	contributions = append(contributions, e.vitalExtremesRule(record)...)
	contributions = append(contributions, e.severityRule(record)...)
	contributions = append(contributions, e.historyRiskRule(record)...)
	contributions = append(contributions, e.durationRule(record)...)
	contributions = append(contributions, e.suggestionRule(suggestions)...)

	if len(contributions) == 0 {
		// The severity rule always contributes, so this path should be
		// unreachable. It exists so the engine can never return an empty
		// verdict, and the default is explicit in the reason list.
		return Verdict{
			Level:   LevelRoutine,
			Reasons: []string{"No specific rule matched; defaulting to Routine"},
		}
	}

	winner := contributions[0].Level
	for _, c := range contributions[1:] {
		if c.Level.MoreUrgent(winner) {
			winner = c.Level
		}
	}

	var reasons []string
	for _, c := range contributions {
		if c.Level == winner {
			reasons = append(reasons, c.Reason)
		}
	}
	return Verdict{Level: winner, Reasons: reasons}
}

// redFlagRule: any red-flag match contributes the table's implied minimum
// level, Emergency by default.
func (e *Engine) redFlagRule(matches []RedFlagMatch) []Contribution {
	var out []Contribution
	for _, m := range matches {
		level := m.MinLevel
		if level == "" {
			level = LevelEmergency
		}
		out = append(out, Contribution{
			Level:  level,
			Reason: fmt.Sprintf("Emergency indicator %q detected (%s)", m.Phrase, m.Category),
		})
	}
	return out
}

// vitalExtremesRule: very high pain is urgent on its own; maximal pain with
// acute onset is an emergency even without a keyword match.
func (e *Engine) vitalExtremesRule(record SymptomRecord) []Contribution {
	var out []Contribution
	if record.PainScale >= e.thresholds.PainMax && record.DurationHours < e.thresholds.AcuteOnsetHours {
		out = append(out, Contribution{
			Level: LevelEmergency,
			Reason: fmt.Sprintf("Extreme acute pain (%d/%d with onset under %g hour(s))",
				record.PainScale, e.thresholds.PainMax, e.thresholds.AcuteOnsetHours),
		})
	}
	if record.PainScale >= e.thresholds.PainUrgent {
		out = append(out, Contribution{
			Level:  LevelUrgent,
			Reason: fmt.Sprintf("Very high pain level (%d/%d)", record.PainScale, e.thresholds.PainMax),
		})
	}
	return out
}

var severityBaseline = map[Severity]Level{
	SeveritySevere:   LevelUrgent,
	SeverityModerate: LevelRoutine,
	SeverityMild:     LevelSelfCare,
}

// severityRule maps the self-reported severity to a baseline level. Ages at
// the pediatric or geriatric extremes shift the mapped level one step up,
// capped at Urgent: age risk alone never manufactures an Emergency.
func (e *Engine) severityRule(record SymptomRecord) []Contribution {
	base, ok := severityBaseline[record.Severity]
	if !ok {
		return nil
	}
	if record.Age < e.thresholds.PediatricAge || record.Age >= e.thresholds.GeriatricAge {
		if shifted := escalate(base); !shifted.MoreUrgent(LevelUrgent) {
			return []Contribution{{
				Level: shifted,
				Reason: fmt.Sprintf("Self-reported %s symptoms escalated to %s for age %d",
					record.Severity, shifted, record.Age),
			}}
		}
		return []Contribution{{
			Level:  LevelUrgent,
			Reason: fmt.Sprintf("Self-reported %s symptoms at high-risk age %d", record.Severity, record.Age),
		}}
	}
	return []Contribution{{
		Level:  base,
		Reason: fmt.Sprintf("Self-reported severity: %s", record.Severity),
	}}
}

func escalate(l Level) Level {
	switch l {
	case LevelSelfCare:
		return LevelRoutine
	case LevelRoutine:
		return LevelUrgent
	case LevelUrgent:
		return LevelEmergency
	default:
		return l
	}
}

// historyRiskEntry maps a medical-history term to the risk it carries.
// Ordered so reason output stays deterministic.
type historyRiskEntry struct {
	Term     string
	Category string
	Level    Level
}

var historyRiskTable = []historyRiskEntry{
	{Term: "immunocompromised", Category: "immunocompromised status", Level: LevelUrgent},
	{Term: "chemotherapy", Category: "immunocompromised status", Level: LevelUrgent},
	{Term: "transplant", Category: "immunocompromised status", Level: LevelUrgent},
	{Term: "hiv", Category: "immunocompromised status", Level: LevelUrgent},
	{Term: "pregnan", Category: "pregnancy", Level: LevelUrgent},
	{Term: "diabetes", Category: "cardiovascular risk factors", Level: LevelRoutine},
	{Term: "diabetic", Category: "cardiovascular risk factors", Level: LevelRoutine},
	{Term: "heart disease", Category: "cardiovascular risk factors", Level: LevelRoutine},
	{Term: "hypertension", Category: "cardiovascular risk factors", Level: LevelRoutine},
	{Term: "high blood pressure", Category: "cardiovascular risk factors", Level: LevelRoutine},
	{Term: "stroke", Category: "neurological history", Level: LevelRoutine},
	{Term: "epilepsy", Category: "neurological history", Level: LevelRoutine},
	{Term: "asthma", Category: "respiratory history", Level: LevelRoutine},
	{Term: "copd", Category: "respiratory history", Level: LevelRoutine},
	{Term: "kidney disease", Category: "organ dysfunction", Level: LevelRoutine},
	{Term: "dialysis", Category: "organ dysfunction", Level: LevelRoutine},
	{Term: "liver disease", Category: "organ dysfunction", Level: LevelRoutine},
}

// historyRiskRule: known risk factors in the medical history raise the floor
// for the current complaint. One contribution per risk category.
func (e *Engine) historyRiskRule(record SymptomRecord) []Contribution {
	if strings.TrimSpace(record.MedicalHistory) == "" {
		return nil
	}
	lowered := strings.ToLower(record.MedicalHistory)
	seen := map[string]struct{}{}
	var out []Contribution
	for _, entry := range historyRiskTable {
		if !strings.Contains(lowered, entry.Term) {
			continue
		}
		if _, dup := seen[entry.Category]; dup {
			continue
		}
		seen[entry.Category] = struct{}{}
		out = append(out, Contribution{
			Level:  entry.Level,
			Reason: fmt.Sprintf("Medical history indicates %s", entry.Category),
		})
	}
	return out
}

// durationRule: long-standing symptoms warrant at least a routine visit, so
// chronic-but-mild complaints do not default to self-care silently.
func (e *Engine) durationRule(record SymptomRecord) []Contribution {
	if record.DurationHours > e.thresholds.ChronicHours {
		return []Contribution{{
			Level:  LevelRoutine,
			Reason: fmt.Sprintf("Symptoms persisting beyond %g hours", e.thresholds.ChronicHours),
		}}
	}
	return nil
}

// suggestionRule: a confident top suggestion for a serious condition is
// urgent. Degrades to no contribution when the suggester was unavailable or
// returned nothing; the engine has no hard dependency on it.
func (e *Engine) suggestionRule(suggestions []suggest.Suggestion) []Contribution {
	if len(suggestions) == 0 {
		return nil
	}
	top := suggestions[0]
	if _, ok := e.serious[normalizeLabel(top.Condition)]; !ok {
		return nil
	}
	if top.Confidence < e.thresholds.SeriousConfidence {
		return nil
	}
	return []Contribution{{
		Level: LevelUrgent,
		Reason: fmt.Sprintf("Symptom pattern suggests %s (confidence %.2f)",
			top.Condition, top.Confidence),
	}}
}
