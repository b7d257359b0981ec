package intake

import (
	"time"

	"github.com/google/uuid"

	"carepilot/internal/suggest"
	"carepilot/internal/triage"
)

// Survey is one completed intake evaluation: the submitted record plus
// everything the pipeline derived from it.
type Survey struct {
	ID          uuid.UUID             `json:"id" db:"id"`
	Record      triage.SymptomRecord  `json:"record" db:"record"`
	RedFlags    []triage.RedFlagMatch `json:"red_flags,omitempty" db:"red_flags"`
	Suggestions []suggest.Suggestion  `json:"suggestions,omitempty" db:"suggestions"`
	Verdict     triage.Verdict        `json:"verdict" db:"verdict"`
	CreatedAt   time.Time             `json:"created_at" db:"created_at"`
}

// TriageResult is what the HTTP surface returns for an intake submission.
type TriageResult struct {
	SurveyID    uuid.UUID             `json:"survey_id"`
	Verdict     triage.Verdict        `json:"verdict"`
	Guidance    triage.Guidance       `json:"guidance"`
	Suggestions []suggest.Suggestion  `json:"suggestions"`
	RedFlags    []triage.RedFlagMatch `json:"red_flags,omitempty"`
	// Resources maps suggested condition labels to information links.
	Resources map[string][]triage.ResourceLink `json:"resources,omitempty"`
}
