package suggest

import "context"

// Suggestion is a single candidate condition with an independent confidence
// score in [0, 1]. Scores are per-label and need not sum to 1.
type Suggestion struct {
	Condition  string  `json:"condition"`
	Confidence float64 `json:"confidence"`
}

// Suggester scores candidate condition labels against free-text symptoms.
// Implementations must return the suggestions sorted by confidence
// descending, truncated to topK, and must return an empty slice (not an
// error) when nothing scores. Deterministic for a fixed model snapshot.
type Suggester interface {
	Suggest(ctx context.Context, text string, candidateLabels []string, topK int) ([]Suggestion, error)
}

// DefaultTopK bounds the number of suggestions returned to the caller.
const DefaultTopK = 5

// DefaultCandidateLabels is the screening label set scored against the
// symptom text when the caller does not supply its own.
func DefaultCandidateLabels() []string {
	return []string{
		"heart attack",
		"stroke",
		"pneumonia",
		"pulmonary embolism",
		"appendicitis",
		"sepsis",
		"meningitis",
		"asthma",
		"bronchitis",
		"influenza",
		"covid-19",
		"migraine",
		"tension headache",
		"gastroenteritis",
		"food poisoning",
		"urinary tract infection",
		"kidney stones",
		"allergic reaction",
		"anemia",
		"anxiety",
		"depression",
		"muscle strain",
		"common cold",
	}
}
