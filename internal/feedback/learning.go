package feedback

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"carepilot/internal/suggest"
)

// Record is one append-only feedback log entry: what the user reported,
// what was predicted, and how useful they found it.
type Record struct {
	Symptoms         string               `json:"symptoms"`
	Predictions      []suggest.Suggestion `json:"predictions"`
	CorrectCondition string               `json:"correct_condition,omitempty"`
	HelpfulScore     string               `json:"helpful_score"`
	Comments         string               `json:"comments,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

// History supplies past feedback records, most recent first.
type History interface {
	RecentFeedback(ctx context.Context, limit int) ([]Record, error)
}

const (
	historyWindow = 200
	// minSharedKeywords is how many symptom keywords a past record must
	// share with the query before its feedback applies.
	minSharedKeywords = 2

	correctBoost = 0.2
	wrongPenalty = 0.1
)

// Learner adjusts suggestion scores using accumulated feedback on similar
// symptom descriptions. Confirmed conditions are boosted, contradicted ones
// penalized, weighted by how helpful users rated the predictions.
type Learner struct {
	history History
}

func NewLearner(history History) *Learner {
	return &Learner{history: history}
}

func helpfulMultiplier(score string) float64 {
	switch strings.ToLower(score) {
	case "yes", "very":
		return 1.0
	case "somewhat":
		return 0.5
	case "no":
		return -0.5
	default:
		return 0.0
	}
}

// Adjust returns the suggestions with feedback-derived corrections applied,
// clamped to [0, 1] and re-sorted. Any failure to load history leaves the
// suggestions untouched; learning is strictly best-effort.
func (l *Learner) Adjust(ctx context.Context, symptoms string, suggestions []suggest.Suggestion) []suggest.Suggestion {
	if l == nil || l.history == nil || len(suggestions) == 0 {
		return suggestions
	}

	records, err := l.history.RecentFeedback(ctx, historyWindow)
	if err != nil {
		log.Printf("feedback history unavailable, skipping adjustments: %v", err)
		return suggestions
	}

	queryKeywords := extractKeywords(symptoms)
	if len(queryKeywords) == 0 {
		return suggestions
	}

	// Per-condition multipliers from relevant records, aggregated below.
	boosts := map[string][]float64{}
	penalties := map[string][]float64{}

	for _, rec := range records {
		if sharedKeywords(queryKeywords, extractKeywords(rec.Symptoms)) < minSharedKeywords {
			continue
		}
		mult := helpfulMultiplier(rec.HelpfulScore)
		if rec.CorrectCondition == "" || mult == 0 {
			continue
		}
		correct := strings.ToLower(strings.TrimSpace(rec.CorrectCondition))
		boosts[correct] = append(boosts[correct], mult)
		for _, pred := range rec.Predictions {
			label := strings.ToLower(strings.TrimSpace(pred.Condition))
			if label != correct {
				penalties[label] = append(penalties[label], mult)
			}
		}
	}
	if len(boosts) == 0 && len(penalties) == 0 {
		return suggestions
	}

	adjusted := make([]suggest.Suggestion, len(suggestions))
	copy(adjusted, suggestions)
	for i, s := range adjusted {
		label := strings.ToLower(strings.TrimSpace(s.Condition))
		score := s.Confidence
		if mults, ok := boosts[label]; ok {
			if mean, err := stats.Mean(mults); err == nil {
				score += correctBoost * mean
			}
		}
		if mults, ok := penalties[label]; ok {
			if mean, err := stats.Mean(mults); err == nil {
				score -= wrongPenalty * mean
			}
		}
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		adjusted[i].Confidence = score
	}

	sort.SliceStable(adjusted, func(i, j int) bool {
		return adjusted[i].Confidence > adjusted[j].Confidence
	})
	return adjusted
}

// symptomKeywords is the vocabulary used to judge whether two symptom
// descriptions are about the same complaint.
var symptomKeywords = []string{
	"pain", "ache", "burning", "stabbing", "cramping",
	"fever", "chills", "sweating",
	"nausea", "vomit", "diarrhea", "constipation",
	"headache", "migraine", "confusion", "seizure",
	"weakness", "fatigue", "numbness", "tingling",
	"chest", "heart", "breath", "palpitations",
	"cough", "wheezing", "phlegm",
	"rash", "itch", "swelling", "hives",
	"joint", "muscle", "stiffness",
	"urination", "bladder", "kidney",
	"anxiety", "panic", "depression",
	"bleeding", "blood", "faint", "dizzy",
	"throat", "stomach", "abdomen", "back", "head",
}

func extractKeywords(text string) map[string]struct{} {
	lowered := strings.ToLower(text)
	found := map[string]struct{}{}
	for _, kw := range symptomKeywords {
		if strings.Contains(lowered, kw) {
			found[kw] = struct{}{}
		}
	}
	return found
}

func sharedKeywords(a, b map[string]struct{}) int {
	n := 0
	for kw := range a {
		if _, ok := b[kw]; ok {
			n++
		}
	}
	return n
}
