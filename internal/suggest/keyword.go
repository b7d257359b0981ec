package suggest

import (
	"context"
	"sort"
	"strings"
)

// keywordMappings maps a symptom keyword to conditions it indicates, with a
// base confidence per condition. Used by the offline fallback scorer.
var keywordMappings = map[string][]Suggestion{
	"headache": {
		{Condition: "migraine", Confidence: 0.85},
		{Condition: "tension headache", Confidence: 0.80},
	},
	"fever": {
		{Condition: "influenza", Confidence: 0.80},
		{Condition: "pneumonia", Confidence: 0.75},
		{Condition: "covid-19", Confidence: 0.70},
	},
	"cough": {
		{Condition: "bronchitis", Confidence: 0.80},
		{Condition: "pneumonia", Confidence: 0.70},
		{Condition: "covid-19", Confidence: 0.65},
		{Condition: "asthma", Confidence: 0.60},
	},
	"chest pain": {
		{Condition: "heart attack", Confidence: 0.90},
		{Condition: "muscle strain", Confidence: 0.50},
	},
	"nausea": {
		{Condition: "gastroenteritis", Confidence: 0.80},
		{Condition: "food poisoning", Confidence: 0.75},
		{Condition: "migraine", Confidence: 0.70},
	},
	"vomiting": {
		{Condition: "gastroenteritis", Confidence: 0.85},
		{Condition: "food poisoning", Confidence: 0.80},
		{Condition: "appendicitis", Confidence: 0.60},
	},
	"diarrhea": {
		{Condition: "gastroenteritis", Confidence: 0.85},
		{Condition: "food poisoning", Confidence: 0.80},
	},
	"fatigue": {
		{Condition: "anemia", Confidence: 0.75},
		{Condition: "depression", Confidence: 0.70},
	},
	"wheezing": {
		{Condition: "asthma", Confidence: 0.85},
		{Condition: "bronchitis", Confidence: 0.65},
	},
	"sore throat": {
		{Condition: "common cold", Confidence: 0.80},
		{Condition: "influenza", Confidence: 0.65},
	},
	"burning urination": {
		{Condition: "urinary tract infection", Confidence: 0.90},
	},
	"rash": {
		{Condition: "allergic reaction", Confidence: 0.80},
	},
	"anxious": {
		{Condition: "anxiety", Confidence: 0.85},
	},
	"back pain": {
		{Condition: "muscle strain", Confidence: 0.80},
		{Condition: "kidney stones", Confidence: 0.55},
	},
	"abdominal pain": {
		{Condition: "gastroenteritis", Confidence: 0.70},
		{Condition: "appendicitis", Confidence: 0.65},
	},
}

// KeywordScorer is an offline Suggester backed by a fixed keyword table. It
// keeps the intake flow working when no model API key is configured.
type KeywordScorer struct{}

// NewKeywordScorer constructs the fallback scorer.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

// Suggest implements Suggester. Each keyword found in the text votes for its
// conditions; a condition keeps its highest vote. Deterministic and pure.
func (s *KeywordScorer) Suggest(ctx context.Context, text string, candidateLabels []string, topK int) ([]Suggestion, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	lowered := strings.ToLower(text)

	allowed := map[string]struct{}{}
	for _, label := range candidateLabels {
		allowed[strings.ToLower(strings.TrimSpace(label))] = struct{}{}
	}

	best := map[string]float64{}
	for keyword, conditions := range keywordMappings {
		if !strings.Contains(lowered, keyword) {
			continue
		}
		for _, c := range conditions {
			if len(allowed) > 0 {
				if _, ok := allowed[c.Condition]; !ok {
					continue
				}
			}
			if c.Confidence > best[c.Condition] {
				best[c.Condition] = c.Confidence
			}
		}
	}

	suggestions := make([]Suggestion, 0, len(best))
	for condition, confidence := range best {
		suggestions = append(suggestions, Suggestion{Condition: condition, Confidence: confidence})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Confidence != suggestions[j].Confidence {
			return suggestions[i].Confidence > suggestions[j].Confidence
		}
		return suggestions[i].Condition < suggestions[j].Condition
	})
	if len(suggestions) > topK {
		suggestions = suggestions[:topK]
	}
	return suggestions, nil
}
