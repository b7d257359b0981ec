package triage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// RedFlagEntry is one row of the red-flag phrase table: a phrase whose
// presence in the symptom text implies at least MinLevel. The table is
// external configuration; the matcher consumes it but does not own it.
type RedFlagEntry struct {
	Phrase   string `json:"phrase"`
	Category string `json:"category"`
	MinLevel Level  `json:"min_level,omitempty"`
}

// RedFlagMatcher scans free text for emergency-indicating phrases.
// Matching is case-insensitive substring matching, independent per phrase.
type RedFlagMatcher struct {
	entries []RedFlagEntry
}

// NewRedFlagMatcher builds a matcher from a phrase table. An empty table is
// a configuration error: the engine must not run with no red-flag rules.
func NewRedFlagMatcher(entries []RedFlagEntry) (*RedFlagMatcher, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("red-flag table is empty")
	}
	normalized := make([]RedFlagEntry, 0, len(entries))
	for i, e := range entries {
		phrase := strings.ToLower(strings.TrimSpace(e.Phrase))
		if phrase == "" {
			return nil, fmt.Errorf("red-flag table entry %d has an empty phrase", i)
		}
		if e.Category == "" {
			return nil, fmt.Errorf("red-flag table entry %q has no category", e.Phrase)
		}
		level := e.MinLevel
		if level == "" {
			level = LevelEmergency
		}
		if _, ok := levelRank[level]; !ok {
			return nil, fmt.Errorf("red-flag table entry %q has unknown level %q", e.Phrase, e.MinLevel)
		}
		normalized = append(normalized, RedFlagEntry{Phrase: phrase, Category: e.Category, MinLevel: level})
	}
	return &RedFlagMatcher{entries: normalized}, nil
}

// LoadRedFlagTable reads a phrase table from a JSON file.
func LoadRedFlagTable(path string) ([]RedFlagEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read red-flag table: %w", err)
	}
	var entries []RedFlagEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse red-flag table %s: %w", path, err)
	}
	return entries, nil
}

// Match returns every table phrase found in text. Multiple phrases may match
// the same text; the result preserves table order.
func (m *RedFlagMatcher) Match(text string) []RedFlagMatch {
	lowered := strings.ToLower(text)
	var matches []RedFlagMatch
	for _, e := range m.entries {
		if strings.Contains(lowered, e.Phrase) {
			matches = append(matches, RedFlagMatch{
				Phrase:   e.Phrase,
				Category: e.Category,
				MinLevel: e.MinLevel,
			})
		}
	}
	return matches
}

// DefaultRedFlagTable is the built-in phrase table, used when no external
// table is configured. Derived from standard emergency screening phrases.
func DefaultRedFlagTable() []RedFlagEntry {
	return []RedFlagEntry{
		{Phrase: "chest pain", Category: "cardiac-emergency"},
		{Phrase: "chest pressure", Category: "cardiac-emergency"},
		{Phrase: "chest tightness", Category: "cardiac-emergency"},
		{Phrase: "crushing chest", Category: "cardiac-emergency"},
		{Phrase: "irregular heartbeat", Category: "cardiac-emergency"},
		{Phrase: "difficulty breathing", Category: "respiratory-emergency"},
		{Phrase: "shortness of breath", Category: "respiratory-emergency"},
		{Phrase: "can't breathe", Category: "respiratory-emergency"},
		{Phrase: "struggling to breathe", Category: "respiratory-emergency"},
		{Phrase: "throat swelling", Category: "respiratory-emergency"},
		{Phrase: "blue lips", Category: "respiratory-emergency"},
		{Phrase: "stridor", Category: "respiratory-emergency"},
		{Phrase: "facial droop", Category: "stroke"},
		{Phrase: "slurred speech", Category: "stroke"},
		{Phrase: "one-sided weakness", Category: "stroke"},
		{Phrase: "sudden weakness", Category: "stroke"},
		{Phrase: "sudden vision loss", Category: "stroke"},
		{Phrase: "thunderclap headache", Category: "neurological-emergency"},
		{Phrase: "worst headache", Category: "neurological-emergency"},
		{Phrase: "loss of consciousness", Category: "neurological-emergency"},
		{Phrase: "unresponsive", Category: "neurological-emergency"},
		{Phrase: "seizure", Category: "neurological-emergency"},
		{Phrase: "convulsions", Category: "neurological-emergency"},
		{Phrase: "severe bleeding", Category: "trauma"},
		{Phrase: "uncontrolled bleeding", Category: "trauma"},
		{Phrase: "vomiting blood", Category: "gastrointestinal-emergency"},
		{Phrase: "black stools", Category: "gastrointestinal-emergency"},
		{Phrase: "rigid abdomen", Category: "gastrointestinal-emergency"},
		{Phrase: "suicidal", Category: "mental-health-emergency"},
		{Phrase: "suicide attempt", Category: "mental-health-emergency"},
		{Phrase: "overdose", Category: "poisoning"},
		{Phrase: "poisoning", Category: "poisoning"},
		{Phrase: "anaphylaxis", Category: "allergic-emergency"},
		{Phrase: "febrile seizure", Category: "pediatric-emergency"},
		{Phrase: "severe dehydration", Category: "pediatric-emergency"},
	}
}
