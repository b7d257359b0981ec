package triage

import (
	"encoding/json"
	"fmt"
	"os"
)

// Guidance is the actionable text shown for a triage level, plus the
// resource category key the UI uses to look up links.
type Guidance struct {
	Level       Level    `json:"level"`
	Advice      []string `json:"advice"`
	ResourceKey string   `json:"resource_key"`
}

// ResourceLink points at an external information resource.
type ResourceLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Resources holds the external resource link tables: general links plus
// per-condition links keyed by lowercased condition label.
type Resources struct {
	General    []ResourceLink            `json:"general"`
	Conditions map[string][]ResourceLink `json:"conditions"`
}

// LoadResources reads the resource link tables from a JSON file. A missing
// file is not an error; links are optional.
func LoadResources(path string) (Resources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Resources{Conditions: map[string][]ResourceLink{}}, nil
		}
		return Resources{}, fmt.Errorf("failed to read resources: %w", err)
	}
	var r Resources
	if err := json.Unmarshal(data, &r); err != nil {
		return Resources{}, fmt.Errorf("failed to parse resources %s: %w", path, err)
	}
	if r.Conditions == nil {
		r.Conditions = map[string][]ResourceLink{}
	}
	return r, nil
}

// ForCondition returns the links for a condition label, if any.
func (r Resources) ForCondition(label string) []ResourceLink {
	return r.Conditions[normalizeLabel(label)]
}

var guidanceTable = map[Level]Guidance{
	LevelEmergency: {
		Level:       LevelEmergency,
		ResourceKey: "emergency",
		Advice: []string{
			"Call your local emergency number immediately (911, 999, 112, etc.)",
			"Do not drive yourself - use emergency services",
			"Stay with the person until help arrives",
			"Do not delay - every minute counts in emergencies",
		},
	},
	LevelUrgent: {
		Level:       LevelUrgent,
		ResourceKey: "urgent",
		Advice: []string{
			"Seek urgent care or contact your healthcare provider within 24 hours",
			"Consider visiting an urgent care center if symptoms worsen",
			"If symptoms worsen or new red flags develop, seek immediate care",
			"Keep track of symptoms and any changes",
		},
	},
	LevelRoutine: {
		Level:       LevelRoutine,
		ResourceKey: "routine",
		Advice: []string{
			"Schedule a routine appointment with your primary care provider",
			"Keep a detailed symptom diary and bring it to your visit",
			"Monitor symptoms and seek care if they worsen",
			"Consider over-the-counter treatments as appropriate",
		},
	},
	LevelSelfCare: {
		Level:       LevelSelfCare,
		ResourceKey: "self-care",
		Advice: []string{
			"Consider rest, fluids, and over-the-counter symptom relief as appropriate",
			"Monitor symptoms closely for any changes or worsening",
			"If symptoms worsen, persist beyond 3 days, or new symptoms develop, seek medical advice",
			"Stay hydrated and get adequate rest",
		},
	},
}

// ComposeGuidance maps a triage level to its display guidance. Pure lookup.
func ComposeGuidance(level Level) Guidance {
	if g, ok := guidanceTable[level]; ok {
		return g
	}
	return guidanceTable[LevelRoutine]
}
