package intake

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"carepilot/internal/feedback"
	"carepilot/internal/suggest"
	"carepilot/internal/triage"
)

// suggesterTimeout bounds the condition-scoring call. A late or failed
// suggester degrades to an empty suggestion list; it never blocks or fails
// the triage verdict.
const suggesterTimeout = 10 * time.Second

// ReportService delivers an alert for surveys that triaged to Emergency.
type ReportService interface {
	SendEmergencyAlert(ctx context.Context, s Survey) error
}

type Service interface {
	Triage(ctx context.Context, record triage.SymptomRecord) (*TriageResult, error)
	RecordFeedback(ctx context.Context, rec feedback.Record) error
}

type service struct {
	repo      Repository
	suggester suggest.Suggester
	matcher   *triage.RedFlagMatcher
	engine    *triage.Engine
	learner   *feedback.Learner
	reportSvc ReportService
	resources triage.Resources
}

// NewService wires the triage pipeline. suggester, learner, reportSvc and
// repo may each be nil; the pipeline degrades rather than fails without
// them.
func NewService(repo Repository, suggester suggest.Suggester, matcher *triage.RedFlagMatcher, engine *triage.Engine, learner *feedback.Learner, reportSvc ReportService, resources triage.Resources) Service {
	return &service{
		repo:      repo,
		suggester: suggester,
		matcher:   matcher,
		engine:    engine,
		learner:   learner,
		reportSvc: reportSvc,
		resources: resources,
	}
}

// Triage validates the record, gathers suggestions and red-flag matches,
// and runs the rule engine. Persistence and emergency alerting are
// best-effort side effects; the verdict itself cannot fail for a valid
// record.
func (s *service) Triage(ctx context.Context, record triage.SymptomRecord) (*TriageResult, error) {
	if err := triage.Validate(record); err != nil {
		return nil, fmt.Errorf("invalid symptom record: %w", err)
	}

	suggestions := s.collectSuggestions(ctx, record.SymptomsText)
	redFlags := s.matcher.Match(record.SymptomsText)
	verdict := s.engine.Evaluate(record, redFlags, suggestions)
	guidance := triage.ComposeGuidance(verdict.Level)

	survey := Survey{
		ID:          uuid.New(),
		Record:      record,
		RedFlags:    redFlags,
		Suggestions: suggestions,
		Verdict:     verdict,
		CreatedAt:   time.Now(),
	}

	if s.repo != nil {
		if err := s.repo.SaveSurvey(ctx, &survey); err != nil {
			log.Printf("failed to persist survey %s: %v", survey.ID, err)
		}
	}

	if verdict.Level == triage.LevelEmergency && s.reportSvc != nil {
		go func(sv Survey) {
			// Detached context: the alert must outlive the request.
			bgCtx := context.Background()
			if err := s.reportSvc.SendEmergencyAlert(bgCtx, sv); err != nil {
				log.Printf("failed to send emergency alert for survey %s: %v", sv.ID, err)
			}
		}(survey)
	}

	var links map[string][]triage.ResourceLink
	for _, sug := range suggestions {
		if found := s.resources.ForCondition(sug.Condition); len(found) > 0 {
			if links == nil {
				links = map[string][]triage.ResourceLink{}
			}
			links[sug.Condition] = found
		}
	}

	return &TriageResult{
		SurveyID:    survey.ID,
		Verdict:     verdict,
		Guidance:    guidance,
		Suggestions: suggestions,
		RedFlags:    redFlags,
		Resources:   links,
	}, nil
}

// collectSuggestions calls the suggester under a timeout and applies
// feedback-learning corrections. Any failure yields an empty list.
func (s *service) collectSuggestions(ctx context.Context, text string) []suggest.Suggestion {
	if s.suggester == nil {
		return nil
	}
	suggestCtx, cancel := context.WithTimeout(ctx, suggesterTimeout)
	defer cancel()

	suggestions, err := s.suggester.Suggest(suggestCtx, text, suggest.DefaultCandidateLabels(), suggest.DefaultTopK)
	if err != nil {
		log.Printf("condition suggester unavailable, continuing without suggestions: %v", err)
		return nil
	}
	if s.learner != nil {
		suggestions = s.learner.Adjust(ctx, text, suggestions)
	}
	return suggestions
}

func (s *service) RecordFeedback(ctx context.Context, rec feedback.Record) error {
	if rec.Symptoms == "" {
		return fmt.Errorf("feedback requires the symptoms it refers to")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if s.repo == nil {
		return fmt.Errorf("feedback log is not configured")
	}
	return s.repo.AppendFeedback(ctx, rec)
}
