package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carepilot/internal/feedback"
	"carepilot/internal/suggest"
	"carepilot/internal/triage"
)

type stubSuggester struct {
	suggestions []suggest.Suggestion
	err         error
	calls       int
}

func (s *stubSuggester) Suggest(ctx context.Context, text string, labels []string, topK int) ([]suggest.Suggestion, error) {
	s.calls++
	return s.suggestions, s.err
}

type stubRepo struct {
	surveys  []Survey
	feedback []feedback.Record
	saveErr  error
}

func (r *stubRepo) SaveSurvey(ctx context.Context, s *Survey) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.surveys = append(r.surveys, *s)
	return nil
}

func (r *stubRepo) AppendFeedback(ctx context.Context, rec feedback.Record) error {
	r.feedback = append(r.feedback, rec)
	return nil
}

func (r *stubRepo) RecentFeedback(ctx context.Context, limit int) ([]feedback.Record, error) {
	return r.feedback, nil
}

type stubReport struct {
	alerts chan Survey
}

func (r *stubReport) SendEmergencyAlert(ctx context.Context, s Survey) error {
	r.alerts <- s
	return nil
}

func newTestService(t *testing.T, repo Repository, suggester suggest.Suggester, reportSvc ReportService) Service {
	t.Helper()
	matcher, err := triage.NewRedFlagMatcher(triage.DefaultRedFlagTable())
	require.NoError(t, err)
	engine, err := triage.NewEngine(triage.DefaultThresholds(), triage.DefaultSeriousConditions())
	require.NoError(t, err)
	resources := triage.Resources{Conditions: map[string][]triage.ResourceLink{
		"migraine": {{Name: "MedlinePlus", URL: "https://medlineplus.gov/migraine.html"}},
	}}
	return NewService(repo, suggester, matcher, engine, nil, reportSvc, resources)
}

func validRecord() triage.SymptomRecord {
	return triage.SymptomRecord{
		Age:           30,
		DurationHours: 2,
		SymptomsText:  "bad headache since lunch",
		PainScale:     3,
		Severity:      triage.SeverityMild,
	}
}

func TestService_Triage(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path persists survey and returns verdict", func(t *testing.T) {
		repo := &stubRepo{}
		suggester := &stubSuggester{suggestions: []suggest.Suggestion{{Condition: "migraine", Confidence: 0.8}}}
		svc := newTestService(t, repo, suggester, nil)

		result, err := svc.Triage(ctx, validRecord())
		require.NoError(t, err)

		assert.Equal(t, triage.LevelSelfCare, result.Verdict.Level)
		assert.NotEmpty(t, result.Verdict.Reasons)
		assert.Equal(t, result.Verdict.Level, result.Guidance.Level)
		assert.Len(t, result.Suggestions, 1)
		assert.Contains(t, result.Resources, "migraine")

		require.Len(t, repo.surveys, 1)
		assert.Equal(t, result.SurveyID, repo.surveys[0].ID)
	})

	t.Run("rejects invalid record before evaluation", func(t *testing.T) {
		repo := &stubRepo{}
		suggester := &stubSuggester{}
		svc := newTestService(t, repo, suggester, nil)

		record := validRecord()
		record.PainScale = 11

		_, err := svc.Triage(ctx, record)
		require.Error(t, err)

		var fieldErr *triage.FieldError
		require.True(t, errors.As(err, &fieldErr))
		assert.Equal(t, "pain_scale", fieldErr.Field)

		assert.Zero(t, suggester.calls, "suggester must not run for invalid records")
		assert.Empty(t, repo.surveys)
	})

	t.Run("suggester failure degrades to no suggestions", func(t *testing.T) {
		repo := &stubRepo{}
		suggester := &stubSuggester{err: errors.New("model timeout")}
		svc := newTestService(t, repo, suggester, nil)

		result, err := svc.Triage(ctx, validRecord())
		require.NoError(t, err)
		assert.Empty(t, result.Suggestions)
		assert.Equal(t, triage.LevelSelfCare, result.Verdict.Level)
	})

	t.Run("persistence failure does not fail the verdict", func(t *testing.T) {
		repo := &stubRepo{saveErr: errors.New("db down")}
		svc := newTestService(t, repo, &stubSuggester{}, nil)

		result, err := svc.Triage(ctx, validRecord())
		require.NoError(t, err)
		assert.Equal(t, triage.LevelSelfCare, result.Verdict.Level)
	})

	t.Run("emergency verdict dispatches clinician alert", func(t *testing.T) {
		repo := &stubRepo{}
		reportSvc := &stubReport{alerts: make(chan Survey, 1)}
		svc := newTestService(t, repo, &stubSuggester{}, reportSvc)

		record := validRecord()
		record.SymptomsText = "crushing chest pain and difficulty breathing"

		result, err := svc.Triage(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, triage.LevelEmergency, result.Verdict.Level)

		select {
		case alert := <-reportSvc.alerts:
			assert.Equal(t, result.SurveyID, alert.ID)
			assert.Equal(t, triage.LevelEmergency, alert.Verdict.Level)
		case <-time.After(2 * time.Second):
			t.Fatal("expected an emergency alert to be dispatched")
		}
	})

	t.Run("routine verdict sends no alert", func(t *testing.T) {
		reportSvc := &stubReport{alerts: make(chan Survey, 1)}
		svc := newTestService(t, &stubRepo{}, &stubSuggester{}, reportSvc)

		_, err := svc.Triage(ctx, validRecord())
		require.NoError(t, err)

		select {
		case <-reportSvc.alerts:
			t.Fatal("no alert expected for a self-care verdict")
		case <-time.After(50 * time.Millisecond):
		}
	})
}

func TestService_RecordFeedback(t *testing.T) {
	ctx := context.Background()
	repo := &stubRepo{}
	svc := newTestService(t, repo, &stubSuggester{}, nil)

	rec := feedback.Record{
		Symptoms:         "bad headache since lunch",
		Predictions:      []suggest.Suggestion{{Condition: "migraine", Confidence: 0.8}},
		CorrectCondition: "tension headache",
		HelpfulScore:     "Somewhat",
	}
	require.NoError(t, svc.RecordFeedback(ctx, rec))
	require.Len(t, repo.feedback, 1)
	assert.False(t, repo.feedback[0].CreatedAt.IsZero())

	err := svc.RecordFeedback(ctx, feedback.Record{})
	assert.Error(t, err)
}
