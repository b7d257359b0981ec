package intake

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carepilot/internal/feedback"
)

type Repository interface {
	SaveSurvey(ctx context.Context, s *Survey) error
	AppendFeedback(ctx context.Context, rec feedback.Record) error
	RecentFeedback(ctx context.Context, limit int) ([]feedback.Record, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) SaveSurvey(ctx context.Context, s *Survey) error {
	recordJSON, err := json.Marshal(s.Record)
	if err != nil {
		return err
	}
	flagsJSON, err := json.Marshal(s.RedFlags)
	if err != nil {
		return err
	}
	suggestionsJSON, err := json.Marshal(s.Suggestions)
	if err != nil {
		return err
	}
	reasonsJSON, err := json.Marshal(s.Verdict.Reasons)
	if err != nil {
		return err
	}

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO surveys (id, record, red_flags, suggestions, level, reasons, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, recordJSON, flagsJSON, suggestionsJSON, string(s.Verdict.Level), reasonsJSON, s.CreatedAt)
	return err
}

func (r *postgresRepo) AppendFeedback(ctx context.Context, rec feedback.Record) error {
	predictionsJSON, err := json.Marshal(rec.Predictions)
	if err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO feedback (id, symptoms, predictions, correct_condition, helpful_score, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		uuid.New(), rec.Symptoms, predictionsJSON, rec.CorrectCondition, rec.HelpfulScore, rec.Comments, rec.CreatedAt)
	return err
}

func (r *postgresRepo) RecentFeedback(ctx context.Context, limit int) ([]feedback.Record, error) {
	query := `
		SELECT symptoms, predictions, correct_condition, helpful_score, comments, created_at
		FROM feedback
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []feedback.Record
	for rows.Next() {
		var rec feedback.Record
		var predictionsJSON []byte
		if err := rows.Scan(&rec.Symptoms, &predictionsJSON, &rec.CorrectCondition, &rec.HelpfulScore, &rec.Comments, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if len(predictionsJSON) > 0 {
			if err := json.Unmarshal(predictionsJSON, &rec.Predictions); err != nil {
				return nil, fmt.Errorf("failed to unmarshal predictions: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
