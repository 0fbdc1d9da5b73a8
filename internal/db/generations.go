package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/nicktperez/resume-tailor/internal/tailoring"
	"github.com/nicktperez/resume-tailor/internal/types"
)

// SaveGeneration creates the generation record and increments the user's
// usage counter in one transaction. Both writes apply or neither does;
// there is no state where the counter advances without a record.
func (db *DB) SaveGeneration(ctx context.Context, gen *tailoring.GenerationParams) error {
	insightsJSON, err := json.Marshal(gen.Insights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO resume_generations
		 (user_id, job_description, original_resume, generated_resume, insights,
		  tone, seniority, format, include_cover_letter)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		gen.UserID, gen.JobDescription, gen.OriginalResume, gen.GeneratedResume,
		insightsJSON, gen.Tone, gen.Seniority, gen.Format, gen.IncludeCoverLetter,
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation record: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET resume_count = resume_count + 1, updated_at = NOW() WHERE id = $1`,
		gen.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment resume count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit generation: %w", err)
	}
	return nil
}

// ListGenerations retrieves the user's most recent generation records.
// A malformed stored insights blob degrades to nil insights rather than
// failing the whole request.
func (db *DB) ListGenerations(ctx context.Context, userID uuid.UUID, limit int) ([]types.GenerationRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_description, original_resume, generated_resume, insights,
		        tone, seniority, format, include_cover_letter, created_at
		 FROM resume_generations
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	var records []types.GenerationRecord
	for rows.Next() {
		var rec types.GenerationRecord
		var insightsJSON []byte
		if err := rows.Scan(&rec.ID, &rec.JobDescription, &rec.OriginalResume,
			&rec.GeneratedResume, &insightsJSON, &rec.Tone, &rec.Seniority,
			&rec.Format, &rec.IncludeCoverLetter, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		if len(insightsJSON) > 0 {
			var insights types.Insights
			if err := json.Unmarshal(insightsJSON, &insights); err == nil {
				rec.Insights = &insights
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetGeneration retrieves one generation record owned by the user. Returns
// nil when not found or owned by someone else.
func (db *DB) GetGeneration(ctx context.Context, userID, generationID uuid.UUID) (*types.GenerationRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_description, original_resume, generated_resume, insights,
		        tone, seniority, format, include_cover_letter, created_at
		 FROM resume_generations
		 WHERE id = $1 AND user_id = $2`,
		generationID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var rec types.GenerationRecord
	var insightsJSON []byte
	if err := rows.Scan(&rec.ID, &rec.JobDescription, &rec.OriginalResume,
		&rec.GeneratedResume, &insightsJSON, &rec.Tone, &rec.Seniority,
		&rec.Format, &rec.IncludeCoverLetter, &rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan generation: %w", err)
	}
	if len(insightsJSON) > 0 {
		var insights types.Insights
		if err := json.Unmarshal(insightsJSON, &insights); err == nil {
			rec.Insights = &insights
		}
	}
	return &rec, nil
}
