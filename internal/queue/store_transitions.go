package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// MarkSucceeded records the terminal success state for a pending submission.
// Returns ErrStaleSubmission when the row is missing or already terminal.
func (s *Store) MarkSucceeded(ctx context.Context, id int64, outputFileName string, processedData json.RawMessage) error {
	if outputFileName == "" {
		return fmt.Errorf("mark succeeded: output file name required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE video_submissions
         SET processed = ?, processed_at = ?, output_file_name = ?, processed_data = ?,
             error_message = NULL, updated_at = ?
         WHERE id = ? AND processed = ?`,
		StatusSucceeded,
		now,
		outputFileName,
		nullableJSON(processedData),
		now,
		id,
		StatusPending,
	)
	if err != nil {
		return fmt.Errorf("mark submission %d succeeded: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark submission %d succeeded: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("mark submission %d succeeded: %w", id, ErrStaleSubmission)
	}
	return nil
}

// MarkFailed records the terminal failure state for a pending submission.
// Returns ErrStaleSubmission when the row is missing or already terminal.
func (s *Store) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	if errorMessage == "" {
		errorMessage = "processing failed"
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE video_submissions
         SET processed = ?, processed_at = ?, error_message = ?,
             output_file_name = NULL, processed_data = NULL, updated_at = ?
         WHERE id = ? AND processed = ?`,
		StatusFailed,
		now,
		errorMessage,
		now,
		id,
		StatusPending,
	)
	if err != nil {
		return fmt.Errorf("mark submission %d failed: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark submission %d failed: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("mark submission %d failed: %w", id, ErrStaleSubmission)
	}
	return nil
}

// Retry moves failed submissions back to pending for reprocessing. This is
// the administrative recovery path; the pipeline itself never retries. With
// no ids, every failed submission is reset.
func (s *Store) Retry(ctx context.Context, ids ...int64) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if len(ids) == 0 {
		res, err := s.execWithRetry(
			ctx,
			`UPDATE video_submissions
             SET processed = ?, processed_at = NULL, error_message = NULL,
                 output_file_name = NULL, processed_data = NULL, updated_at = ?
             WHERE processed = ?`,
			StatusPending,
			now,
			StatusFailed,
		)
		if err != nil {
			return 0, fmt.Errorf("retry failed submissions: %w", err)
		}
		return res.RowsAffected()
	}

	args := make([]any, 0, len(ids)+3)
	args = append(args, StatusPending, now)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, StatusFailed)
	query := `UPDATE video_submissions
        SET processed = ?, processed_at = NULL, error_message = NULL,
            output_file_name = NULL, processed_data = NULL, updated_at = ?
        WHERE id IN (` + makePlaceholders(len(ids)) + `) AND processed = ?`
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retry selected submissions: %w", err)
	}
	return res.RowsAffected()
}

// TouchUpdatedAt bumps a submission's updated_at so it sorts first among
// pending rows. Used by tests and administrative tooling.
func (s *Store) TouchUpdatedAt(ctx context.Context, id int64, at time.Time) error {
	_, err := s.execWithRetry(
		ctx,
		`UPDATE video_submissions SET updated_at = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("touch submission %d: %w", id, err)
	}
	return nil
}
