package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Add inserts a new pending submission. The upload service is the normal
// writer of these rows; the pipeline only transitions them.
func (s *Store) Add(ctx context.Context, fileName, email string) (*Submission, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, errors.New("file name required")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("email required")
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO video_submissions (
            file_name, email, processed, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?)`,
		fileName,
		email,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a submission by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM video_submissions WHERE id = ?`, id)
	submission, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return submission, nil
}

// NextPending returns the most recently updated pending submission, or nil
// when none exists. The id tie-break keeps selection deterministic when rows
// share an updated_at timestamp.
func (s *Store) NextPending(ctx context.Context) (*Submission, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+submissionColumns+` FROM video_submissions
         WHERE processed = ?
         ORDER BY updated_at DESC, id DESC
         LIMIT 1`,
		StatusPending,
	)
	submission, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next pending submission: %w", err)
	}
	return submission, nil
}

// List returns submissions filtered by optional statuses, newest update first.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM video_submissions`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		for _, status := range statuses {
			if !ValidStatus(status) {
				return nil, fmt.Errorf("unknown status %q", status)
			}
			args = append(args, status)
		}
		query += ` WHERE processed IN (` + makePlaceholders(len(statuses)) + `)`
	}
	query += ` ORDER BY updated_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*Submission
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, submission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return submissions, nil
}

// HealthSummary aggregates submission counts per lifecycle state.
func (s *Store) HealthSummary(ctx context.Context) (HealthSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT processed, COUNT(1) FROM video_submissions GROUP BY processed`)
	if err != nil {
		return HealthSummary{}, fmt.Errorf("summarize submissions: %w", err)
	}
	defer rows.Close()

	var summary HealthSummary
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return HealthSummary{}, fmt.Errorf("scan summary row: %w", err)
		}
		summary.Total += count
		switch Status(status) {
		case StatusPending:
			summary.Pending = count
		case StatusSucceeded:
			summary.Succeeded = count
		case StatusFailed:
			summary.Failed = count
		}
	}
	if err := rows.Err(); err != nil {
		return HealthSummary{}, fmt.Errorf("iterate summary rows: %w", err)
	}
	return summary, nil
}
