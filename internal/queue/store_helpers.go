package queue

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const submissionColumns = "id, file_name, email, processed, processed_at, output_file_name, error_message, processed_data, created_at, updated_at"

func scanSubmission(scanner interface{ Scan(dest ...any) error }) (*Submission, error) {
	var (
		id            int64
		fileName      string
		email         string
		statusStr     string
		processedRaw  sql.NullString
		outputFile    sql.NullString
		errorMessage  sql.NullString
		processedData sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&fileName,
		&email,
		&statusStr,
		&processedRaw,
		&outputFile,
		&errorMessage,
		&processedData,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	submission := &Submission{
		ID:             id,
		FileName:       fileName,
		Email:          email,
		Status:         Status(statusStr),
		OutputFileName: outputFile.String,
		ErrorMessage:   errorMessage.String,
	}
	if processedData.Valid && processedData.String != "" {
		submission.ProcessedData = json.RawMessage(processedData.String)
	}
	if processedRaw.Valid {
		if processed, err := parseTimeString(processedRaw.String); err == nil {
			submission.ProcessedAt = &processed
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		submission.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		submission.UpdatedAt = updated
	}
	return submission, nil
}

func nullableJSON(value json.RawMessage) any {
	if len(value) == 0 {
		return nil
	}
	return string(value)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
