package queue

import (
	"encoding/json"
	"time"
)

// Status represents the lifecycle of a submission. The stored values match
// the work table contract shared with the upload service.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "success"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusSucceeded,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ValidStatus reports whether value is a known submission status.
func ValidStatus(value Status) bool {
	_, ok := statusSet[value]
	return ok
}

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Submission represents one uploaded video tracked in the work table.
type Submission struct {
	ID             int64
	FileName       string
	Email          string
	Status         Status
	OutputFileName string
	ErrorMessage   string
	ProcessedData  json.RawMessage
	ProcessedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HealthSummary describes aggregated submission counts per lifecycle state.
type HealthSummary struct {
	Total     int
	Pending   int
	Succeeded int
	Failed    int
}
