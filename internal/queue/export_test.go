package queue

import "context"

// SetSchemaVersionForTest overwrites the recorded schema version so tests can
// exercise the mismatch guard.
func (s *Store) SetSchemaVersionForTest(ctx context.Context, version int) error {
	_, err := s.db.ExecContext(ctx, "UPDATE schema_version SET version = ?", version)
	return err
}

// RetryOnBusyForTest exposes the write retry loop.
func RetryOnBusyForTest(ctx context.Context, op func() error) error {
	return retryOnBusy(ctx, op)
}

// BusyRetryAttemptsForTest exposes the retry budget.
const BusyRetryAttemptsForTest = busyRetryAttempts
