package testsupport

import (
	"context"
	"testing"

	"stride/internal/config"
	"stride/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddSubmission creates a new pending submission for tests using the provided store.
func AddSubmission(t testing.TB, store *queue.Store, fileName, email string) *queue.Submission {
	t.Helper()

	submission, err := store.Add(context.Background(), fileName, email)
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return submission
}
