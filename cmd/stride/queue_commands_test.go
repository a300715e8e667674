package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"stride/internal/queue"
	"stride/internal/testsupport"
)

func TestQueueListAndHealth(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	testsupport.AddSubmission(t, env.store, "alpha.mp4", "alpha@example.com")
	beta := testsupport.AddSubmission(t, env.store, "beta.mp4", "beta@example.com")
	if err := env.store.MarkFailed(ctx, beta.ID, "analyzer crashed"); err != nil {
		t.Fatalf("mark beta failed: %v", err)
	}

	out, _, err := runCLI(t, []string{"queue", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	requireContains(t, out, "alpha.mp4")
	requireContains(t, out, "beta.mp4")
	requireContains(t, out, "analyzer crashed")

	out, _, err = runCLI(t, []string{"queue", "list", "--status", "failed"}, env.configPath)
	if err != nil {
		t.Fatalf("queue list --status failed: %v", err)
	}
	requireContains(t, out, "beta.mp4")
	if strings.Contains(out, "alpha.mp4") {
		t.Fatalf("expected filtered list to omit alpha.mp4:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"queue", "health"}, env.configPath)
	if err != nil {
		t.Fatalf("queue health: %v", err)
	}
	requireContains(t, out, "Pending")
	requireContains(t, out, "Failed")
	requireContains(t, out, "Total")
}

func TestQueueListJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	added := testsupport.AddSubmission(t, env.store, "gamma.mp4", "gamma@example.com")

	out, _, err := runCLI(t, []string{"queue", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("queue list --json: %v", err)
	}

	var views []struct {
		ID       int64  `json:"id"`
		FileName string `json:"file_name"`
		Status   string `json:"status"`
	}
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode JSON output: %v\n%s", err, out)
	}
	if len(views) != 1 || views[0].ID != added.ID || views[0].FileName != "gamma.mp4" {
		t.Fatalf("views = %+v", views)
	}
	if views[0].Status != string(queue.StatusPending) {
		t.Fatalf("status = %q, want pending", views[0].Status)
	}
}

func TestQueueListRejectsUnknownStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"queue", "list", "--status", "bogus"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestQueueListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"queue", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	requireContains(t, out, "Queue is empty")
}

func TestQueueRetry(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	failed := testsupport.AddSubmission(t, env.store, "retry.mp4", "retry@example.com")
	if err := env.store.MarkFailed(ctx, failed.ID, "transient storage error"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	out, _, err := runCLI(t, []string{"queue", "retry"}, env.configPath)
	if err != nil {
		t.Fatalf("queue retry: %v", err)
	}
	requireContains(t, out, "Retried 1 failed submissions")

	updated, err := env.store.GetByID(ctx, failed.ID)
	if err != nil {
		t.Fatalf("lookup submission: %v", err)
	}
	if updated.Status != queue.StatusPending {
		t.Fatalf("status = %s, want pending", updated.Status)
	}
	if updated.ErrorMessage != "" {
		t.Fatalf("error_message = %q, want cleared", updated.ErrorMessage)
	}
}

func TestQueueRetryRejectsBadID(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"queue", "retry", "not-a-number"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for malformed id")
	}
}
