package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stride/internal/storage"
	"stride/internal/testsupport"
)

func newClient(t *testing.T, handler http.HandlerFunc) *storage.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t)
	cfg.Storage.Endpoint = server.URL + "/storage/v1"
	cfg.Storage.PublicBaseURL = server.URL + "/storage/v1/object/public"
	return storage.NewClient(cfg)
}

func TestDownloadWritesScratchFile(t *testing.T) {
	var seenPath, seenAuth string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.Path
		seenAuth = r.Header.Get("Authorization")
		io.WriteString(w, "video-bytes")
	})

	destDir := t.TempDir()
	localPath, err := client.Download(context.Background(), "uploads/run.mp4", destDir)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if seenPath != "/storage/v1/object/running-form-analysis-input/uploads/run.mp4" {
		t.Fatalf("unexpected request path: %s", seenPath)
	}
	if !strings.HasPrefix(seenAuth, "Bearer ") {
		t.Fatalf("expected bearer auth, got %q", seenAuth)
	}
	if filepath.Base(localPath) != "run.mp4" {
		t.Fatalf("unexpected local name: %s", localPath)
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "video-bytes" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func TestDownloadMapsNonSuccessToError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := client.Download(context.Background(), "uploads/missing.mp4", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestUploadSendsContentTypeAndBody(t *testing.T) {
	var seenContentType, seenUpsert string
	var seenBody []byte
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		seenContentType = r.Header.Get("Content-Type")
		seenUpsert = r.Header.Get("x-upsert")
		seenBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})

	localPath := filepath.Join(t.TempDir(), "annotated.mp4")
	testsupport.WriteFile(t, localPath, 64)

	if err := client.Upload(context.Background(), localPath, "outputs/1_annotated_run.mp4", true); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if seenContentType != "video/mp4" {
		t.Fatalf("unexpected content type: %q", seenContentType)
	}
	if seenUpsert != "true" {
		t.Fatalf("expected upsert header for derived output path, got %q", seenUpsert)
	}
	if len(seenBody) != 64 {
		t.Fatalf("expected 64 body bytes, got %d", len(seenBody))
	}
}

func TestUploadWithoutOverwriteRefusesExistingObject(t *testing.T) {
	var seenUpsert string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		seenUpsert = r.Header.Get("x-upsert")
		w.WriteHeader(http.StatusConflict)
	})

	localPath := filepath.Join(t.TempDir(), "run.mp4")
	testsupport.WriteFile(t, localPath, 16)

	err := client.Upload(context.Background(), localPath, "uploads/run.mp4", false)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected object-exists error, got %v", err)
	}
	if seenUpsert != "" {
		t.Fatalf("expected no upsert header, got %q", seenUpsert)
	}
}

func TestPublicURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	client := storage.NewClient(cfg)

	url := client.PublicURL("outputs/1_annotated_run.mp4")
	want := "https://storage.test/storage/v1/object/public/running-form-analysis-input/outputs/1_annotated_run.mp4"
	if url != want {
		t.Fatalf("unexpected public URL:\n got %s\nwant %s", url, want)
	}
}
