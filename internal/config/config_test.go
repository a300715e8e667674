package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stride/internal/config"
)

func validConfigTOML() string {
	return `
[storage]
endpoint = "https://example.supabase.co/storage/v1"
bucket = "running-form-analysis-input"
service_key = "secret"
public_base_url = "https://example.supabase.co/storage/v1/object/public"

[email]
enabled = true
api_key = "brevo-key"
sender_email = "noreply@example.com"
`
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, validConfigTOML())

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %s, got %s", path, resolved)
	}
	if cfg.Storage.InputPrefix != "uploads" || cfg.Storage.OutputPrefix != "outputs" {
		t.Fatalf("expected default prefixes, got %q/%q", cfg.Storage.InputPrefix, cfg.Storage.OutputPrefix)
	}
	if cfg.Analyzer.Binary != "stride-analyze" {
		t.Fatalf("expected default analyzer binary, got %q", cfg.Analyzer.Binary)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("expected expanded data dir, got %q", cfg.Paths.DataDir)
	}
}

func TestLoadRejectsMissingRequiredValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{"endpoint", func(s string) string { return strings.Replace(s, `endpoint = "https://example.supabase.co/storage/v1"`, `endpoint = ""`, 1) }, "storage.endpoint"},
		{"bucket", func(s string) string { return strings.Replace(s, `bucket = "running-form-analysis-input"`, `bucket = ""`, 1) }, "storage.bucket"},
		{"service key", func(s string) string { return strings.Replace(s, `service_key = "secret"`, `service_key = ""`, 1) }, "storage.service_key"},
		{"public base url", func(s string) string {
			return strings.Replace(s, `public_base_url = "https://example.supabase.co/storage/v1/object/public"`, `public_base_url = ""`, 1)
		}, "storage.public_base_url"},
		{"sender email", func(s string) string { return strings.Replace(s, `sender_email = "noreply@example.com"`, `sender_email = ""`, 1) }, "email.sender_email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.mutate(validConfigTOML()))
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got: %v", tc.wantErr, err)
			}
		})
	}
}

func TestServiceKeyEnvFallback(t *testing.T) {
	contents := strings.Replace(validConfigTOML(), `service_key = "secret"`, `service_key = ""`, 1)
	path := writeConfig(t, contents)

	t.Setenv("STRIDE_STORAGE_KEY", "env-secret")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.ServiceKey != "env-secret" {
		t.Fatalf("expected env fallback, got %q", cfg.Storage.ServiceKey)
	}
}

func TestEmailDisabledSkipsEmailValidation(t *testing.T) {
	contents := strings.NewReplacer(
		`enabled = true`, `enabled = false`,
		`api_key = "brevo-key"`, `api_key = ""`,
		`sender_email = "noreply@example.com"`, `sender_email = ""`,
	).Replace(validConfigTOML())
	path := writeConfig(t, contents)

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("expected disabled email to skip validation, got: %v", err)
	}
}

func TestNormalizeTrimsPrefixesAndURLs(t *testing.T) {
	contents := strings.NewReplacer(
		`input_prefix = "uploads"`, ``,
		`endpoint = "https://example.supabase.co/storage/v1"`, `endpoint = "https://example.supabase.co/storage/v1/"`,
	).Replace(validConfigTOML() + "\n[storage2]\n")
	contents = strings.Replace(contents, "[storage2]\n", "", 1)
	path := writeConfig(t, contents)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.HasSuffix(cfg.Storage.Endpoint, "/") {
		t.Fatalf("expected trimmed endpoint, got %q", cfg.Storage.Endpoint)
	}
}

func TestLockAndDatabasePathsLiveInDataDir(t *testing.T) {
	path := writeConfig(t, validConfigTOML())
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if filepath.Dir(cfg.DatabasePath()) != cfg.Paths.DataDir {
		t.Fatalf("database path %q outside data dir %q", cfg.DatabasePath(), cfg.Paths.DataDir)
	}
	if filepath.Dir(cfg.LockPath()) != cfg.Paths.DataDir {
		t.Fatalf("lock path %q outside data dir %q", cfg.LockPath(), cfg.Paths.DataDir)
	}
}
