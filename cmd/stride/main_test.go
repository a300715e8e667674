package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stride/internal/config"
	"stride/internal/queue"
	"stride/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *queue.Store
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	cfg.Email.Enabled = false

	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	store := testsupport.MustOpenStore(t, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		store:      store,
		configPath: configPath,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
scratch_dir = %q
log_dir = %q

[storage]
endpoint = %q
bucket = %q
service_key = %q
public_base_url = %q

[analyzer]
binary = %q
timeout_seconds = %d

[email]
enabled = %t
api_key = %q
sender_email = %q

[logging]
format = "json"
level = "info"
`,
		cfg.Paths.DataDir,
		cfg.Paths.ScratchDir,
		cfg.Paths.LogDir,
		cfg.Storage.Endpoint,
		cfg.Storage.Bucket,
		cfg.Storage.ServiceKey,
		cfg.Storage.PublicBaseURL,
		cfg.Analyzer.Binary,
		cfg.Analyzer.TimeoutSeconds,
		cfg.Email.Enabled,
		cfg.Email.APIKey,
		cfg.Email.SenderEmail,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRootCommandShowsHelp(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root command: %v", err)
	}
	requireContains(t, out, "stride")
	requireContains(t, out, "Available Commands")
}
