package testsupport

import (
	"path/filepath"
	"testing"

	"stride/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.ScratchDir = filepath.Join(base, "scratch")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Storage.Endpoint = "https://storage.test/storage/v1"
	cfgVal.Storage.Bucket = "running-form-analysis-input"
	cfgVal.Storage.ServiceKey = "test-key"
	cfgVal.Storage.PublicBaseURL = "https://storage.test/storage/v1/object/public"
	cfgVal.Email.APIKey = "test-brevo-key"
	cfgVal.Email.SenderEmail = "noreply@stride.test"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithEmailDisabled turns off completion emails on the test config.
func WithEmailDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Email.Enabled = false
	}
}

// WithAnalyzerBinary overrides the analyzer binary on the test config.
func WithAnalyzerBinary(binary string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analyzer.Binary = binary
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
