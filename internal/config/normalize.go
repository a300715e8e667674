package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeAnalyzer()
	c.normalizeEmail()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		c.Paths.ScratchDir = defaultScratchDir
	}
	if c.Paths.ScratchDir, err = expandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.Endpoint = strings.TrimRight(strings.TrimSpace(c.Storage.Endpoint), "/")
	c.Storage.Bucket = strings.TrimSpace(c.Storage.Bucket)
	c.Storage.ServiceKey = strings.TrimSpace(c.Storage.ServiceKey)
	if c.Storage.ServiceKey == "" {
		if value, ok := os.LookupEnv("STRIDE_STORAGE_KEY"); ok {
			c.Storage.ServiceKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("SUPABASE_SERVICE_KEY"); ok {
			c.Storage.ServiceKey = strings.TrimSpace(value)
		}
	}
	c.Storage.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.PublicBaseURL), "/")
	c.Storage.InputPrefix = strings.Trim(strings.TrimSpace(c.Storage.InputPrefix), "/")
	if c.Storage.InputPrefix == "" {
		c.Storage.InputPrefix = defaultInputPrefix
	}
	c.Storage.OutputPrefix = strings.Trim(strings.TrimSpace(c.Storage.OutputPrefix), "/")
	if c.Storage.OutputPrefix == "" {
		c.Storage.OutputPrefix = defaultOutputPrefix
	}
	if c.Storage.RequestTimeout <= 0 {
		c.Storage.RequestTimeout = defaultStorageTimeout
	}
}

func (c *Config) normalizeAnalyzer() {
	c.Analyzer.Binary = strings.TrimSpace(c.Analyzer.Binary)
	if c.Analyzer.Binary == "" {
		c.Analyzer.Binary = defaultAnalyzerBinary
	}
	if c.Analyzer.TimeoutSeconds <= 0 {
		c.Analyzer.TimeoutSeconds = defaultAnalyzerTimeout
	}
}

func (c *Config) normalizeEmail() {
	c.Email.APIKey = strings.TrimSpace(c.Email.APIKey)
	if c.Email.APIKey == "" {
		if value, ok := os.LookupEnv("STRIDE_BREVO_API_KEY"); ok {
			c.Email.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("BREVO_API_KEY"); ok {
			c.Email.APIKey = strings.TrimSpace(value)
		}
	}
	c.Email.BaseURL = strings.TrimRight(strings.TrimSpace(c.Email.BaseURL), "/")
	if c.Email.BaseURL == "" {
		c.Email.BaseURL = defaultEmailBaseURL
	}
	c.Email.SenderName = strings.TrimSpace(c.Email.SenderName)
	if c.Email.SenderName == "" {
		c.Email.SenderName = defaultEmailSenderName
	}
	c.Email.SenderEmail = strings.TrimSpace(c.Email.SenderEmail)
	if c.Email.RequestTimeout <= 0 {
		c.Email.RequestTimeout = defaultEmailRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
