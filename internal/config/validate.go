package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateAnalyzer(); err != nil {
		return err
	}
	if err := c.validateEmail(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.Endpoint == "" {
		return errors.New("storage.endpoint must be set")
	}
	if _, err := url.Parse(c.Storage.Endpoint); err != nil {
		return fmt.Errorf("storage.endpoint is not a valid URL: %w", err)
	}
	if c.Storage.Bucket == "" {
		return errors.New("storage.bucket must be set")
	}
	if c.Storage.ServiceKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/stride/config.toml"
		}
		return fmt.Errorf("storage.service_key is required. Set STRIDE_STORAGE_KEY env var or edit %s (create with 'stride config init')", defaultPath)
	}
	if c.Storage.PublicBaseURL == "" {
		return errors.New("storage.public_base_url must be set")
	}
	return nil
}

func (c *Config) validateAnalyzer() error {
	if c.Analyzer.Binary == "" {
		return errors.New("analyzer.binary must be set")
	}
	return nil
}

func (c *Config) validateEmail() error {
	if !c.Email.Enabled {
		return nil
	}
	if c.Email.APIKey == "" {
		return errors.New("email.api_key must be set when email.enabled is true (or set STRIDE_BREVO_API_KEY)")
	}
	if c.Email.SenderEmail == "" {
		return errors.New("email.sender_email must be set when email.enabled is true")
	}
	if !strings.Contains(c.Email.SenderEmail, "@") {
		return fmt.Errorf("email.sender_email %q is not a valid address", c.Email.SenderEmail)
	}
	return nil
}
