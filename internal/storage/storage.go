// Package storage moves video objects between blob storage and local scratch
// space. It speaks the storage service's object REST API directly and is only
// used by the pipeline.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"stride/internal/config"
)

// HTTPDoer describes the HTTP client used by the storage gateway.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrObjectExists indicates an upload refused to overwrite an existing object.
var ErrObjectExists = errors.New("object already exists")

const videoContentType = "video/mp4"

// Client is a blob storage gateway for a single bucket.
type Client struct {
	endpoint      string
	bucket        string
	serviceKey    string
	publicBaseURL string
	client        HTTPDoer
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (primarily for tests).
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// NewClient constructs a storage gateway from configuration.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	timeout := time.Duration(cfg.Storage.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	client := &Client{
		endpoint:      strings.TrimRight(cfg.Storage.Endpoint, "/"),
		bucket:        cfg.Storage.Bucket,
		serviceKey:    cfg.Storage.ServiceKey,
		publicBaseURL: strings.TrimRight(cfg.Storage.PublicBaseURL, "/"),
		client:        &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Download fetches the named object into destDir and returns the local path.
func (c *Client) Download(ctx context.Context, objectPath, destDir string) (string, error) {
	objectPath = strings.Trim(objectPath, "/")
	if objectPath == "" {
		return "", errors.New("object path required")
	}
	if destDir == "" {
		return "", errors.New("destination directory required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.objectURL(objectPath), nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", objectPath, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: status %d", objectPath, resp.StatusCode)
	}

	localPath := filepath.Join(destDir, filepath.Base(objectPath))
	out, err := os.OpenFile(localPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create local file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = os.Remove(localPath)
		return "", fmt.Errorf("write local file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(localPath)
		return "", fmt.Errorf("close local file: %w", err)
	}
	return localPath, nil
}

// Upload pushes a local file to the named object path. Existing objects are
// never overwritten unless overwrite is set; the pipeline enables it only for
// its own derived output paths.
func (c *Client) Upload(ctx context.Context, localPath, objectPath string, overwrite bool) error {
	objectPath = strings.Trim(objectPath, "/")
	if objectPath == "" {
		return errors.New("object path required")
	}

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open upload source: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat upload source: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(objectPath), file)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", videoContentType)
	req.ContentLength = info.Size()
	if overwrite {
		req.Header.Set("x-upsert", "true")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", objectPath, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("upload %s: %w", objectPath, ErrObjectExists)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("upload %s: status %d", objectPath, resp.StatusCode)
	}
	return nil
}

// PublicURL returns the public link for an object, used in completion emails.
func (c *Client) PublicURL(objectPath string) string {
	objectPath = strings.Trim(objectPath, "/")
	return c.publicBaseURL + "/" + c.bucket + "/" + objectPath
}

func (c *Client) objectURL(objectPath string) string {
	escaped := url.PathEscape(objectPath)
	// Keep path separators readable in object keys.
	escaped = strings.ReplaceAll(escaped, "%2F", "/")
	return c.endpoint + path.Join("/object", c.bucket) + "/" + escaped
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
}
