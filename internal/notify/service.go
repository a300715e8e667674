package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stride/internal/config"
)

const userAgent = "Stride/0.1.0"

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifyProcessingComplete(ctx context.Context, to, videoName, videoURL string, elapsed time.Duration) error
	TestNotification(ctx context.Context, to string) error
}

// HTTPDoer describes the HTTP client used by the email service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option customizes the service.
type Option func(*brevoService)

// WithHTTPClient overrides the default HTTP client (primarily for tests).
func WithHTTPClient(client HTTPDoer) Option {
	return func(s *brevoService) {
		if client != nil {
			s.client = client
		}
	}
}

// NewService builds an email notification service backed by Brevo when
// configured. When email is disabled or no API key is present, a noop
// implementation is returned.
func NewService(cfg *config.Config, opts ...Option) Service {
	if !cfg.Email.Enabled || strings.TrimSpace(cfg.Email.APIKey) == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Email.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	service := &brevoService{
		baseURL:     strings.TrimRight(cfg.Email.BaseURL, "/"),
		apiKey:      cfg.Email.APIKey,
		senderName:  cfg.Email.SenderName,
		senderEmail: cfg.Email.SenderEmail,
		client:      &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type brevoService struct {
	baseURL     string
	apiKey      string
	senderName  string
	senderEmail string
	client      HTTPDoer
}

type emailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type emailPayload struct {
	Sender      emailAddress   `json:"sender"`
	To          []emailAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent"`
}

// NotifyProcessingComplete sends the fixed completion email for a processed
// video. Only success triggers mail; failed submissions stay silent.
func (s *brevoService) NotifyProcessingComplete(ctx context.Context, to, videoName, videoURL string, elapsed time.Duration) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("recipient address required")
	}
	payload := emailPayload{
		Sender:      emailAddress{Name: s.senderName, Email: s.senderEmail},
		To:          []emailAddress{{Name: recipientName(to), Email: to}},
		Subject:     completionSubject,
		HTMLContent: completionHTML(videoName, videoURL, elapsed),
		TextContent: completionText(videoName, videoURL, elapsed),
	}
	return s.send(ctx, payload)
}

// TestNotification exercises the provider end to end with a throwaway email.
func (s *brevoService) TestNotification(ctx context.Context, to string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		to = s.senderEmail
	}
	payload := emailPayload{
		Sender:      emailAddress{Name: s.senderName, Email: s.senderEmail},
		To:          []emailAddress{{Name: recipientName(to), Email: to}},
		Subject:     "Stride - Test Notification",
		HTMLContent: "<p>Notification system test.</p>",
		TextContent: "Notification system test.",
	}
	return s.send(ctx, payload)
}

func (s *brevoService) send(ctx context.Context, payload emailPayload) error {
	if s == nil || s.client == nil {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", s.apiKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send email: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// recipientName uses the address local part as a display name, matching the
// upload service's behavior.
func recipientName(address string) string {
	if at := strings.Index(address, "@"); at > 0 {
		return address[:at]
	}
	return address
}

type noopService struct{}

func (noopService) NotifyProcessingComplete(ctx context.Context, to, videoName, videoURL string, elapsed time.Duration) error {
	return nil
}

func (noopService) TestNotification(ctx context.Context, to string) error {
	return nil
}
