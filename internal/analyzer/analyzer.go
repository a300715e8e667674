// Package analyzer invokes the external gait analysis program against a local
// video file. The program is opaque: only its exit status, its output file,
// and the JSON result record it emits on stdout participate in the contract.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"stride/internal/config"
)

// Result carries the structured metrics the analysis program reported.
type Result struct {
	Metrics json.RawMessage
}

// Client defines the analysis behaviour the pipeline depends on.
type Client interface {
	Analyze(ctx context.Context, inputPath, outputPath string) (Result, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *CLI) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// CLI wraps the command-line analysis program.
type CLI struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs an analyzer client from configuration.
func New(cfg *config.Config, opts ...Option) (*CLI, error) {
	binary := strings.TrimSpace(cfg.Analyzer.Binary)
	if binary == "" {
		return nil, errors.New("analyzer binary required")
	}
	client := &CLI{
		binary:  binary,
		timeout: time.Duration(cfg.Analyzer.TimeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// resultRecord is the stdout line the analysis program emits on completion.
type resultRecord struct {
	Type    string          `json:"type"`
	Metrics json.RawMessage `json:"metrics"`
}

// Analyze runs the analysis program and returns its reported metrics. A
// non-zero exit, a missing output file, or a malformed result record all
// produce an error.
func (c *CLI) Analyze(ctx context.Context, inputPath, outputPath string) (Result, error) {
	if inputPath == "" {
		return Result{}, errors.New("input path required")
	}
	if outputPath == "" {
		return Result{}, errors.New("output path required")
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"--input", inputPath, "--output", outputPath}

	// A missing result record is tolerated: metrics are optional metadata.
	var result Result
	var malformed error
	if err := c.exec.Run(runCtx, c.binary, args, func(line string) {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "{") {
			return
		}
		var record resultRecord
		if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
			if strings.Contains(trimmed, `"result"`) && malformed == nil {
				malformed = fmt.Errorf("parse result record: %w", err)
			}
			return
		}
		if record.Type != "result" {
			return
		}
		if len(record.Metrics) > 0 && !json.Valid(record.Metrics) {
			if malformed == nil {
				malformed = errors.New("result record carries invalid metrics payload")
			}
			return
		}
		result.Metrics = record.Metrics
	}); err != nil {
		return Result{}, fmt.Errorf("run %s: %w", c.binary, err)
	}

	if malformed != nil {
		return Result{}, malformed
	}

	if _, err := os.Stat(outputPath); errors.Is(err, os.ErrNotExist) {
		return Result{}, fmt.Errorf("%s produced no output file", c.binary)
	} else if err != nil {
		return Result{}, fmt.Errorf("inspect output file: %w", err)
	}

	return result, nil
}

var _ Client = (*CLI)(nil)
