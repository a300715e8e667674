package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"stride/internal/analyzer"
	"stride/internal/config"
	"stride/internal/fileutil"
	"stride/internal/locker"
	"stride/internal/logging"
	"stride/internal/notify"
	"stride/internal/queue"
)

// Outcome reports what a single run accomplished.
type Outcome int

const (
	// OutcomeNoWork means the lock was held but no pending submission existed.
	OutcomeNoWork Outcome = iota
	// OutcomeContended means another run already held the lock.
	OutcomeContended
	// OutcomeProcessed means one submission reached a terminal state.
	OutcomeProcessed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoWork:
		return "no-work"
	case OutcomeContended:
		return "contended"
	case OutcomeProcessed:
		return "processed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ObjectStore is the blob storage surface the pipeline needs.
type ObjectStore interface {
	Download(ctx context.Context, objectPath, destDir string) (string, error)
	Upload(ctx context.Context, localPath, objectPath string, overwrite bool) error
	PublicURL(objectPath string) string
}

// Runner drives one submission from pending to a terminal state.
type Runner struct {
	cfg      *config.Config
	store    *queue.Store
	objects  ObjectStore
	analyzer analyzer.Client
	notifier notify.Service
	logger   *slog.Logger
}

// NewRunner wires the pipeline dependencies together.
func NewRunner(cfg *config.Config, store *queue.Store, objects ObjectStore, client analyzer.Client, notifier notify.Service, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		store:    store,
		objects:  objects,
		analyzer: client,
		notifier: notifier,
		logger:   logger.With(logging.FieldComponent, "pipeline"),
	}
}

// Run claims and processes at most one pending submission. Submission-level
// failures are recorded on the row and return a nil error; only lost races on
// the store or infrastructure problems surface as errors.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	lock := locker.New(r.cfg.LockPath())
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, locker.ErrContended) {
			r.logger.Info("another run holds the lock, exiting", "lock_path", lock.Path())
			return OutcomeContended, nil
		}
		return OutcomeContended, fmt.Errorf("acquire run lock: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			r.logger.Warn("release run lock", logging.FieldError, err)
		}
	}()

	submission, err := r.store.NextPending(ctx)
	if err != nil {
		return OutcomeNoWork, fmt.Errorf("claim pending submission: %w", err)
	}
	if submission == nil {
		r.logger.Info("no pending submissions")
		return OutcomeNoWork, nil
	}

	logger := r.logger.With(logging.FieldSubmissionID, submission.ID, "file_name", submission.FileName)
	logger.Info("processing submission")
	start := time.Now()

	scratch, err := fileutil.NewScratchDir(r.cfg.Paths.ScratchDir)
	if err != nil {
		return OutcomeProcessed, fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() {
		if err := fileutil.RemoveScratchDir(scratch); err != nil {
			logger.Warn("remove scratch directory", "scratch_dir", scratch, logging.FieldError, err)
		}
	}()

	runErr := r.process(ctx, logger, submission, scratch, start)
	if runErr == nil {
		return OutcomeProcessed, nil
	}
	if !submissionLevel(runErr) {
		return OutcomeProcessed, runErr
	}

	logger.Error("submission failed", logging.FieldError, runErr)
	if err := r.store.MarkFailed(ctx, submission.ID, runErr.Error()); err != nil {
		return OutcomeProcessed, wrapStage(ErrStoreWrite, "mark failed", "", err)
	}
	return OutcomeProcessed, nil
}

func (r *Runner) process(ctx context.Context, logger *slog.Logger, submission *queue.Submission, scratch string, start time.Time) error {
	baseName := filepath.Base(submission.FileName)
	inputObject := path.Join(r.cfg.Storage.InputPrefix, baseName)

	logger.Info("downloading video", logging.FieldStage, "download", "object_path", inputObject)
	localInput, err := r.objects.Download(ctx, inputObject, scratch)
	if err != nil {
		return wrapStage(ErrDownload, "download", inputObject, err)
	}

	localOutput := filepath.Join(scratch, "annotated_"+baseName)
	logger.Info("analyzing video", logging.FieldStage, "analyze")
	result, err := r.analyzer.Analyze(ctx, localInput, localOutput)
	if err != nil {
		return wrapStage(ErrProcessing, "analyze", baseName, err)
	}

	outputObject := path.Join(r.cfg.Storage.OutputPrefix, fmt.Sprintf("%d_annotated_%s", submission.ID, baseName))
	logger.Info("uploading annotated video", logging.FieldStage, "upload", "object_path", outputObject)
	if err := r.objects.Upload(ctx, localOutput, outputObject, true); err != nil {
		return wrapStage(ErrUpload, "upload", outputObject, err)
	}

	elapsed := time.Since(start)
	publicURL := r.objects.PublicURL(outputObject)
	processedData, err := encodeProcessedData(outputObject, publicURL, result, elapsed)
	if err != nil {
		return wrapStage(ErrStoreWrite, "encode processed data", "", err)
	}
	if err := r.store.MarkSucceeded(ctx, submission.ID, outputObject, processedData); err != nil {
		return wrapStage(ErrStoreWrite, "mark succeeded", "", err)
	}
	logger.Info("submission processed", "output_path", outputObject, "elapsed", elapsed.Round(time.Second).String())

	if err := r.notifier.NotifyProcessingComplete(ctx, submission.Email, baseName, publicURL, elapsed); err != nil {
		logger.Warn("completion email not sent", logging.FieldError, wrapStage(ErrNotification, "notify", submission.Email, err))
	}
	return nil
}

func encodeProcessedData(outputObject, publicURL string, result analyzer.Result, elapsed time.Duration) (json.RawMessage, error) {
	metrics := result.Metrics
	if len(metrics) == 0 {
		metrics = json.RawMessage("null")
	}
	data := struct {
		OutputPath        string          `json:"output_path"`
		PublicURL         string          `json:"public_url"`
		Metrics           json.RawMessage `json:"metrics"`
		ProcessingSeconds float64         `json:"processing_seconds"`
		CompletedAt       string          `json:"completed_at"`
	}{
		OutputPath:        outputObject,
		PublicURL:         publicURL,
		Metrics:           metrics,
		ProcessingSeconds: elapsed.Seconds(),
		CompletedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return encoded, nil
}
