package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Stage markers classify where a run failed. Download, processing, and upload
// failures are submission-level: the run records them on the row and exits
// cleanly. Store write failures are fatal because the row's state is no
// longer trustworthy. Notification failures are advisory only.
var (
	ErrDownload     = errors.New("download failure")
	ErrProcessing   = errors.New("processing failure")
	ErrUpload       = errors.New("upload failure")
	ErrStoreWrite   = errors.New("store write failure")
	ErrNotification = errors.New("notification failure")
)

// wrapStage tags err with a stage marker and context for later classification.
func wrapStage(marker error, stage, message string, err error) error {
	detail := stage
	if message = strings.TrimSpace(message); message != "" {
		detail += ": " + message
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// submissionLevel reports whether err should be recorded on the submission
// rather than aborting the run.
func submissionLevel(err error) bool {
	return errors.Is(err, ErrDownload) || errors.Is(err, ErrProcessing) || errors.Is(err, ErrUpload)
}
