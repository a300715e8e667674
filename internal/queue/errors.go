package queue

import "errors"

// ErrStaleSubmission indicates a terminal write targeted a row that no longer
// exists or is no longer pending. The pipeline holds exclusive ownership of a
// claimed submission, so this signals a concurrency or logic violation and is
// treated as fatal by callers.
var ErrStaleSubmission = errors.New("submission missing or not pending")
