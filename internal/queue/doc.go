// Package queue persists video submissions in SQLite and owns their
// lifecycle: a submission is created pending by the upload service and moved
// exactly once to success or failed by the pipeline. Writes that would
// violate that single transition are rejected rather than silently applied.
package queue
