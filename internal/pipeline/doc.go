// Package pipeline orchestrates a single processing run: acquire the run
// lock, claim the most recently updated pending submission, download its
// video, run the analyzer, upload the annotated result, persist the terminal
// state, and email the submitter. Each invocation handles at most one
// submission so a cron schedule drains the queue one run at a time.
package pipeline
