// Package main hosts the Stride CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes the cron-driven processing run,
// submission queue maintenance, notification testing, and configuration
// scaffolding. It centralizes configuration resolution and store access so
// subcommands stay declarative while the heavy lifting lives in the internal
// packages.
package main
