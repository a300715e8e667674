// Package config loads, normalizes, and validates Stride configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STRIDE_STORAGE_KEY and STRIDE_BREVO_API_KEY. The Config type centralizes
// every knob the pipeline and CLI need, so data directories and external
// service credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
