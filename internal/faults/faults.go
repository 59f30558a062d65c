// Package faults defines the error taxonomy shared across specfleet.
// Callers classify failures with errors.Is against these sentinels; the
// wrapping message carries the specifics.
package faults

import "errors"

var (
	// ErrNotFound indicates an expected project path is missing.
	ErrNotFound = errors.New("project not found")
	// ErrConfiguration indicates invalid or unreadable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrFilesystem wraps underlying I/O failures.
	ErrFilesystem = errors.New("filesystem error")
	// ErrVersionControl indicates a git operation failed.
	ErrVersionControl = errors.New("version control error")
	// ErrSerialization indicates malformed persisted state.
	ErrSerialization = errors.New("serialization error")
)
