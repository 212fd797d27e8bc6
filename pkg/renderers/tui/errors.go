package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrRequired is reported by the validator of required fields.
	ErrRequired = errors.New("tui: value is required")
)
