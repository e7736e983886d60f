package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNilRoot is returned when Render receives no form tree.
	ErrNilRoot = errors.New("tui: form root is required")
	// ErrNilDriver is returned when no prompt driver is configured.
	ErrNilDriver = errors.New("tui: prompt driver is nil")
)
