package internal

import (
	"errors"
	"fmt"
)

// ErrInputClosed signals that the interactive input source is exhausted.
// Callers treat it exactly like an explicit quit.
var ErrInputClosed = errors.New("input closed")

// UsageError represents a command submitted without a required argument
type UsageError struct {
	Command string
	Usage   string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage error [%s]: %s", e.Command, e.Usage)
}

// LoadError represents errors reading a stored history
type LoadError struct {
	Path string
	Op   string // "open", "read", "parse"
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IOError represents errors writing a history to disk
type IOError struct {
	Path string
	Op   string // "encode", "write"
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// EditorError represents errors running the external editor
type EditorError struct {
	Editor string
	Op     string // "prepare", "launch", "run", "read"
	Err    error
}

func (e *EditorError) Error() string {
	if e.Editor == "" {
		return fmt.Sprintf("editor error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("editor error [%s]: %s: %v", e.Editor, e.Op, e.Err)
}

func (e *EditorError) Unwrap() error {
	return e.Err
}

// HistoryParseError represents an edited history that no longer parses
type HistoryParseError struct {
	Err error
}

func (e *HistoryParseError) Error() string {
	return fmt.Sprintf("history parse error: %v", e.Err)
}

func (e *HistoryParseError) Unwrap() error {
	return e.Err
}

// StreamError represents a failure during a remote exchange. Received is the
// number of reply pieces already appended to the history.
type StreamError struct {
	Model    string
	Received int
	Err      error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error [%s] after %d piece(s): %v", e.Model, e.Received, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
