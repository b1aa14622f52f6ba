package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/editor"
	"github.com/kballard/go-shellquote"
)

const (
	// PromptFileName is the scratch file used when composing a prompt
	PromptFileName = "prompt.md"
	// HistoryFileName is the scratch file used when editing the history
	HistoryFileName = "history.json"
)

// Editor hands a scratch file to an external editing program
type Editor struct {
	// Command is the editor command line, e.g. "code --wait". When empty the
	// editor is resolved from $VISUAL or $EDITOR.
	Command string
	// TempRoot is where scratch directories are created; empty means os.TempDir.
	TempRoot string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewEditor creates an Editor attached to the process's terminal
func NewEditor(command string) *Editor {
	return &Editor{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Edit opens an empty prompt file and returns what the user wrote
func (e *Editor) Edit(ctx context.Context) (string, error) {
	return e.EditFile(ctx, PromptFileName, nil)
}

// EditFile creates a fresh scratch directory, writes initial into name when
// it is non-nil, and blocks until the editor exits. The result has trailing
// whitespace trimmed. The scratch directory is removed on every path.
func (e *Editor) EditFile(ctx context.Context, name string, initial *string) (string, error) {
	dir, err := os.MkdirTemp(e.TempRoot, "hajimi-edit-*")
	if err != nil {
		return "", &EditorError{Op: "prepare", Err: err}
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			LogWarn("Failed to remove scratch directory %s: %v", dir, err)
		} else {
			LogDebug("Removed scratch directory %s", dir)
		}
	}()

	path := filepath.Join(dir, name)
	if initial != nil {
		if err := os.WriteFile(path, []byte(*initial), 0600); err != nil {
			return "", &EditorError{Op: "prepare", Err: err}
		}
	}

	cmd, err := e.command(ctx, path)
	if err != nil {
		return "", &EditorError{Op: "launch", Err: err}
	}
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	LogDebug("Launching editor: %s", strings.Join(cmd.Args, " "))
	if err := cmd.Run(); err != nil {
		op := "run"
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			op = "launch"
		}
		return "", &EditorError{Editor: cmd.Path, Op: op, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &EditorError{Editor: cmd.Path, Op: "read", Err: err}
	}
	return strings.TrimRightFunc(string(data), unicode.IsSpace), nil
}

func (e *Editor) command(ctx context.Context, path string) (*exec.Cmd, error) {
	if strings.TrimSpace(e.Command) == "" {
		return editor.Cmd("hajimi", path)
	}

	args, err := shellquote.Split(e.Command)
	if err != nil {
		return nil, fmt.Errorf("invalid editor command %q: %w", e.Command, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty editor command")
	}
	args = append(args, path)
	return exec.CommandContext(ctx, args[0], args[1:]...), nil
}

// ResolveEditor reports which program EditFile would launch
func (e *Editor) ResolveEditor() (string, error) {
	cmd, err := e.command(context.Background(), filepath.Join(os.TempDir(), PromptFileName))
	if err != nil {
		return "", err
	}
	if cmd.Err != nil {
		return "", cmd.Err
	}
	return cmd.Path, nil
}
