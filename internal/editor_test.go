package internal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestEditor(t *testing.T, command string) *Editor {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("editor tests use a POSIX shell")
	}
	return &Editor{
		Command:  command,
		TempRoot: t.TempDir(),
		Stdin:    strings.NewReader(""),
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
	}
}

func requireScratchRemoved(t *testing.T, e *Editor) {
	t.Helper()
	entries, err := os.ReadDir(e.TempRoot)
	require.NoError(t, err)
	require.Empty(t, entries, "scratch directory should be removed")
}

func TestEditor_ComposeWritesPrompt(t *testing.T) {
	e := newTestEditor(t, `sh -c 'printf "hello from the editor\n\n" > "$1"' sh`)

	got, err := e.Edit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "hello from the editor", got)
	requireScratchRemoved(t, e)
}

func TestEditor_UnmodifiedInitialContent(t *testing.T) {
	e := newTestEditor(t, "true")
	initial := "keep me\n"

	got, err := e.EditFile(context.Background(), HistoryFileName, &initial)
	require.NoError(t, err)
	require.Equal(t, "keep me", got)
	requireScratchRemoved(t, e)
}

func TestEditor_HistoryRoundTrip(t *testing.T) {
	e := newTestEditor(t, "true")
	history := Compact([]Turn{
		NewTextTurn(RoleUser, "Hello"),
		NewTextTurn(RoleModel, "Hi "),
		NewTextTurn(RoleModel, "there"),
		{Role: RoleUser, Fragments: []Fragment{mustOpaque(t, `{"fileData":{"fileUri":"gs://b/o"}}`)}},
	})

	data, err := EncodeHistory(history)
	require.NoError(t, err)
	serialized := string(data)

	edited, err := e.EditFile(context.Background(), HistoryFileName, &serialized)
	require.NoError(t, err)

	parsed, err := DecodeHistory([]byte(edited))
	require.NoError(t, err)
	if diff := cmp.Diff(history, parsed, equateEmpty); diff != "" {
		t.Errorf("editor round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_FailureStillCleansUp(t *testing.T) {
	e := newTestEditor(t, "false")
	initial := "content"

	_, err := e.EditFile(context.Background(), HistoryFileName, &initial)
	var editorErr *EditorError
	require.True(t, errors.As(err, &editorErr), "EditFile() error = %v, want *EditorError", err)
	require.Equal(t, "run", editorErr.Op)
	requireScratchRemoved(t, e)
}

func TestEditor_LaunchFailure(t *testing.T) {
	e := newTestEditor(t, "/nonexistent/editor-binary")

	_, err := e.Edit(context.Background())
	var editorErr *EditorError
	require.True(t, errors.As(err, &editorErr), "Edit() error = %v, want *EditorError", err)
	require.Equal(t, "launch", editorErr.Op)
	requireScratchRemoved(t, e)
}

func TestEditor_NothingWritten(t *testing.T) {
	e := newTestEditor(t, "true")

	_, err := e.Edit(context.Background())
	var editorErr *EditorError
	require.True(t, errors.As(err, &editorErr), "Edit() error = %v, want *EditorError", err)
	require.Equal(t, "read", editorErr.Op)
	requireScratchRemoved(t, e)
}

func TestEditor_InvalidCommand(t *testing.T) {
	e := newTestEditor(t, `vim 'unterminated`)

	_, err := e.Edit(context.Background())
	var editorErr *EditorError
	require.True(t, errors.As(err, &editorErr))
	require.Equal(t, "launch", editorErr.Op)
}

func TestEditor_ResolveEditor(t *testing.T) {
	e := newTestEditor(t, "sh -c true")
	path, err := e.ResolveEditor()
	require.NoError(t, err)
	require.Contains(t, path, "sh")

	missing := newTestEditor(t, "/nonexistent/editor-binary")
	path, err = missing.ResolveEditor()
	// exec.Command only defers lookup errors for bare names, so an absolute
	// path resolves even when the file is absent.
	require.NoError(t, err)
	require.Equal(t, "/nonexistent/editor-binary", path)
}
