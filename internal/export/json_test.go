package export

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iksnae/hajimi/internal"
)

func TestJSONExporter_OutputLoadsBack(t *testing.T) {
	transcript := internal.CreateTestTranscriptWithTurns("chunks", []internal.Turn{
		internal.NewTextTurn(internal.RoleUser, "Hi"),
		internal.NewTextTurn(internal.RoleModel, "Hel"),
		internal.NewTextTurn(internal.RoleModel, "lo"),
	})

	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(transcript, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	got, err := internal.DecodeHistory(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeHistory() error = %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(internal.Compact(transcript.Turns), got); diff != "" {
		t.Errorf("exported history mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(internal.CreateTestTranscriptWithTurns("empty", nil), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("Export() = %q, want %q", got, "[]\n")
	}
}
