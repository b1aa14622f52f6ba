package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/hajimi/internal"
)

// JSONLExporter exports transcripts in JSONL format (one turn per line)
type JSONLExporter struct{}

type jsonlTurn struct {
	Index   int    `json:"index"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Opaque  int    `json:"opaque_parts,omitempty"`
}

// Export exports a transcript to JSONL format
func (e *JSONLExporter) Export(transcript internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i, turn := range internal.Compact(transcript.Turns) {
		line := jsonlTurn{
			Index:   i,
			Role:    string(turn.Role),
			Content: turn.Text(),
			Opaque:  turn.OpaqueCount(),
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode turn %d: %w", i, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
