package export

import (
	"io"

	"github.com/iksnae/hajimi/internal"
)

// JSONExporter writes the compacted history in the same format /save uses,
// so its output can be loaded back
type JSONExporter struct{}

// Export exports a transcript to JSON format
func (e *JSONExporter) Export(transcript internal.Transcript, w io.Writer) error {
	data, err := internal.EncodeHistory(internal.Compact(transcript.Turns))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
