package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/hajimi/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports transcripts in YAML format
type YAMLExporter struct{}

type yamlTranscript struct {
	Name  string     `yaml:"name,omitempty"`
	Turns []yamlTurn `yaml:"turns"`
}

type yamlTurn struct {
	Role  string        `yaml:"role"`
	Parts []interface{} `yaml:"parts"`
}

// Export exports a transcript to YAML format. Text parts become plain
// strings; other parts keep their JSON structure as YAML mappings.
func (e *YAMLExporter) Export(transcript internal.Transcript, w io.Writer) error {
	doc := yamlTranscript{Name: transcript.Name, Turns: []yamlTurn{}}

	for i, turn := range internal.Compact(transcript.Turns) {
		yt := yamlTurn{Role: string(turn.Role), Parts: []interface{}{}}
		for j, f := range turn.Fragments {
			switch v := f.(type) {
			case internal.Text:
				yt.Parts = append(yt.Parts, v.Content)
			case internal.Opaque:
				var part interface{}
				if err := json.Unmarshal(v.Raw, &part); err != nil {
					return fmt.Errorf("turn %d part %d: %w", i, j, err)
				}
				yt.Parts = append(yt.Parts, part)
			}
		}
		doc.Turns = append(doc.Turns, yt)
	}

	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	enc.SetIndent(2)

	return enc.Encode(doc)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
