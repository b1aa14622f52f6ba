package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/hajimi/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(transcript internal.Transcript, w io.Writer) error {
	turns := internal.Compact(transcript.Turns)

	title := transcript.Name
	if title == "" {
		title = "Conversation"
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)
	_, _ = fmt.Fprintf(w, "**Turns:** %d\n\n", len(turns))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, turn := range turns {
		_, _ = fmt.Fprintf(w, "**%s:**\n\n", turn.Role)

		for _, f := range turn.Fragments {
			switch v := f.(type) {
			case internal.Text:
				if v.Content != "" {
					_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(v.Content))
				}
			case internal.Opaque:
				_, _ = fmt.Fprintf(w, "```json\n%s\n```\n\n", v.Raw)
			}
		}

		if i < len(turns)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes emphasis markers outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	inCodeBlock := false

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "```"):
			inCodeBlock = !inCodeBlock
		case !inCodeBlock:
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			lines[i] = strings.ReplaceAll(line, "__", "\\_\\_")
		}
	}

	return strings.Join(lines, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
