package internal

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var (
	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	modelLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	turnContentStyle = lipgloss.NewStyle().
				Padding(0, 2)

	counterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// RoleLabel renders the header shown before a turn's content
func RoleLabel(role Role) string {
	switch role {
	case RoleUser:
		return userLabelStyle.Render("user:")
	case RoleModel:
		return modelLabelStyle.Render("model:")
	default:
		return mutedStyle.Render(string(role) + ":")
	}
}

// RenderTurn writes one turn. index and total are 1-based counters; a zero
// total omits the counter.
func RenderTurn(w io.Writer, index, total int, turn Turn) {
	header := RoleLabel(turn.Role)
	if total > 0 {
		header += " " + counterStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	}
	fmt.Fprintln(w, header)

	content := strings.TrimSpace(turn.Text())
	if content != "" {
		fmt.Fprintln(w, turnContentStyle.Render(WrapText(content, 80)))
	} else if turn.OpaqueCount() == 0 {
		fmt.Fprintln(w, turnContentStyle.Foreground(lipgloss.Color("240")).Render("(empty turn)"))
	}
	if n := turn.OpaqueCount(); n > 0 {
		fmt.Fprintln(w, turnContentStyle.Inherit(mutedStyle).Render(fmt.Sprintf("(+%d non-text part(s))", n)))
	}
	fmt.Fprintln(w)
}

// RenderBanner writes the greeting shown when a chat starts
func RenderBanner(w io.Writer, model string, systemPrompt bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bannerStyle.Render("✨ Hajimi Chat CLI"))
	fmt.Fprintf(w, "Model: %s\n", model)
	if systemPrompt {
		fmt.Fprintln(w, "System prompt set (✓)")
	}
	fmt.Fprintln(w, mutedStyle.Render("Type /help for commands. End a line with \\ to keep typing."))
	fmt.Fprintln(w, mutedStyle.Render(strings.Repeat("─", 35)))
}

// WrapText wraps lines wider than width at word boundaries. Width is
// counted in runes; a single word wider than width gets a line of its own.
func WrapText(text string, width int) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if utf8.RuneCountInString(line) <= width {
			out = append(out, line)
			continue
		}

		var cur strings.Builder
		curLen := 0
		for _, word := range strings.Fields(line) {
			n := utf8.RuneCountInString(word)
			if curLen > 0 && curLen+1+n > width {
				out = append(out, cur.String())
				cur.Reset()
				curLen = 0
			}
			if curLen > 0 {
				cur.WriteByte(' ')
				curLen++
			}
			cur.WriteString(word)
			curLen += n
		}
		if curLen > 0 {
			out = append(out, cur.String())
		}
	}
	return strings.Join(out, "\n")
}
