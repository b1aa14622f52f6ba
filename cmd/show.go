package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/hajimi/internal"
	"github.com/spf13/cobra"
)

var (
	limit    int
	showRole string
	showRaw  bool
)

var (
	// Styles for show command
	transcriptHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	transcriptMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show a saved conversation",
	Long: `Display the turns of a conversation saved with /save.

Consecutive text turns from the same role are merged, as they would be when the
conversation is loaded; pass --raw to see the turns exactly as stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		turns, err := internal.LoadHistory(path)
		if err != nil {
			return err
		}
		if !showRaw {
			turns = internal.Compact(turns)
		}

		// Filter by role if --role is provided
		if showRole != "" {
			role, err := internal.ParseRole(strings.ToLower(showRole))
			if err != nil {
				return fmt.Errorf("invalid --role: %w", err)
			}
			filtered := make([]internal.Turn, 0, len(turns))
			for _, t := range turns {
				if t.Role == role {
					filtered = append(filtered, t)
				}
			}
			turns = filtered
		}

		out := cmd.OutOrStdout()
		displayTranscriptHeader(out, path, turns)

		// Apply limit if specified
		total := len(turns)
		shown := turns
		if limit > 0 && limit < total {
			shown = turns[:limit]
		}

		for i, t := range shown {
			internal.RenderTurn(out, i+1, total, t)
		}

		// Show remaining count if limit was applied
		if len(shown) < total {
			fmt.Fprintln(out, lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true).
				Render(fmt.Sprintf("... (%d more turn(s))", total-len(shown))))
		}

		return nil
	},
}

func displayTranscriptHeader(out io.Writer, path string, turns []internal.Turn) {
	fmt.Fprintln(out, transcriptHeaderStyle.Render(fmt.Sprintf("💬 %s", filepath.Base(path))))

	var users, models, opaque int
	for _, t := range turns {
		switch t.Role {
		case internal.RoleUser:
			users++
		case internal.RoleModel:
			models++
		}
		opaque += t.OpaqueCount()
	}

	metaParts := []string{
		fmt.Sprintf("Turns: %d", len(turns)),
		fmt.Sprintf("User: %d", users),
		fmt.Sprintf("Model: %d", models),
	}
	if opaque > 0 {
		metaParts = append(metaParts, fmt.Sprintf("Non-text parts: %d", opaque))
	}
	fmt.Fprintln(out, transcriptMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(out)
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of turns to show")
	showCmd.Flags().StringVar(&showRole, "role", "", "Only show turns from this role (user or model)")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Show turns as stored, without merging")
}
