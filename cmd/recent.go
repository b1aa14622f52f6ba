package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/hajimi/internal"
	"github.com/spf13/cobra"
)

var (
	recentCount int
	recentJSON  bool
)

var dateStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("243"))

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently submitted prompts",
	Long:  `List the most recent prompts recorded in the prompt journal (HAJIMI_JOURNAL).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		journal, err := internal.OpenJournal(cfg.JournalPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := journal.Close(); err != nil {
				internal.LogWarn("Failed to close journal: %v", err)
			}
		}()

		entries, err := journal.Recent(cmd.Context(), recentCount)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if recentJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if entries == nil {
				entries = []internal.JournalEntry{}
			}
			return enc.Encode(entries)
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, headerStyle.Render("📋 No prompts recorded yet"))
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("When")+"\t"+titleStyle.Render("Model")+"\t"+titleStyle.Render("Prompt")+"\t")
		for _, e := range entries {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n",
				dateStyle.Render(formatWhen(e.CreatedAt, time.Now())),
				e.Model,
				nameStyle.Render(summarizePrompt(e.Prompt, 60)))
		}
		return w.Flush()
	},
}

// formatWhen renders t relative to now at a resolution that fits its age
func formatWhen(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

// summarizePrompt flattens a prompt to one line of at most width runes
func summarizePrompt(prompt string, width int) string {
	line := strings.Join(strings.Fields(prompt), " ")
	runes := []rune(line)
	if len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return line
}

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().IntVarP(&recentCount, "number", "n", 10, "Number of prompts to show")
	recentCmd.Flags().BoolVar(&recentJSON, "json", false, "Print entries as JSON")
}
