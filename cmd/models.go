package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/hajimi/internal"
	"github.com/iksnae/hajimi/internal/gemini"
	"github.com/spf13/cobra"
)

var (
	modelsRefresh bool
	modelsJSON    bool
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	Long: `List the models offered to your API key.

The list is cached under HAJIMI_CACHE_DIR for HAJIMI_MODELS_TTL; use --refresh
to query the service again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		client, err := gemini.New(ctx, gemini.Options{APIKey: cfg.APIKey})
		if err != nil {
			return err
		}
		catalog := newModelCatalog(cfg, client)

		var models []internal.ModelInfo
		printer := internal.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
		err = printer.ShowProgress(ctx, "Fetching models", func() error {
			var err error
			if modelsRefresh {
				if err := catalog.Invalidate(); err != nil {
					internal.LogWarn("Failed to clear model cache: %v", err)
				}
				models, err = catalog.Refresh(ctx)
			} else {
				models, err = catalog.ListModels(ctx)
			}
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}

		if modelsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(models)
		}
		displayModels(cmd.OutOrStdout(), models, cfg.Model)
		return nil
	},
}

// displayModels prints models as an aligned table, marking current
func displayModels(out io.Writer, models []internal.ModelInfo, current string) {
	if len(models) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No models found"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d model(s)", len(models))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, " \t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Display Name")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, m := range models {
		marker := " "
		if m.Name == current {
			marker = currentStyle.Render("*")
		}
		display := m.DisplayName
		if display == "" {
			display = "—"
		}
		if len(display) > 40 {
			display = display[:37] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n", marker, nameStyle.Render(m.Name), dimStyle.Render(display))
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, dimStyle.Render("💡 Tip: switch inside a chat with /model <name>"))
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().BoolVar(&modelsRefresh, "refresh", false, "Ignore the cached list and query the service")
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "Print the list as JSON")
}
