package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/hajimi/internal"
	"github.com/iksnae/hajimi/internal/gemini"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
	healthcheckRemote  bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that hajimi is configured and can reach its resources",
	Long: `Check the health of hajimi by verifying:
  • Configuration and API key presence
  • Editor resolution for /editor and /history
  • Cache directory access
  • Prompt journal access
  • Optionally (--remote) that the service answers a model listing`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0

		fmt.Fprintln(out, sectionStyle.Render("🔍 Hajimi Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to load configuration:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Configuration invalid:"), err)
			failed++
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ Configuration valid"))
		}
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Model: %s\n", cfg.Model)
			fmt.Fprintf(out, "   Temperature: %v, max output tokens: %d\n", cfg.Temperature, cfg.MaxOutputTokens)
		}
		if cfg.SystemPromptPath != "" {
			if _, err := cfg.SystemPrompt(); err != nil {
				fmt.Fprintln(out, errorStyle.Render("❌ System prompt unreadable:"), err)
				failed++
			} else {
				fmt.Fprintln(out, successStyle.Render("✅ System prompt readable"))
			}
		}
		fmt.Fprintln(out)

		// Step 2: Editor
		fmt.Fprintln(out, infoStyle.Render("Step 2: Resolving editor..."))
		editorPath, err := internal.NewEditor(cfg.Editor).ResolveEditor()
		if err != nil {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No editor found:"), err)
			fmt.Fprintln(out, "   /editor and /history will not work; set HAJIMI_EDITOR or $EDITOR")
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ Editor found"))
			if healthcheckVerbose {
				fmt.Fprintf(out, "   Editor: %s\n", editorPath)
			}
		}
		fmt.Fprintln(out)

		// Step 3: Cache directory
		fmt.Fprintln(out, infoStyle.Render("Step 3: Checking cache directory..."))
		if err := checkWritableDir(cfg.CacheDir); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Cache directory not writable:"), err)
			failed++
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ Cache directory writable"))
			if healthcheckVerbose {
				fmt.Fprintf(out, "   Directory: %s\n", cfg.CacheDir)
			}
		}
		fmt.Fprintln(out)

		// Step 4: Journal
		fmt.Fprintln(out, infoStyle.Render("Step 4: Opening prompt journal..."))
		journal, err := internal.OpenJournal(cfg.JournalPath)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to open journal:"), err)
			failed++
		} else {
			entries, err := journal.Recent(cmd.Context(), 1)
			_ = journal.Close()
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render("❌ Journal unreadable:"), err)
				failed++
			} else {
				fmt.Fprintln(out, successStyle.Render("✅ Journal accessible"))
				if healthcheckVerbose {
					fmt.Fprintf(out, "   Database: %s\n", cfg.JournalPath)
					if len(entries) > 0 {
						fmt.Fprintf(out, "   Last prompt: %s\n", entries[0].CreatedAt.Format("2006-01-02 15:04"))
					}
				}
			}
		}
		fmt.Fprintln(out)

		// Step 5: Remote service
		if healthcheckRemote {
			fmt.Fprintln(out, infoStyle.Render("Step 5: Contacting the service..."))
			if err := checkRemote(cmd, out, cfg); err != nil {
				fmt.Fprintln(out, errorStyle.Render("❌ Service check failed:"), err)
				failed++
			}
			fmt.Fprintln(out)
		}

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		if failed > 0 {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Health check failed (%d problem(s))", failed)))
			return fmt.Errorf("health check failed: %d problem(s)", failed)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func checkWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".healthcheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func checkRemote(cmd *cobra.Command, out io.Writer, cfg *internal.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	client, err := gemini.New(cmd.Context(), gemini.Options{APIKey: cfg.APIKey})
	if err != nil {
		return err
	}
	models, err := client.ListModels(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Service reachable, %d model(s) available", len(models))))
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "verbose", "v", false, "Show detailed diagnostic information")
	healthcheckCmd.Flags().BoolVar(&healthcheckRemote, "remote", false, "Also query the service for its model list")
}
