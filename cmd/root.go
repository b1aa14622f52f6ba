package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/hajimi/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose bool
	envFile string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// flagBindings maps configuration keys to the flags that override them
var flagBindings = map[string]string{
	internal.KeyModel:        "model",
	internal.KeySystemPrompt: "system-prompt",
	internal.KeyEditor:       "editor",
}

// rootCmd starts an interactive chat when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "hajimi",
	Short: "Chat with Gemini models from the terminal",
	Long: `An interactive terminal client for Google Gemini.

The conversation is kept in memory and can be saved, loaded, edited in your
editor, and carried over when you switch models mid-chat.

Configuration comes from a .env file in the working directory and the
environment (GEMINI_API_KEY, GEMINI_MODEL, SYSTEM_PROMPT, HAJIMI_EDITOR, ...).

Quick Start:
  hajimi                          # Start chatting
  hajimi --model gemini-2.5-pro   # Start with another model
  hajimi models                   # List available models
  hajimi show chat.json           # Render a saved conversation
  hajimi export chat.json -f md   # Export a saved conversation

Type /help inside a chat for the list of commands.`,
	Args:    cobra.NoArgs,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	RunE: runChat,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer internal.SyncLogger()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		internal.SyncLogger()
		os.Exit(1)
	}
}

// loadConfig resolves configuration for cmd. Each call builds its own viper
// instance so flags bound by one command never leak into another.
func loadConfig(cmd *cobra.Command) (*internal.Config, error) {
	v := viper.New()
	for key, name := range flagBindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
			}
		}
	}
	return internal.LoadConfig(v, envFile)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Read configuration from this dotenv file instead of ./.env")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
