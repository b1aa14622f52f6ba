package cmd

import (
	"fmt"

	"github.com/iksnae/hajimi/internal"
	"github.com/iksnae/hajimi/internal/gemini"
	"github.com/spf13/cobra"
)

var chatLoad string

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	systemPrompt, err := cfg.SystemPrompt()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := gemini.New(ctx, gemini.Options{
		APIKey:          cfg.APIKey,
		SystemPrompt:    systemPrompt,
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
	})
	if err != nil {
		return err
	}

	// The journal is optional; chatting works without it
	var recorder internal.PromptRecorder
	journal, err := internal.OpenJournal(cfg.JournalPath)
	if err != nil {
		internal.LogWarn("Prompt journal disabled: %v", err)
	} else {
		defer func() {
			if err := journal.Close(); err != nil {
				internal.LogWarn("Failed to close journal: %v", err)
			}
		}()
		recorder = journal
		internal.LogDebug("Journal session %s at %s", journal.SessionID(), cfg.JournalPath)
	}

	out := cmd.OutOrStdout()
	printer := internal.NewPrinter(out, cmd.ErrOrStderr())

	session := internal.NewSession(cfg.Model)
	if chatLoad != "" {
		turns, err := internal.LoadHistory(chatLoad)
		if err != nil {
			printer.Error(err.Error())
			printer.Warning("Starting with an empty conversation")
		} else {
			session = session.WithHistory(turns)
			printer.Success(fmt.Sprintf("Loaded %d turn(s) from %s", len(turns), chatLoad))
		}
	}

	controller := internal.NewController(session, internal.ControllerOptions{
		Service:      client,
		Models:       newModelCatalog(cfg, client),
		Input:        internal.NewInputAccumulator(cmd.InOrStdin(), out),
		Editor:       internal.NewEditor(cfg.Editor),
		Recorder:     recorder,
		Out:          out,
		Err:          cmd.ErrOrStderr(),
		SystemPrompt: systemPrompt != "",
	})
	return controller.Run(ctx)
}

func newModelCatalog(cfg *internal.Config, lister internal.ModelLister) *internal.ModelCatalog {
	cache := internal.NewCacheManager(cfg.CacheDir)
	return internal.NewModelCatalog(cache, lister, cfg.CatalogKey(), cfg.ModelsTTL)
}

func init() {
	rootCmd.Flags().String("model", "", "Model to start with (overrides GEMINI_MODEL)")
	rootCmd.Flags().String("system-prompt", "", "Path to a system prompt file (overrides SYSTEM_PROMPT)")
	rootCmd.Flags().String("editor", "", "Editor command for /editor and /history (overrides HAJIMI_EDITOR)")
	rootCmd.Flags().StringVar(&chatLoad, "load", "", "Start from a saved conversation")
}
