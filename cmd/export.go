package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/hajimi/internal"
	"github.com/iksnae/hajimi/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file>...",
	Short: "Export saved conversations to other formats",
	Long: `Export conversations saved with /save to jsonl, md, yaml or json.

Each input file is written to the output directory under its own base name with
the format's extension. Use --out - to write to standard output instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create exporter
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		// Load every input first so a bad file fails before anything is written
		transcripts := make([]internal.Transcript, 0, len(args))
		for _, path := range args {
			turns, err := internal.LoadHistory(path)
			if err != nil {
				return err
			}
			transcripts = append(transcripts, internal.Transcript{Name: filepath.Base(path), Turns: turns})
		}

		if outputDir == "-" {
			for _, t := range transcripts {
				if err := exporter.Export(t, cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("failed to export %s: %w", t.Name, err)
				}
			}
			return nil
		}

		// Ensure output directory exists
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		printer := internal.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
		exported := 0
		err = printer.ShowProgress(cmd.Context(), fmt.Sprintf("Exporting %d conversation(s) to %s", len(transcripts), outputDir), func() error {
			for _, t := range transcripts {
				base := strings.TrimSuffix(t.Name, filepath.Ext(t.Name))
				target := filepath.Join(outputDir, base+"."+exporter.Extension())

				file, err := os.Create(target)
				if err != nil {
					internal.LogError("Failed to create file %s: %v", target, err)
					continue
				}

				if err := exporter.Export(t, file); err != nil {
					_ = file.Close()
					internal.LogError("Failed to export %s: %v", t.Name, err)
					continue
				}

				if err := file.Close(); err != nil {
					internal.LogWarn("Failed to close file %s: %v", target, err)
					continue
				}
				exported++
			}
			if exported == 0 {
				return fmt.Errorf("no conversations exported")
			}
			return nil
		})
		if err != nil {
			return err
		}

		printer.Success(fmt.Sprintf("Export complete: %d conversation(s) exported to %s", exported, outputDir))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format ("+strings.Join(export.Formats, ", ")+")")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory, or - for standard output")
}
