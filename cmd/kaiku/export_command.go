package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kaiku/internal/corpus"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the transcript corpus as plain text, one transcript per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputPath != "" {
				file, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer file.Close()
				out = file
			}

			count, err := corpus.Flatten(cfg.Paths.TranscriptDir, out)
			if err != nil {
				return fmt.Errorf("export corpus: %w", err)
			}
			if outputPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transcripts to %s\n", count, outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
