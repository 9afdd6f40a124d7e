package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kaiku/internal/corpus"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pipeline progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.catalogStore()
			if err != nil {
				return err
			}
			led, err := ctx.progressLedger()
			if err != nil {
				return err
			}

			cat := store.Load()
			transcripts, err := corpus.List(cfg.Paths.TranscriptDir)
			if err != nil {
				transcripts = nil
			}

			rows := [][]string{
				{"Cataloged", strconv.Itoa(len(cat.Items))},
				{"Downloaded", strconv.Itoa(cat.DownloadedCount())},
				{"Pending download", strconv.Itoa(len(cat.Pending()))},
				{"Transcribed", strconv.Itoa(led.Count())},
				{"Transcript files", strconv.Itoa(len(transcripts))},
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Stage", "Count"}, rows, 2))
			if cat.LastUpdated != nil {
				fmt.Fprintf(out, "Catalog updated: %s\n", cat.LastUpdated.Format("2006-01-02 15:04:05 MST"))
			}
			fmt.Fprintf(out, "State dir: %s\n", cfg.Paths.StateDir)
			return nil
		},
	}
}
