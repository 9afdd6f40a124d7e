package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kaiku/internal/acquire"
	"kaiku/internal/services/ytdlp"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Download media for pending catalog items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.catalogStore()
			if err != nil {
				return err
			}

			release, err := ctx.acquireStageLock()
			if err != nil {
				return err
			}
			defer release()

			fetcher := ytdlp.NewClient(ytdlp.Config{
				Binary:      cfg.Download.YtdlpBinary,
				MediaDir:    cfg.Paths.MediaDir,
				CookiesFile: cfg.Download.CookiesFile,
			})

			cat := store.Load()
			pending := cat.Pending()
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to download")
				return nil
			}

			bar := newProgressBar(len(pending), "downloading")
			stage := acquire.New(store, fetcher, cfg.Paths.MediaDir, cfg.Download.Format, logger).
				WithAdvance(advanceFunc(bar))

			report, err := stage.Run(cmd.Context(), cat)
			finishProgressBar(bar)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Download finished: %s\n", report)
			if report.Failed > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Failed items stay pending; rerun to retry them.")
			}
			return nil
		},
	}
}
