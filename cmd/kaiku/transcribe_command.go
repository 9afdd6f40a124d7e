package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kaiku/internal/services/whisperx"
	"kaiku/internal/transcribe"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe downloaded media into the transcript corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			led, err := ctx.progressLedger()
			if err != nil {
				return err
			}

			release, err := ctx.acquireStageLock()
			if err != nil {
				return err
			}
			defer release()

			service := whisperx.NewService(whisperx.Config{
				Model:       cfg.Transcription.Model,
				CUDAEnabled: cfg.Transcription.CUDAEnabled,
			})

			stage := transcribe.New(led, service,
				cfg.Paths.MediaDir, cfg.Paths.TranscriptDir, cfg.Transcription.Language, logger)

			if len(stage.Pending()) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to transcribe")
				return nil
			}

			bar := newProgressBar(stage.Total(), "transcribing")
			stage.WithAdvance(advanceFunc(bar))

			report, err := stage.Run(cmd.Context())
			finishProgressBar(bar)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Transcription finished: %s\n", report)
			if report.Failed > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Failed files stay pending; rerun to retry them.")
			}
			return nil
		},
	}
}
