package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"kaiku/internal/logging"
	"kaiku/internal/services/youtube"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Refresh the catalog from the channel's uploads",
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

			client, err := youtube.New(cfg.YouTube.APIKey, cfg.YouTube.BaseURL, cfg.YouTube.PageSize,
				youtube.WithHTTPClient(&http.Client{
					Timeout: time.Duration(cfg.YouTube.RequestTimeout) * time.Second,
				}))
			if err != nil {
				return fmt.Errorf("youtube client: %w", err)
			}

			cat := store.Load()
			known := cat.Has
			if full {
				known = nil
			}

			items, err := client.ListNewItems(cmd.Context(), cfg.YouTube.Channel, known)
			if err != nil {
				return fmt.Errorf("list uploads: %w", err)
			}

			added := cat.Merge(items)
			if err := store.Save(cat); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}

			logging.NewComponentLogger(logger, "fetch").Info("catalog refreshed",
				logging.Int("listed", len(items)),
				logging.Int("added", added))
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog: %d items (%d new)\n", len(cat.Items), added)
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Re-list the entire channel history instead of stopping at known items")
	return cmd
}
