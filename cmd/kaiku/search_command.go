package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"kaiku/internal/search"
)

// searchResult is the machine-readable shape of one match for --json output.
type searchResult struct {
	ItemID     string  `json:"item_id"`
	ItemName   string  `json:"item_name"`
	Word       string  `json:"word"`
	Similarity int     `json:"similarity"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Timestamp  string  `json:"timestamp"`
	Link       string  `json:"link"`
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var threshold int
	var workers int
	var showLinks bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <word>",
		Short: "Search the transcript corpus for a word",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Search.Threshold
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Search.Workers
			}

			query := strings.Join(args, " ")
			engine := search.New(nil, logger)
			matches, err := engine.Search(cmd.Context(), query, search.Options{
				Dir:       cfg.Paths.TranscriptDir,
				Threshold: threshold,
				Workers:   workers,
			})
			if err != nil {
				return err
			}

			// Strongest matches first; the engine's deterministic corpus order
			// breaks ties.
			sort.SliceStable(matches, func(i, j int) bool {
				return matches[i].Similarity > matches[j].Similarity
			})

			if jsonOutput {
				results := make([]searchResult, 0, len(matches))
				for _, m := range matches {
					results = append(results, searchResult{
						ItemID:     m.ItemID,
						ItemName:   m.ItemName,
						Word:       m.Word,
						Similarity: m.Similarity,
						Start:      m.Start,
						End:        m.End,
						Timestamp:  formatTimestamp(m.Start),
						Link:       watchLink(cfg.Search.WatchBaseURL, m.ItemID, m.Start),
					})
				}
				return writeJSON(cmd, results)
			}

			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintf(out, "No matches for %q at threshold %d\n", query, threshold)
				return nil
			}

			headers := []string{"Item", "Word", "Score", "Time"}
			if showLinks {
				headers = append(headers, "Link")
			}
			rows := make([][]string, 0, len(matches))
			for _, m := range matches {
				row := []string{
					m.ItemName,
					m.Word,
					strconv.Itoa(m.Similarity),
					formatTimestamp(m.Start),
				}
				if showLinks {
					row = append(row, watchLink(cfg.Search.WatchBaseURL, m.ItemID, m.Start))
				}
				rows = append(rows, row)
			}

			fmt.Fprintln(out, renderTable(headers, rows, 3))
			fmt.Fprintf(out, "%d matches\n", len(matches))
			return nil
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 0, "Minimum similarity score (0-100); defaults to the configured value")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel scan workers; 0 uses one per CPU")
	cmd.Flags().BoolVar(&showLinks, "links", false, "Include deep links to the matched timestamps")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit matches as JSON records instead of a table")
	return cmd
}
