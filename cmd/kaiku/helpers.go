package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// formatTimestamp renders a word start time as HH:MM:SS.
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// watchLink builds a deep link into an item at the given offset.
func watchLink(baseURL, itemID string, startSeconds float64) string {
	start := int(startSeconds)
	if start < 0 {
		start = 0
	}
	return fmt.Sprintf("%s?v=%s&t=%d", baseURL, url.QueryEscape(itemID), start)
}

// newProgressBar returns a progress bar on stderr, or nil when stderr is not
// a terminal so batch and cron output stays clean.
func newProgressBar(total int, description string) *progressbar.ProgressBar {
	if total <= 0 {
		return nil
	}
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// advanceFunc adapts a progress bar to a per-item callback; a nil bar yields
// a nil callback.
func advanceFunc(bar *progressbar.ProgressBar) func() {
	if bar == nil {
		return nil
	}
	return func() { _ = bar.Add(1) }
}

func finishProgressBar(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
