// Package ytdlp wraps the yt-dlp command line tool for media downloads.
package ytdlp

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"kaiku/internal/fileutil"
)

// DefaultBinary is the yt-dlp executable resolved from PATH.
const DefaultBinary = "yt-dlp"

// watchURL is the canonical page yt-dlp downloads from.
const watchURL = "https://www.youtube.com/watch?v="

// Config holds the yt-dlp invocation settings.
type Config struct {
	// Binary is the yt-dlp executable; empty selects DefaultBinary.
	Binary string
	// MediaDir is where downloads land.
	MediaDir string
	// CookiesFile, when set, is passed for age-gated or member content.
	CookiesFile string
}

// Client downloads media through yt-dlp.
type Client struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewClient creates a yt-dlp client.
func NewClient(cfg Config) *Client {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	return &Client{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	c.commandRunner = runner
}

func (c *Client) run(ctx context.Context, name string, args ...string) error {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Fetch downloads one item into the media directory under destBase plus the
// extension yt-dlp settles on, and returns the resulting path. The audio
// profile re-encodes to mp3; the video profile muxes to mp4 where the source
// streams allow it and falls back to mkv or webm otherwise.
func (c *Client) Fetch(ctx context.Context, itemID, destBase, format string) (string, error) {
	if itemID == "" {
		return "", fmt.Errorf("ytdlp: item id required")
	}
	if destBase == "" {
		return "", fmt.Errorf("ytdlp: destination base required")
	}

	args := c.buildArgs(itemID, destBase, format)
	if err := c.run(ctx, c.cfg.Binary, args...); err != nil {
		return "", fmt.Errorf("ytdlp: %w", err)
	}

	name, ok := fileutil.FindWithBase(c.cfg.MediaDir, destBase, extensionsFor(format))
	if !ok {
		return "", fmt.Errorf("ytdlp: download finished but no %s file for %s", format, destBase)
	}
	return filepath.Join(c.cfg.MediaDir, name), nil
}

func (c *Client) buildArgs(itemID, destBase, format string) []string {
	args := make([]string, 0, 16)

	if c.cfg.CookiesFile != "" {
		args = append(args, "--cookies", c.cfg.CookiesFile)
	}

	if format == "mp3" {
		args = append(args,
			"-f", "bestaudio/best",
			"--extract-audio",
			"--audio-format", "mp3",
			"--audio-quality", "0",
		)
	} else {
		args = append(args,
			"-f", "bestvideo+bestaudio/best",
			"--merge-output-format", "mp4",
		)
	}

	args = append(args,
		"-o", filepath.Join(c.cfg.MediaDir, destBase+".%(ext)s"),
		watchURL+itemID,
	)
	return args
}

func extensionsFor(format string) []string {
	if format == "mp3" {
		return []string{".mp3"}
	}
	return []string{".mp4", ".mkv", ".webm"}
}
