package config

import "fmt"

// Validate checks the configuration for values that would misbehave at
// runtime. Credentials are deliberately not required here; commands that need
// them validate their presence themselves.
func (c *Config) Validate() error {
	switch c.Download.Format {
	case "mp3", "mp4":
	default:
		return fmt.Errorf("download.format must be mp3 or mp4, got %q", c.Download.Format)
	}
	if c.Search.Threshold < 0 || c.Search.Threshold > 100 {
		return fmt.Errorf("search.threshold must be between 0 and 100, got %d", c.Search.Threshold)
	}
	if c.YouTube.PageSize > 50 {
		return fmt.Errorf("youtube.page_size must not exceed 50, got %d", c.YouTube.PageSize)
	}
	if c.Transcription.Language == "" {
		return fmt.Errorf("transcription.language must not be empty")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
