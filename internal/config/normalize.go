package config

import "strings"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeYouTube()
	c.normalizeDownload()
	c.normalizeTranscription()
	c.normalizeSearch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StateDir, err = expandPath(withDefault(c.Paths.StateDir, defaultStateDir)); err != nil {
		return err
	}
	if c.Paths.MediaDir, err = expandPath(withDefault(c.Paths.MediaDir, defaultMediaDir)); err != nil {
		return err
	}
	if c.Paths.TranscriptDir, err = expandPath(withDefault(c.Paths.TranscriptDir, defaultTranscriptDir)); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeYouTube() {
	c.YouTube.APIKey = strings.TrimSpace(c.YouTube.APIKey)
	c.YouTube.Channel = strings.TrimSpace(c.YouTube.Channel)
	c.YouTube.BaseURL = strings.TrimRight(withDefault(c.YouTube.BaseURL, defaultYouTubeBaseURL), "/")
	if c.YouTube.PageSize <= 0 {
		c.YouTube.PageSize = defaultPageSize
	}
	if c.YouTube.RequestTimeout <= 0 {
		c.YouTube.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeDownload() {
	c.Download.Format = strings.ToLower(withDefault(c.Download.Format, defaultFormat))
	c.Download.YtdlpBinary = withDefault(c.Download.YtdlpBinary, defaultYtdlpBinary)
	c.Download.CookiesFile = strings.TrimSpace(c.Download.CookiesFile)
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Language = strings.ToLower(withDefault(c.Transcription.Language, defaultLanguage))
	c.Transcription.Model = withDefault(c.Transcription.Model, defaultModel)
}

func (c *Config) normalizeSearch() {
	if c.Search.Threshold == 0 {
		c.Search.Threshold = defaultThreshold
	}
	if c.Search.Workers < 0 {
		c.Search.Workers = 0
	}
	c.Search.WatchBaseURL = withDefault(c.Search.WatchBaseURL, defaultWatchBaseURL)
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(withDefault(c.Logging.Level, defaultLogLevel))
	c.Logging.Format = strings.ToLower(withDefault(c.Logging.Format, defaultLogFormat))
}

func withDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
