package config

const (
	defaultStateDir       = "~/.local/share/kaiku"
	defaultMediaDir       = "~/.local/share/kaiku/media"
	defaultTranscriptDir  = "~/.local/share/kaiku/transcripts"
	defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"
	defaultPageSize       = 50
	defaultRequestTimeout = 30
	defaultFormat         = "mp3"
	defaultYtdlpBinary    = "yt-dlp"
	defaultLanguage       = "fi"
	defaultModel          = "large-v3-turbo"
	defaultThreshold      = 80
	defaultWatchBaseURL   = "https://www.youtube.com/watch"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:      defaultStateDir,
			MediaDir:      defaultMediaDir,
			TranscriptDir: defaultTranscriptDir,
		},
		YouTube: YouTube{
			BaseURL:        defaultYouTubeBaseURL,
			PageSize:       defaultPageSize,
			RequestTimeout: defaultRequestTimeout,
		},
		Download: Download{
			Format:      defaultFormat,
			YtdlpBinary: defaultYtdlpBinary,
		},
		Transcription: Transcription{
			Language: defaultLanguage,
			Model:    defaultModel,
		},
		Search: Search{
			Threshold:    defaultThreshold,
			WatchBaseURL: defaultWatchBaseURL,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
