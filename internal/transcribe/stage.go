// Package transcribe implements the transcription stage: turning downloaded
// media files into word-timestamped transcript records.
package transcribe

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"kaiku/internal/corpus"
	"kaiku/internal/fileutil"
	"kaiku/internal/ledger"
	"kaiku/internal/logging"
	"kaiku/internal/naming"
	"kaiku/internal/services"
	"kaiku/internal/stage"
)

// mediaExtensions are the media file types the stage picks up from the media
// directory, matching what acquisition can produce.
var mediaExtensions = []string{".mp3", ".mp4", ".mkv", ".webm"}

// Transcriber produces word-level timestamps for one media file.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath, language string) ([]corpus.Word, error)
}

// Stage runs transcription over the media directory.
type Stage struct {
	ledger        *ledger.Ledger
	transcriber   Transcriber
	mediaDir      string
	transcriptDir string
	language      string
	logger        *slog.Logger
	advance       func()
}

// New constructs the transcription stage. A nil logger discards output.
func New(led *ledger.Ledger, transcriber Transcriber, mediaDir, transcriptDir, language string, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Stage{
		ledger:        led,
		transcriber:   transcriber,
		mediaDir:      mediaDir,
		transcriptDir: transcriptDir,
		language:      language,
		logger:        logger,
	}
}

// WithAdvance sets a per-item progress callback.
func (s *Stage) WithAdvance(fn func()) *Stage {
	s.advance = fn
	return s
}

// Pending returns the media files not yet recorded in the ledger, in
// lexicographic order. The canonical naming scheme makes that order stable
// and roughly chronological.
func (s *Stage) Pending() []string {
	done := s.ledger.Load()
	var pending []string
	for _, name := range fileutil.ListWithExtensions(s.mediaDir, mediaExtensions) {
		if _, ok := done[name]; !ok {
			pending = append(pending, name)
		}
	}
	return pending
}

// Total returns the number of media files the stage would visit.
func (s *Stage) Total() int {
	return len(fileutil.ListWithExtensions(s.mediaDir, mediaExtensions))
}

// Run transcribes every media file the ledger has not seen. The ledger entry
// is appended only after the transcript record is durably on disk, so a crash
// between the two redoes one transcription instead of losing one transcript.
func (s *Stage) Run(ctx context.Context) (stage.Report, error) {
	done := s.ledger.Load()
	files := fileutil.ListWithExtensions(s.mediaDir, mediaExtensions)

	return stage.Run(ctx, s.logger, files, stage.Actions[string]{
		Name: "transcribe",
		ID:   func(name string) string { return name },
		Done: func(name string) bool {
			_, ok := done[name]
			return ok
		},
		Execute: func(ctx context.Context, name string) error {
			return s.transcribeFile(ctx, name)
		},
		Persist: func(_ context.Context, name string) error {
			return s.ledger.Append(name)
		},
		Advance: s.advance,
	})
}

func (s *Stage) transcribeFile(ctx context.Context, name string) error {
	parsed, err := naming.Parse(name)
	if err != nil {
		return services.Wrap(services.ErrValidation, "transcribe", "parse file name", name, err)
	}

	// A transcript left behind by a run that crashed before its ledger append
	// is complete; only the completion signal is missing.
	recordPath := corpus.RecordPath(s.transcriptDir, name)
	if _, err := os.Stat(recordPath); err == nil {
		s.logger.Info("transcript already on disk, skipping transcription",
			logging.String(logging.FieldItemID, parsed.ItemID),
			logging.String("file", name))
		return nil
	}

	words, err := s.transcriber.Transcribe(ctx, filepath.Join(s.mediaDir, name), s.language)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "transcribe", "transcribe", name, err)
	}

	rec := corpus.Record{FileName: name, ItemID: parsed.ItemID, Words: words}
	rec.Normalize()

	path, err := corpus.Write(s.transcriptDir, rec)
	if err != nil {
		return services.Wrap(services.ErrTransient, "transcribe", "write transcript", name, err)
	}

	s.logger.Info("transcript written",
		logging.String(logging.FieldItemID, parsed.ItemID),
		logging.String("file", filepath.Base(path)),
		logging.Int("words", len(rec.Words)))
	return nil
}
