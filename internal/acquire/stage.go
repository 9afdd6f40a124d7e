// Package acquire implements the acquisition stage: fetching media for
// catalog items that have not been downloaded yet.
package acquire

import (
	"context"
	"log/slog"

	"kaiku/internal/catalog"
	"kaiku/internal/fileutil"
	"kaiku/internal/logging"
	"kaiku/internal/naming"
	"kaiku/internal/services"
	"kaiku/internal/stage"
)

// Download formats. The choice is fixed for a whole run, never per item.
const (
	FormatMP3 = "mp3"
	FormatMP4 = "mp4"
)

// Fetcher turns an item identifier into a local media file. destBase is the
// canonical base file name (no extension) inside the media directory.
type Fetcher interface {
	Fetch(ctx context.Context, itemID, destBase, format string) (string, error)
}

// extensionsFor lists the final extensions a fetch may produce per format.
// The mp4 profile can fall back to mkv or webm when muxing to mp4 fails.
func extensionsFor(format string) []string {
	if format == FormatMP3 {
		return []string{".mp3"}
	}
	return []string{".mp4", ".mkv", ".webm"}
}

// Stage runs acquisition over the catalog.
type Stage struct {
	store    *catalog.Store
	fetcher  Fetcher
	mediaDir string
	format   string
	logger   *slog.Logger
	advance  func()
}

// New constructs the acquisition stage. A nil logger discards output.
func New(store *catalog.Store, fetcher Fetcher, mediaDir, format string, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Stage{
		store:    store,
		fetcher:  fetcher,
		mediaDir: mediaDir,
		format:   format,
		logger:   logger,
	}
}

// WithAdvance sets a per-item progress callback.
func (s *Stage) WithAdvance(fn func()) *Stage {
	s.advance = fn
	return s
}

// Run processes every pending catalog item oldest-first. Each success flips
// the item's downloaded flag and saves the catalog immediately, so a crash
// costs at most the in-progress item. A file already on disk under the
// item's canonical base name counts as downloaded without invoking the
// fetcher; that covers runs that fetched but crashed before flag persistence.
func (s *Stage) Run(ctx context.Context, cat *catalog.Catalog) (stage.Report, error) {
	return stage.Run(ctx, s.logger, cat.Pending(), stage.Actions[*catalog.Item]{
		Name: "acquire",
		ID:   func(item *catalog.Item) string { return item.ID },
		Done: func(item *catalog.Item) bool { return item.Downloaded },
		Execute: func(ctx context.Context, item *catalog.Item) error {
			return s.fetchItem(ctx, item)
		},
		Persist: func(_ context.Context, item *catalog.Item) error {
			item.Downloaded = true
			return s.store.Save(cat)
		},
		Advance: s.advance,
	})
}

func (s *Stage) fetchItem(ctx context.Context, item *catalog.Item) error {
	publishedAt, err := item.PublishedTime()
	if err != nil {
		return services.Wrap(services.ErrValidation, "acquire", "derive file name", "", err)
	}
	base := naming.MediaBase(item.ID, item.Name, publishedAt)

	if name, ok := fileutil.FindWithBase(s.mediaDir, base, extensionsFor(s.format)); ok {
		s.logger.Info("media already on disk, skipping fetch",
			logging.String(logging.FieldItemID, item.ID),
			logging.String("file", name))
		return nil
	}

	localPath, err := s.fetcher.Fetch(ctx, item.ID, base, s.format)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "acquire", "fetch", item.Name, err)
	}

	s.logger.Info("media downloaded",
		logging.String(logging.FieldItemID, item.ID),
		logging.String("file", localPath))
	return nil
}
