package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kaiku/internal/logging"
)

// Store persists the catalog as a single JSON file with replace-on-write
// semantics. Corrupt or missing state degrades to an empty catalog; it is
// never fatal, so the pipeline always makes forward progress.
type Store struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a catalog store backed by the given file path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "catalog"),
		now:    time.Now,
	}
}

// WithClock overrides the timestamp source (for testing).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Load reads the persisted catalog. A missing file yields an empty catalog;
// an unreadable or corrupt file is logged and likewise treated as empty.
func (s *Store) Load() *Catalog {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("catalog unreadable, starting fresh",
				logging.String("path", s.path),
				logging.Error(err))
		}
		return &Catalog{}
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		s.logger.Warn("catalog corrupt, starting fresh",
			logging.String("path", s.path),
			logging.Error(err))
		return &Catalog{}
	}
	return &cat
}

// Save writes the full catalog atomically and stamps LastUpdated with the
// current UTC time. It is called after every individual flag mutation during
// a stage run, which bounds crash loss to the in-progress item.
func (s *Store) Save(cat *Catalog) error {
	stamp := s.now().UTC().Truncate(time.Second)
	cat.LastUpdated = &stamp

	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog directory: %w", err)
		}
	}

	tmpPath := s.path + ".tmp"
	if err := writeFileSynced(tmpPath, data); err != nil {
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace catalog: %w", err)
	}

	s.logger.Debug("catalog saved",
		logging.Int("items", len(cat.Items)),
		logging.String("path", s.path))
	return nil
}

// writeFileSynced writes data and flushes it to durable storage before
// closing, so the subsequent rename never publishes an unflushed file.
func writeFileSynced(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
