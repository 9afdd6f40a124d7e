// Package ledger maintains the append-only record of completed
// transcriptions: one source file name per line. It is the durable completion
// signal the transcription stage consults on restart, independent of the
// catalog's own flags.
package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Ledger is a plain-text append-only completion log.
type Ledger struct {
	path string
}

// New creates a ledger backed by the given file path.
func New(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the backing file location.
func (l *Ledger) Path() string {
	return l.path
}

// Load reads the set of completed file names. A missing or unreadable file
// yields an empty set; the ledger favors forward progress over strictness.
func (l *Ledger) Load() map[string]struct{} {
	done := make(map[string]struct{})

	file, err := os.Open(l.path)
	if err != nil {
		return done
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name != "" {
			done[name] = struct{}{}
		}
	}
	return done
}

// Count returns the number of completed entries.
func (l *Ledger) Count() int {
	return len(l.Load())
}

// Append records a completed file name. The write is flushed to durable
// storage before returning; a completion must never be reported until its
// ledger entry survives a crash.
func (l *Ledger) Append(fileName string) error {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return errors.New("ledger: file name must not be empty")
	}

	if dir := filepath.Dir(l.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	if _, err := file.WriteString(fileName + "\n"); err != nil {
		file.Close()
		return fmt.Errorf("append ledger entry: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("sync ledger: %w", err)
	}
	return file.Close()
}

// Exists reports whether the ledger file is present on disk.
func (l *Ledger) Exists() bool {
	_, err := os.Stat(l.path)
	return !errors.Is(err, fs.ErrNotExist)
}
