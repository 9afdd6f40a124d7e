// Package corpus defines the transcript record format and the helpers for
// reading and writing the transcript corpus directory.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Word is a single transcribed word with its time span in seconds.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Record is one transcript: the ordered words recognized in one media file.
// Records are written once by the transcription stage and never mutated.
type Record struct {
	FileName string `json:"file_name"`
	ItemID   string `json:"youtube_id"`
	Words    []Word `json:"words"`
}

// Normalize trims word text, drops empty entries, and clamps inverted time
// spans. Word order is preserved; the collaborator emits temporal order.
func (r *Record) Normalize() {
	kept := r.Words[:0]
	for _, w := range r.Words {
		w.Word = strings.TrimSpace(w.Word)
		if w.Word == "" {
			continue
		}
		if w.Start < 0 {
			w.Start = 0
		}
		if w.End < w.Start {
			w.End = w.Start
		}
		kept = append(kept, w)
	}
	r.Words = kept
}

// RecordPath returns the corpus file path for a given media file name.
func RecordPath(dir, mediaFileName string) string {
	base := strings.TrimSuffix(mediaFileName, filepath.Ext(mediaFileName))
	return filepath.Join(dir, base+".json")
}

// Write persists a record atomically into the corpus directory, named after
// its source media file. Returns the written path.
func Write(dir string, rec Record) (string, error) {
	if rec.FileName == "" {
		return "", fmt.Errorf("corpus: record file name must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create corpus directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal transcript: %w", err)
	}
	data = append(data, '\n')

	path := RecordPath(dir, rec.FileName)
	tmpPath := path + ".tmp"
	if err := writeFileSynced(tmpPath, data); err != nil {
		return "", fmt.Errorf("write temp transcript: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("replace transcript: %w", err)
	}
	return path, nil
}

// writeFileSynced writes data and flushes it to durable storage before
// closing; the transcription stage's ledger ordering assumes a written
// record survives a crash.
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

// Read parses one transcript record from disk.
func Read(path string) (Record, error) {
	var rec Record
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parse transcript %s: %w", filepath.Base(path), err)
	}
	return rec, nil
}

// List returns the sorted paths of all transcript files in dir.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus directory: %w", err)
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
