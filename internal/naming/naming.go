// Package naming implements the canonical media file naming scheme shared by
// the acquisition stage, the transcription stage, and the search engine:
//
//	{unixTimestamp}_{YYYYMMDD}_{itemID}_{sanitizedTitle}.{ext}
package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnparseable marks file names that do not follow the naming scheme.
var ErrUnparseable = errors.New("file name does not match naming scheme")

// titleReplacer maps filesystem-hostile characters to dashes.
var titleReplacer = strings.NewReplacer(
	"\\", "-",
	"/", "-",
	":", "-",
	"\"", "-",
	"*", "-",
	"?", "-",
	"<", "-",
	">", "-",
	"|", "-",
)

// SanitizeTitle replaces filesystem-hostile characters with dashes and
// collapses runs of whitespace into single spaces.
func SanitizeTitle(title string) string {
	return strings.Join(strings.Fields(titleReplacer.Replace(title)), " ")
}

// MediaBase derives the canonical base file name (no extension) for an item.
func MediaBase(itemID, title string, publishedAt time.Time) string {
	utc := publishedAt.UTC()
	return fmt.Sprintf("%d_%s_%s_%s", utc.Unix(), utc.Format("20060102"), itemID, SanitizeTitle(title))
}

// Parsed holds the fields recovered from a canonical file name.
type Parsed struct {
	ItemID string
	Title  string
}

// Parse extracts the item ID and title from a file name produced by MediaBase.
// The extension is ignored. Accidental double separators are tolerated: empty
// segments are discarded, and a name with fewer than three non-empty segments
// is rejected with ErrUnparseable.
func Parse(fileName string) (Parsed, error) {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	parts := strings.Split(base, "_")

	nonEmpty := 0
	for _, part := range parts {
		if part != "" {
			nonEmpty++
		}
	}
	if nonEmpty < 3 {
		return Parsed{}, fmt.Errorf("%w: %q", ErrUnparseable, fileName)
	}

	// The item ID is the third field; skip past empty segments left by a
	// doubled separator so the ID is never mistaken for one of them.
	idx := 2
	for idx < len(parts) && parts[idx] == "" {
		idx++
	}
	if idx >= len(parts) {
		return Parsed{}, fmt.Errorf("%w: %q", ErrUnparseable, fileName)
	}

	titleParts := make([]string, 0, len(parts)-idx-1)
	for _, part := range parts[idx+1:] {
		if part != "" {
			titleParts = append(titleParts, part)
		}
	}

	return Parsed{
		ItemID: parts[idx],
		Title:  strings.Join(titleParts, "_"),
	}, nil
}
