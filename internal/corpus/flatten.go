package corpus

import (
	"fmt"
	"io"
	"strings"
)

// Flatten writes the corpus as plain text, one line of space-joined words per
// transcript, in sorted file order. Records with no words produce no line.
// Malformed records are skipped. Returns the number of lines written.
func Flatten(dir string, w io.Writer) (int, error) {
	paths, err := List(dir)
	if err != nil {
		return 0, err
	}

	lines := 0
	for _, path := range paths {
		rec, err := Read(path)
		if err != nil {
			continue
		}
		words := make([]string, 0, len(rec.Words))
		for _, word := range rec.Words {
			if text := strings.TrimSpace(word.Word); text != "" {
				words = append(words, text)
			}
		}
		if len(words) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, strings.Join(words, " ")); err != nil {
			return lines, fmt.Errorf("write flattened corpus: %w", err)
		}
		lines++
	}
	return lines, nil
}
