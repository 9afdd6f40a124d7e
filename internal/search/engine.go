// Package search implements fuzzy word search over the transcript corpus,
// fanned out across worker goroutines with deterministic result order.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"kaiku/internal/corpus"
	"kaiku/internal/logging"
	"kaiku/internal/naming"
)

// Match is one transcript word that scored at or above the threshold.
type Match struct {
	ItemID     string
	ItemName   string
	FileName   string
	Word       string
	Start      float64
	End        float64
	Similarity int
}

// Options control one search run.
type Options struct {
	// Dir is the transcript corpus directory.
	Dir string
	// Threshold is the minimum similarity (0-100) for a word to match.
	Threshold int
	// Workers caps the parallel file scanners; zero means one per CPU.
	Workers int
}

// Engine searches the corpus. Safe for concurrent use.
type Engine struct {
	scorer Scorer
	logger *slog.Logger
}

// New constructs a search engine. A nil scorer selects the default
// insert/delete scorer; a nil logger discards output.
func New(scorer Scorer, logger *slog.Logger) *Engine {
	if scorer == nil {
		scorer = NewIndelScorer()
	}
	return &Engine{
		scorer: scorer,
		logger: logging.NewComponentLogger(logger, "search"),
	}
}

// Search scans every transcript for words similar to query. Files are split
// into contiguous runs over the sorted listing, one run per worker, and the
// per-run results are concatenated in run order, so the result set and its
// order do not depend on the worker count. Unreadable or malformed transcript
// files are skipped, as are records whose file name does not follow the
// canonical naming scheme.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]Match, error) {
	normalized := normalizeTerm(query)
	if normalized == "" {
		return nil, errors.New("search: query must not be empty")
	}
	if opts.Threshold < 0 || opts.Threshold > 100 {
		return nil, fmt.Errorf("search: threshold %d out of range 0-100", opts.Threshold)
	}

	paths, err := corpus.List(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	if len(paths) == 0 {
		return nil, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	e.logger.Debug("search started",
		logging.String("query", normalized),
		logging.Int("files", len(paths)),
		logging.Int("workers", workers))

	chunks := splitContiguous(paths, workers)
	results := make([][]Match, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk []string) {
			defer wg.Done()
			results[i] = e.scanFiles(ctx, normalized, opts.Threshold, chunk)
		}(i, chunk)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matches []Match
	for _, part := range results {
		matches = append(matches, part...)
	}

	e.logger.Debug("search finished", logging.Int("matches", len(matches)))
	return matches, nil
}

// splitContiguous divides paths into n contiguous chunks whose sizes differ
// by at most one, preserving order.
func splitContiguous(paths []string, n int) [][]string {
	chunks := make([][]string, 0, n)
	size := len(paths) / n
	extra := len(paths) % n

	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < extra {
			end++
		}
		chunks = append(chunks, paths[start:end])
		start = end
	}
	return chunks
}

func (e *Engine) scanFiles(ctx context.Context, query string, threshold int, paths []string) []Match {
	var matches []Match
	for _, path := range paths {
		if ctx.Err() != nil {
			return matches
		}

		rec, err := corpus.Read(path)
		if err != nil {
			e.logger.Debug("skipping unreadable transcript",
				logging.String("file", path), logging.Error(err))
			continue
		}

		parsed, err := naming.Parse(rec.FileName)
		if err != nil {
			e.logger.Debug("skipping transcript with non-canonical name",
				logging.String("file", rec.FileName))
			continue
		}

		for _, w := range rec.Words {
			score := e.scorer.Score(query, normalizeTerm(w.Word))
			if score < threshold {
				continue
			}
			matches = append(matches, Match{
				ItemID:     rec.ItemID,
				ItemName:   parsed.Title,
				FileName:   rec.FileName,
				Word:       w.Word,
				Start:      w.Start,
				End:        w.End,
				Similarity: score,
			})
		}
	}
	return matches
}
