package search

import (
	"strings"
	"unicode/utf8"

	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Scorer rates how closely a candidate word matches the query, 0 to 100.
type Scorer interface {
	Score(query, candidate string) int
}

// IndelScorer scores by normalized insert/delete edit distance: substitutions
// count as a delete plus an insert, so transposed or partially matching
// Finnish word forms still score high.
type IndelScorer struct {
	lev *metrics.Levenshtein
}

// NewIndelScorer constructs the default scorer.
func NewIndelScorer() *IndelScorer {
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = true
	lev.InsertCost = 1
	lev.DeleteCost = 1
	lev.ReplaceCost = 2
	return &IndelScorer{lev: lev}
}

// Score returns the percentage similarity of two already-normalized strings.
// Two empty strings are a perfect match.
func (s *IndelScorer) Score(query, candidate string) int {
	total := utf8.RuneCountInString(query) + utf8.RuneCountInString(candidate)
	if total == 0 {
		return 100
	}
	dist := s.lev.Distance(query, candidate)
	ratio := 100 * (1 - float64(dist)/float64(total))
	return int(ratio + 0.5)
}

var foldCaser = cases.Fold()

// normalizeTerm canonicalizes text for comparison: compose to NFC so that
// decomposed umlauts match their composed forms, then case-fold and trim.
func normalizeTerm(text string) string {
	return strings.TrimSpace(foldCaser.String(norm.NFC.String(text)))
}
