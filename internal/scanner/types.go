// Package scanner discovers WordNet index/data file pairs in a directory.
package scanner

import (
	"github.com/Aman-CERP/wnexport/internal/wordnet"
)

// File name prefixes of the lexicographer files.
const (
	IndexPrefix = "index."
	DataPrefix  = "data."
)

// DefaultIgnore lists index files that are not part-of-speech indexes.
var DefaultIgnore = []string{"index.sense"}

// ScanOptions configures the scanner behavior.
type ScanOptions struct {
	// RootDir is the WordNet dict directory. Only its top level is read.
	RootDir string

	// Ignore lists file names to skip. Nil uses DefaultIgnore.
	Ignore []string
}

// Result is the outcome of a directory scan.
type Result struct {
	// Pairs are sorted by part of speech.
	Pairs []wordnet.Pair

	// Unpaired lists index or data files with no partner, by file name.
	Unpaired []string

	// Skipped lists ignored file names that were present.
	Skipped []string
}

// PartsOfSpeech returns the part of speech of every pair in order.
func (r *Result) PartsOfSpeech() []string {
	out := make([]string, len(r.Pairs))
	for i, p := range r.Pairs {
		out[i] = p.PartOfSpeech
	}
	return out
}
