// Package wordnet turns Princeton WordNet index/data file pairs into a
// LexicalIndex of words and their glosses.
//
// The package does no directory discovery and no output formatting: pairs
// come from internal/scanner, and the resulting index is handed to one of the
// sinks in internal/export.
package wordnet

import (
	"fmt"
	"strings"
)

// Pair is one index/data file pair sharing a part-of-speech suffix.
type Pair struct {
	IndexPath    string
	DataPath     string
	PartOfSpeech string
}

// Definition is a gloss resolved from a data file line.
type Definition struct {
	Text         string
	PartOfSpeech string
}

// DefinitionKey identifies a Definition in the definition table.
// PartOfSpeech is empty when keys are built in KeyLegacy mode.
type DefinitionKey struct {
	PartOfSpeech string
	Offset       uint64
}

// String renders the key as "pos:00000010", or the bare offset in legacy mode.
func (k DefinitionKey) String() string {
	if k.PartOfSpeech == "" {
		return fmt.Sprintf("%08d", k.Offset)
	}
	return fmt.Sprintf("%s:%08d", k.PartOfSpeech, k.Offset)
}

// less orders keys by part of speech, then offset.
func (k DefinitionKey) less(o DefinitionKey) bool {
	if k.PartOfSpeech != o.PartOfSpeech {
		return k.PartOfSpeech < o.PartOfSpeech
	}
	return k.Offset < o.Offset
}

// KeyMode selects how definitions are keyed.
type KeyMode string

const (
	// KeyScoped keys definitions by (part of speech, offset). Offsets from
	// different data files never collide.
	KeyScoped KeyMode = "scoped"

	// KeyLegacy keys definitions by raw offset only. When two data files share
	// an offset the first pair processed wins, matching the output of earlier
	// WordNet exporters.
	KeyLegacy KeyMode = "legacy"
)

// ParseKeyMode parses a key mode name. Empty selects KeyScoped.
func ParseKeyMode(s string) (KeyMode, error) {
	switch KeyMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", KeyScoped:
		return KeyScoped, nil
	case KeyLegacy:
		return KeyLegacy, nil
	default:
		return "", fmt.Errorf("key mode must be 'scoped' or 'legacy', got %q", s)
	}
}

// Key builds the definition table key for an offset found in a pair.
func (m KeyMode) Key(partOfSpeech string, offset uint64) DefinitionKey {
	if m == KeyLegacy {
		return DefinitionKey{Offset: offset}
	}
	return DefinitionKey{PartOfSpeech: partOfSpeech, Offset: offset}
}
