package wordnet

import (
	"slices"
)

// LexicalIndex is the frozen result of a run: a definition table and a word
// table mapping each kept word to the keys of its definitions.
type LexicalIndex struct {
	definitions map[DefinitionKey]Definition
	words       map[string][]DefinitionKey
	order       []string
}

// newLexicalIndex copies the aggregator tables into an immutable index.
func newLexicalIndex(definitions map[DefinitionKey]Definition, words map[string]map[DefinitionKey]struct{}) *LexicalIndex {
	idx := &LexicalIndex{
		definitions: make(map[DefinitionKey]Definition, len(definitions)),
		words:       make(map[string][]DefinitionKey, len(words)),
		order:       make([]string, 0, len(words)),
	}
	for k, d := range definitions {
		idx.definitions[k] = d
	}
	for w, set := range words {
		keys := make([]DefinitionKey, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, func(a, b DefinitionKey) int {
			switch {
			case a.less(b):
				return -1
			case b.less(a):
				return 1
			}
			return 0
		})
		idx.words[w] = keys
		idx.order = append(idx.order, w)
	}
	slices.Sort(idx.order)
	return idx
}

// Words returns every kept word in byte-wise sorted order.
func (x *LexicalIndex) Words() []string {
	return slices.Clone(x.order)
}

// Keys returns the definition keys of word, ordered by part of speech and
// offset. A word with no offsets returns an empty slice.
func (x *LexicalIndex) Keys(word string) []DefinitionKey {
	return slices.Clone(x.words[word])
}

// Definition looks up a definition by key.
func (x *LexicalIndex) Definition(key DefinitionKey) (Definition, bool) {
	d, ok := x.definitions[key]
	return d, ok
}

// Definitions returns the resolved definitions of word in key order.
func (x *LexicalIndex) Definitions(word string) []Definition {
	keys := x.words[word]
	defs := make([]Definition, 0, len(keys))
	for _, k := range keys {
		if d, ok := x.definitions[k]; ok {
			defs = append(defs, d)
		}
	}
	return defs
}

// Len returns the number of words.
func (x *LexicalIndex) Len() int {
	return len(x.order)
}

// DefinitionCount returns the number of entries in the definition table,
// including definitions no kept word references.
func (x *LexicalIndex) DefinitionCount() int {
	return len(x.definitions)
}
