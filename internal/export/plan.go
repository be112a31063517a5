package export

import (
	"github.com/Aman-CERP/wnexport/internal/wordnet"
)

// WordRow is a row of the word table.
type WordRow struct {
	ID   int64
	Data string
}

// DefinitionRow is a row of the definition table.
type DefinitionRow struct {
	ID           int64
	Data         string
	PartOfSpeech string
}

// LinkRow is a row of the word_definition table.
type LinkRow struct {
	ID           int64
	DefinitionID int64
	WordID       int64
}

// Plan is the relational layout of a LexicalIndex. IDs start at 1 and follow
// word order; a definition takes its ID the first time a word references it.
type Plan struct {
	Words       []WordRow
	Definitions []DefinitionRow
	Links       []LinkRow
}

// BuildPlan assigns row IDs for the relational sinks.
func BuildPlan(idx *wordnet.LexicalIndex) *Plan {
	words := idx.Words()
	plan := &Plan{
		Words: make([]WordRow, 0, len(words)),
	}
	defIDs := make(map[wordnet.DefinitionKey]int64, idx.DefinitionCount())

	for i, w := range words {
		wordID := int64(i + 1)
		plan.Words = append(plan.Words, WordRow{ID: wordID, Data: w})

		for _, key := range idx.Keys(w) {
			def, ok := idx.Definition(key)
			if !ok {
				continue
			}
			defID, seen := defIDs[key]
			if !seen {
				defID = int64(len(plan.Definitions) + 1)
				defIDs[key] = defID
				plan.Definitions = append(plan.Definitions, DefinitionRow{
					ID:           defID,
					Data:         def.Text,
					PartOfSpeech: def.PartOfSpeech,
				})
			}
			plan.Links = append(plan.Links, LinkRow{
				ID:           int64(len(plan.Links) + 1),
				DefinitionID: defID,
				WordID:       wordID,
			})
		}
	}
	return plan
}
