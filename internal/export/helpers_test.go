package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/wnexport/internal/wordnet"
)

// testIndex builds a four-word index: abc, clock, lonely (no definitions)
// and o'clock, which shares a definition with clock.
func testIndex(t *testing.T) *wordnet.LexicalIndex {
	t.Helper()

	lines := []string{
		"x | a test gloss; usage note",
		"x | a timepiece that shows the time of day; ",
		"x | used after a number to say the hour, as in one's o'clock; ",
	}
	var data strings.Builder
	off := make([]int, len(lines))
	for i, l := range lines {
		off[i] = data.Len()
		data.WriteString(l + "\n")
	}
	index := fmt.Sprintf("abc n 1 %08d\nclock n 2 %08d %08d\nlonely n 0 0\no'clock r 1 %08d\n",
		off[0], off[1], off[2], off[2])

	agg, err := wordnet.NewAggregator(wordnet.Options{Policy: wordnet.DefaultPolicy()})
	require.NoError(t, err)
	require.NoError(t, agg.ProcessReader(context.Background(), "noun",
		strings.NewReader(index), wordnet.NewResolver(strings.NewReader(data.String()))))
	return agg.Index()
}

// expectedMapping is the word -> definitions view of idx.
func expectedMapping(idx *wordnet.LexicalIndex) map[string][]wordnet.Definition {
	out := make(map[string][]wordnet.Definition)
	for _, w := range idx.Words() {
		out[w] = idx.Definitions(w)
	}
	return out
}

// readMapping reconstructs word -> definitions from the dictionary tables.
func readMapping(t *testing.T, db *sql.DB) map[string][]wordnet.Definition {
	t.Helper()

	rows, err := db.Query(`
		SELECT w.data, d.data, d.part_of_speech
		FROM word w
		LEFT JOIN word_definition wd ON wd.word_id = w.id
		LEFT JOIN definition d ON d.id = wd.definition_id
		ORDER BY w.id, wd.id`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	out := make(map[string][]wordnet.Definition)
	for rows.Next() {
		var (
			word      string
			text, pos sql.NullString
		)
		require.NoError(t, rows.Scan(&word, &text, &pos))
		if _, ok := out[word]; !ok {
			out[word] = []wordnet.Definition{}
		}
		if pos.Valid {
			out[word] = append(out[word], wordnet.Definition{Text: text.String, PartOfSpeech: pos.String})
		}
	}
	require.NoError(t, rows.Err())
	return out
}
