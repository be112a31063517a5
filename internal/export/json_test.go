package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONExporter_WritesWordOrderedDocument(t *testing.T) {
	// Given: an index
	idx := testIndex(t)
	dir := t.TempDir()

	// When: exporting to JSON
	res, err := NewJSONExporter(Options{OutputDir: dir}).Export(context.Background(), idx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dictionary.json"), res.Location)

	raw, err := os.ReadFile(res.Location)
	require.NoError(t, err)

	// Then: the document is a pretty-printed array in word order
	assert.True(t, strings.HasPrefix(string(raw), "[\n  {\n    \"word\": \"abc\","))

	var docs []JSONWord
	require.NoError(t, json.Unmarshal(raw, &docs))
	require.Len(t, docs, 4)
	assert.Equal(t, "abc", docs[0].Word)
	assert.Equal(t, []JSONDefinition{{Data: "a test gloss", PartOfSpeech: "noun"}}, docs[0].Definitions)
	assert.Equal(t, "lonely", docs[2].Word)
	assert.NotNil(t, docs[2].Definitions)
	assert.Empty(t, docs[2].Definitions)

	// And: quotes are not SQL-escaped in JSON
	assert.Equal(t, "o'clock", docs[3].Word)
	assert.Equal(t, "used after a number to say the hour, as in one's o'clock", docs[3].Definitions[0].Data)
}

func TestJSONExporter_EmptyDefinitionsEncodeAsArray(t *testing.T) {
	raw, err := json.Marshal(Documents(testIndex(t))[2])

	require.NoError(t, err)
	assert.JSONEq(t, `{"word":"lonely","definitions":[]}`, string(raw))
}
