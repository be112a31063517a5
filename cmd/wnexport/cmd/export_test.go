package cmd

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
	"github.com/Aman-CERP/wnexport/internal/export"
)

func readJSON(t *testing.T, path string) map[string][]export.JSONDefinition {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var docs []export.JSONWord
	require.NoError(t, json.Unmarshal(data, &docs))
	out := make(map[string][]export.JSONDefinition, len(docs))
	for _, d := range docs {
		out[d.Word] = d.Definitions
	}
	return out
}

func TestExport_DefaultModeCreatesDatabase(t *testing.T) {
	// Given: a WordNet directory and an empty working directory
	wd := isolate(t)
	dict := writeWordNet(t)

	// When: running with only the source directory
	out, err := runCLI(t, "-d", dict)

	// Then: the SQLite database is written to the working directory
	require.NoError(t, err, out)
	assert.Contains(t, out, "Found index.noun...")
	assert.Contains(t, out, "Found data.verb...")
	assert.Contains(t, out, "Parsing 2 pairs (noun, verb)")
	assert.Contains(t, out, "Database created successfully!")
	assert.Contains(t, out, "WARN: index.adj")

	db, err := sql.Open("sqlite", filepath.Join(wd, "dictionary.sqlite3"))
	require.NoError(t, err)
	defer db.Close()

	var words, definitions int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM word").Scan(&words))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM definition").Scan(&definitions))
	assert.Equal(t, 3, words)
	assert.Equal(t, 4, definitions)
}

func TestExport_JSONWithFilters(t *testing.T) {
	// Given: a WordNet directory and a separate output directory
	isolate(t)
	dict := writeWordNet(t)
	outDir := t.TempDir()

	// When: exporting whole words only as JSON
	out, err := runCLI(t, "-d", dict, "-o", outDir, "-W", "-J")

	// Then: o'clock is dropped and dog carries both parts of speech
	require.NoError(t, err, out)
	assert.Contains(t, out, "JSON created successfully!")

	docs := readJSON(t, filepath.Join(outDir, "dictionary.json"))
	assert.Len(t, docs, 2)
	assert.NotContains(t, docs, "o'clock")
	assert.ElementsMatch(t, []export.JSONDefinition{
		{Data: "a domesticated canid", PartOfSpeech: "noun"},
		{Data: "go after with the intent to catch", PartOfSpeech: "verb"},
	}, docs["dog"])
}

func TestExport_KeepNumbersAndCharCounts(t *testing.T) {
	isolate(t)
	dict := writeWordNet(t)
	outDir := t.TempDir()

	out, err := runCLI(t, "-d", dict, "-o", outDir, "-k", "-c", "2", "--mode", "json")

	require.NoError(t, err, out)
	docs := readJSON(t, filepath.Join(outDir, "dictionary.json"))
	assert.Equal(t, []export.JSONDefinition{{Data: "a domesticated canid", PartOfSpeech: "noun"}}, docs["3d"])
	assert.Len(t, docs, 1)
}

func TestExport_SQLDump(t *testing.T) {
	isolate(t)
	dict := writeWordNet(t)
	outDir := t.TempDir()

	out, err := runCLI(t, "-d", dict, "-o", outDir, "-S", "--workers", "1")

	require.NoError(t, err, out)
	assert.Contains(t, out, "SQL created successfully!")
	dump, err := os.ReadFile(filepath.Join(outDir, "dictionary_dump.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(dump), "INSERT INTO word")
	assert.Contains(t, string(dump), "COMMIT;")
}

func TestExport_NoWordsIsAnError(t *testing.T) {
	// Given: a length filter no word satisfies
	isolate(t)
	dict := writeWordNet(t)
	outDir := t.TempDir()

	// When: exporting
	_, err := runCLI(t, "-d", dict, "-o", outDir, "-c", "20")

	// Then: the run fails and no output file is left behind
	require.Error(t, err)
	assert.Equal(t, wnerrors.ErrCodeNoWords, wnerrors.GetCode(err))
	assert.Contains(t, err.Error(), "No words found for given arguments!")
	assert.NoFileExists(t, filepath.Join(outDir, "dictionary.sqlite3"))
}

func TestExport_MissingSourceDirectory(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "-d", filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.Equal(t, wnerrors.ErrCodeDirNotFound, wnerrors.GetCode(err))
	assert.Contains(t, err.Error(), "does not exist!")
}

func TestExport_OutputDirectoryMustExist(t *testing.T) {
	isolate(t)
	dict := writeWordNet(t)

	_, err := runCLI(t, "-d", dict, "-o", filepath.Join(t.TempDir(), "nope"))

	require.Error(t, err)
	assert.Equal(t, wnerrors.ErrCodeDirNotFound, wnerrors.GetCode(err))
}

func TestExport_DirectoryIsRequired(t *testing.T) {
	isolate(t)

	_, err := runCLI(t)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestExport_MutuallyExclusiveFlags(t *testing.T) {
	isolate(t)
	dict := writeWordNet(t)

	tests := []struct {
		name string
		args []string
	}{
		{"char counts with min", []string{"-c", "3", "-m", "2"}},
		{"char counts with max", []string{"-c", "3", "-M", "9"}},
		{"sql and json", []string{"-S", "-J"}},
		{"mode and json", []string{"--mode", "sql", "-J"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, append([]string{"-d", dict, "-o", t.TempDir()}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "none of the others can be")
		})
	}
}

func TestExport_InvalidFlagValues(t *testing.T) {
	isolate(t)
	dict := writeWordNet(t)

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"unknown mode", []string{"--mode", "xml"}, wnerrors.ErrCodeModeUnsupported},
		{"postgres without dsn", []string{"--mode", "postgres"}, wnerrors.ErrCodeConfigInvalid},
		{"bad key mode", []string{"--key-mode", "global"}, wnerrors.ErrCodeConfigInvalid},
		{"min above max", []string{"-m", "9", "-M", "3"}, wnerrors.ErrCodeFilterConflict},
		{"bad char counts", []string{"-c", "3,x"}, wnerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, append([]string{"-d", dict, "-o", t.TempDir()}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.code, wnerrors.GetCode(err))
		})
	}
}

func TestExport_ExistingOutputNeedsForce(t *testing.T) {
	// Given: a previous export in the output directory
	isolate(t)
	dict := writeWordNet(t)
	outDir := t.TempDir()
	_, err := runCLI(t, "-d", dict, "-o", outDir, "-J")
	require.NoError(t, err)

	// When: exporting again without --force
	_, err = runCLI(t, "-d", dict, "-o", outDir, "-J")

	// Then: the existing file is kept
	require.Error(t, err)
	assert.Equal(t, wnerrors.ErrCodeOutputExists, wnerrors.GetCode(err))

	// And: --force replaces it
	_, err = runCLI(t, "-d", dict, "-o", outDir, "-J", "--force", "-W")
	require.NoError(t, err)
	assert.Len(t, readJSON(t, filepath.Join(outDir, "dictionary.json")), 2)
}

func TestExport_ProjectConfigIsApplied(t *testing.T) {
	// Given: a project config selecting JSON and whole words only
	wd := isolate(t)
	dict := writeWordNet(t)
	cfg := "filter:\n  whole_words_only: true\noutput:\n  mode: json\n"
	require.NoError(t, os.WriteFile(filepath.Join(wd, ".wnexport.yaml"), []byte(cfg), 0o644))

	// When: running with only the source directory
	out, err := runCLI(t, "-d", dict)

	// Then: the config decides mode and filters
	require.NoError(t, err, out)
	assert.Len(t, readJSON(t, filepath.Join(wd, "dictionary.json")), 2)
}

func TestExport_FlagsOverrideProjectConfig(t *testing.T) {
	// Given: a project config with explicit lengths
	wd := isolate(t)
	dict := writeWordNet(t)
	cfg := "filter:\n  char_counts: [7]\noutput:\n  mode: json\n"
	require.NoError(t, os.WriteFile(filepath.Join(wd, ".wnexport.yaml"), []byte(cfg), 0o644))

	// When: the command line asks for a length range instead
	out, err := runCLI(t, "-d", dict, "-m", "3", "-M", "3")

	// Then: the range replaces the configured lengths without a conflict
	require.NoError(t, err, out)
	docs := readJSON(t, filepath.Join(wd, "dictionary.json"))
	assert.Contains(t, docs, "cat")
	assert.Contains(t, docs, "dog")
	assert.NotContains(t, docs, "o'clock")
}

func TestExport_FlagFixesInvalidConfigFile(t *testing.T) {
	// Given: a project config selecting postgres without a DSN
	wd := isolate(t)
	dict := writeWordNet(t)
	require.NoError(t, os.WriteFile(filepath.Join(wd, ".wnexport.yaml"), []byte("output:\n  mode: postgres\n"), 0o644))

	// When: the command line picks JSON instead
	out, err := runCLI(t, "-d", dict, "-J")

	// Then: the merged result is valid and JSON is written
	require.NoError(t, err, out)
	assert.Len(t, readJSON(t, filepath.Join(wd, "dictionary.json")), 3)

	// And: without the flag the same config is still rejected
	_, err = runCLI(t, "-d", dict)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.dsn")
}

func TestExport_ProjectConfigTurnsUserFilterOff(t *testing.T) {
	// Given: the user config keeps numbers and the project config does not
	wd := isolate(t)
	dict := writeWordNet(t)
	userDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "wnexport")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "config.yaml"),
		[]byte("filter:\n  keep_numbers: true\n  min_chars: 2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(wd, ".wnexport.yaml"),
		[]byte("filter:\n  keep_numbers: false\n  char_counts: [2, 3, 7]\noutput:\n  mode: json\n"), 0o644))

	// When: running with no filter flags
	out, err := runCLI(t, "-d", dict)

	// Then: the project layer wins for both settings
	require.NoError(t, err, out)
	docs := readJSON(t, filepath.Join(wd, "dictionary.json"))
	assert.NotContains(t, docs, "3d")
	assert.Contains(t, docs, "cat")
	assert.Contains(t, docs, "o'clock")
}

func TestExport_LegacyKeyModeCollapsesSharedOffsets(t *testing.T) {
	// Given: the noun and verb dog synsets sit at the same byte offset
	isolate(t)
	dict := writeWordNet(t)
	scopedDir, legacyDir := t.TempDir(), t.TempDir()

	// When: exporting in both key modes
	_, err := runCLI(t, "-d", dict, "-o", scopedDir, "-J")
	require.NoError(t, err)
	_, err = runCLI(t, "-d", dict, "-o", legacyDir, "-J", "--key-mode", "legacy")
	require.NoError(t, err)

	// Then: scoped keeps both, legacy keeps the first writer (noun)
	scoped := readJSON(t, filepath.Join(scopedDir, "dictionary.json"))
	legacy := readJSON(t, filepath.Join(legacyDir, "dictionary.json"))
	assert.Len(t, scoped["dog"], 2)
	assert.Equal(t, []export.JSONDefinition{{Data: "a domesticated canid", PartOfSpeech: "noun"}}, legacy["dog"])
	assert.Equal(t, scoped["cat"], legacy["cat"])
}

func TestExport_WritesLogFile(t *testing.T) {
	isolate(t)
	dict := writeWordNet(t)

	_, err := runCLI(t, "-d", dict, "-o", t.TempDir(), "-J")
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	content, err := os.ReadFile(filepath.Join(home, ".wnexport", "logs", "wnexport.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"export complete"`)
}
