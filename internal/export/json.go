package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
	"github.com/Aman-CERP/wnexport/internal/wordnet"
)

// JSONWord is one element of dictionary.json.
type JSONWord struct {
	Word        string           `json:"word"`
	Definitions []JSONDefinition `json:"definitions"`
}

// JSONDefinition is a definition inside a JSONWord.
type JSONDefinition struct {
	Data         string `json:"data"`
	PartOfSpeech string `json:"part_of_speech"`
}

// JSONExporter writes dictionary.json.
type JSONExporter struct {
	opts Options
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(opts Options) *JSONExporter {
	return &JSONExporter{opts: opts.withDefaults()}
}

// Documents converts idx into the JSON document model in word order.
func Documents(idx *wordnet.LexicalIndex) []JSONWord {
	words := idx.Words()
	docs := make([]JSONWord, 0, len(words))
	for _, w := range words {
		defs := idx.Definitions(w)
		doc := JSONWord{Word: w, Definitions: make([]JSONDefinition, 0, len(defs))}
		for _, d := range defs {
			doc.Definitions = append(doc.Definitions, JSONDefinition{Data: d.Text, PartOfSpeech: d.PartOfSpeech})
		}
		docs = append(docs, doc)
	}
	return docs
}

// Export writes the pretty-printed document.
func (e *JSONExporter) Export(ctx context.Context, idx *wordnet.LexicalIndex) (*Result, error) {
	start := time.Now()
	docs := Documents(idx)

	e.opts.Logger.Info("creating JSON",
		slog.String("dir", e.opts.OutputDir),
		slog.Int("words", len(docs)))

	links := 0
	for _, d := range docs {
		links += len(d.Definitions)
	}

	path, err := writeOutput(e.opts, ModeJSON.FileName(), func(tmp string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := os.Create(tmp)
		if err != nil {
			return wnerrors.New(wnerrors.ErrCodeWriteFailed, fmt.Sprintf("failed to create %s", tmp), err)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(docs); err != nil {
			_ = f.Close()
			return wnerrors.New(wnerrors.ErrCodeWriteFailed, "failed to encode JSON", err)
		}
		if err := f.Close(); err != nil {
			return wnerrors.New(wnerrors.ErrCodeWriteFailed, "failed to close JSON file", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Mode:        ModeJSON,
		Location:    path,
		Words:       len(docs),
		Definitions: idx.DefinitionCount(),
		Links:       links,
		Duration:    time.Since(start),
	}, nil
}
