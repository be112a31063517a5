package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
	"github.com/Aman-CERP/wnexport/internal/wordnet"
)

// SQLDumpExporter writes dictionary_dump.sql, a script that rebuilds the
// SQLite database.
type SQLDumpExporter struct {
	opts Options
}

// NewSQLDumpExporter creates a SQL script exporter.
func NewSQLDumpExporter(opts Options) *SQLDumpExporter {
	return &SQLDumpExporter{opts: opts.withDefaults()}
}

// Export writes the script.
func (e *SQLDumpExporter) Export(ctx context.Context, idx *wordnet.LexicalIndex) (*Result, error) {
	start := time.Now()
	plan := BuildPlan(idx)

	e.opts.Logger.Info("creating SQL",
		slog.String("dir", e.opts.OutputDir),
		slog.Int("words", len(plan.Words)))

	path, err := writeOutput(e.opts, ModeSQL.FileName(), func(tmp string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := os.Create(tmp)
		if err != nil {
			return wnerrors.New(wnerrors.ErrCodeWriteFailed, fmt.Sprintf("failed to create %s", tmp), err)
		}
		if err := WriteDump(f, plan); err != nil {
			_ = f.Close()
			return wnerrors.New(wnerrors.ErrCodeWriteFailed, "failed to write SQL dump", err)
		}
		if err := f.Close(); err != nil {
			return wnerrors.New(wnerrors.ErrCodeWriteFailed, "failed to close SQL dump", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Mode:        ModeSQL,
		Location:    path,
		Words:       len(plan.Words),
		Definitions: len(plan.Definitions),
		Links:       len(plan.Links),
		Duration:    time.Since(start),
	}, nil
}

// WriteDump renders plan as a SQLite script wrapped in one transaction.
func WriteDump(w io.Writer, plan *Plan) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("PRAGMA defer_foreign_keys=ON;\n")
	bw.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range sqliteSchema {
		bw.WriteString(stmt)
		bw.WriteString(";\n")
	}

	// Rows are emitted word by word so each parent precedes its links.
	defIdx, linkIdx := 0, 0
	for _, word := range plan.Words {
		fmt.Fprintf(bw, "INSERT INTO word VALUES(%d,%s);\n", word.ID, quoteSQL(word.Data))
		for linkIdx < len(plan.Links) && plan.Links[linkIdx].WordID == word.ID {
			link := plan.Links[linkIdx]
			if defIdx < len(plan.Definitions) && plan.Definitions[defIdx].ID == link.DefinitionID {
				d := plan.Definitions[defIdx]
				fmt.Fprintf(bw, "INSERT INTO definition VALUES(%d,%s,%s);\n", d.ID, quoteSQL(d.Data), quoteSQL(d.PartOfSpeech))
				defIdx++
			}
			fmt.Fprintf(bw, "INSERT INTO word_definition VALUES(%d,%d,%d);\n", link.ID, link.DefinitionID, link.WordID)
			linkIdx++
		}
	}

	bw.WriteString("DELETE FROM sqlite_sequence;\n")
	fmt.Fprintf(bw, "INSERT INTO sqlite_sequence VALUES('definition',%d);\n", len(plan.Definitions))
	fmt.Fprintf(bw, "INSERT INTO sqlite_sequence VALUES('word',%d);\n", len(plan.Words))
	fmt.Fprintf(bw, "INSERT INTO sqlite_sequence VALUES('word_definition',%d);\n", len(plan.Links))
	bw.WriteString("COMMIT;")

	return bw.Flush()
}

// quoteSQL renders s as a SQL string literal, doubling single quotes.
func quoteSQL(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
