package export

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
	"github.com/Aman-CERP/wnexport/internal/wordnet"
)

// sqliteSchema creates the three dictionary tables.
var sqliteSchema = []string{
	`CREATE TABLE definition (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    data            TEXT,
    part_of_speech  TEXT NOT NULL
)`,
	`CREATE TABLE word (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    data    TEXT NOT NULL
)`,
	`CREATE TABLE word_definition (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    definition_id   INTEGER,
    word_id         INTEGER,
    FOREIGN KEY (definition_id) REFERENCES definition(id),
    FOREIGN KEY (word_id) REFERENCES word(id)
)`,
}

// SQLiteExporter writes dictionary.sqlite3.
type SQLiteExporter struct {
	opts Options
}

// NewSQLiteExporter creates a SQLite exporter.
func NewSQLiteExporter(opts Options) *SQLiteExporter {
	return &SQLiteExporter{opts: opts.withDefaults()}
}

// Export builds the database in one transaction.
func (e *SQLiteExporter) Export(ctx context.Context, idx *wordnet.LexicalIndex) (*Result, error) {
	start := time.Now()
	plan := BuildPlan(idx)

	e.opts.Logger.Info("creating database",
		slog.String("dir", e.opts.OutputDir),
		slog.Int("words", len(plan.Words)),
		slog.Int("definitions", len(plan.Definitions)))

	path, err := writeOutput(e.opts, ModeDatabase.FileName(), func(tmp string) error {
		return writeSQLite(ctx, tmp, plan)
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Mode:        ModeDatabase,
		Location:    path,
		Words:       len(plan.Words),
		Definitions: len(plan.Definitions),
		Links:       len(plan.Links),
		Duration:    time.Since(start),
	}, nil
}

func writeSQLite(ctx context.Context, path string, plan *Plan) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return dbError("failed to open database", err)
	}
	defer func() { _ = db.Close() }()

	// Single connection so the PRAGMAs apply to the transaction below
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return dbError(fmt.Sprintf("failed to set %s", pragma), err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return dbError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range sqliteSchema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return dbError("failed to create schema", err)
		}
	}

	insertDefinition, err := tx.PrepareContext(ctx, "INSERT INTO definition (id, data, part_of_speech) VALUES (?, ?, ?)")
	if err != nil {
		return dbError("failed to prepare definition insert", err)
	}
	defer func() { _ = insertDefinition.Close() }()

	insertWord, err := tx.PrepareContext(ctx, "INSERT INTO word (id, data) VALUES (?, ?)")
	if err != nil {
		return dbError("failed to prepare word insert", err)
	}
	defer func() { _ = insertWord.Close() }()

	insertLink, err := tx.PrepareContext(ctx, "INSERT INTO word_definition (id, definition_id, word_id) VALUES (?, ?, ?)")
	if err != nil {
		return dbError("failed to prepare word_definition insert", err)
	}
	defer func() { _ = insertLink.Close() }()

	for _, d := range plan.Definitions {
		if _, err := insertDefinition.ExecContext(ctx, d.ID, d.Data, d.PartOfSpeech); err != nil {
			return dbError("failed to insert definition", err)
		}
	}
	for _, w := range plan.Words {
		if _, err := insertWord.ExecContext(ctx, w.ID, w.Data); err != nil {
			return dbError(fmt.Sprintf("failed to insert word %q", w.Data), err)
		}
	}
	for _, l := range plan.Links {
		if _, err := insertLink.ExecContext(ctx, l.ID, l.DefinitionID, l.WordID); err != nil {
			return dbError("failed to insert word_definition", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return dbError("failed to commit transaction", err)
	}
	return nil
}

func dbError(message string, err error) error {
	return wnerrors.New(wnerrors.ErrCodeDatabase, message, err)
}
