package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
	"github.com/Aman-CERP/wnexport/internal/wordnet"
)

// postgresSchema mirrors sqliteSchema with identity columns.
var postgresSchema = []string{
	`CREATE TABLE definition (
    id              BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    data            TEXT,
    part_of_speech  TEXT NOT NULL
)`,
	`CREATE TABLE word (
    id      BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    data    TEXT NOT NULL
)`,
	`CREATE TABLE word_definition (
    id              BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    definition_id   BIGINT REFERENCES definition(id),
    word_id         BIGINT REFERENCES word(id)
)`,
}

var postgresTables = []string{"word_definition", "word", "definition"}

// PostgresExporter writes the dictionary tables into a PostgreSQL database.
type PostgresExporter struct {
	opts Options
}

// NewPostgresExporter creates a PostgreSQL exporter.
func NewPostgresExporter(opts Options) *PostgresExporter {
	return &PostgresExporter{opts: opts.withDefaults()}
}

// newPool parses the DSN, connects, and pings for fail-fast validation.
func newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}
	poolCfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Export creates the tables and bulk-loads them inside one transaction.
func (e *PostgresExporter) Export(ctx context.Context, idx *wordnet.LexicalIndex) (*Result, error) {
	start := time.Now()
	plan := BuildPlan(idx)

	pool, err := newPool(ctx, e.opts.PostgresDSN)
	if err != nil {
		return nil, dbError("failed to connect to PostgreSQL", err)
	}
	defer pool.Close()

	connCfg := pool.Config().ConnConfig
	location := fmt.Sprintf("postgres://%s:%d/%s", connCfg.Host, connCfg.Port, connCfg.Database)
	e.opts.Logger.Info("creating PostgreSQL schema",
		slog.String("location", location),
		slog.Int("words", len(plan.Words)))

	if err := writePostgres(ctx, pool, plan, e.opts.Force); err != nil {
		return nil, err
	}

	return &Result{
		Mode:        ModePostgres,
		Location:    location,
		Words:       len(plan.Words),
		Definitions: len(plan.Definitions),
		Links:       len(plan.Links),
		Duration:    time.Since(start),
	}, nil
}

func writePostgres(ctx context.Context, pool *pgxpool.Pool, plan *Plan, force bool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return dbError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing int
	err = tx.QueryRow(ctx, `SELECT count(*) FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name::text = ANY($1)`, postgresTables).Scan(&existing)
	if err != nil {
		return dbError("failed to inspect schema", err)
	}
	if existing > 0 {
		if !force {
			return wnerrors.New(wnerrors.ErrCodeOutputExists, "dictionary tables already exist", nil).
				WithSuggestion("Use --force to drop and recreate them")
		}
		for _, table := range postgresTables {
			if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+pgx.Identifier{table}.Sanitize()); err != nil {
				return dbError(fmt.Sprintf("failed to drop %s", table), err)
			}
		}
	}

	for _, stmt := range postgresSchema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return dbError("failed to create schema", err)
		}
	}

	defs := plan.Definitions
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"definition"}, []string{"id", "data", "part_of_speech"},
		pgx.CopyFromSlice(len(defs), func(i int) ([]any, error) {
			return []any{defs[i].ID, defs[i].Data, defs[i].PartOfSpeech}, nil
		})); err != nil {
		return dbError("failed to copy definitions", err)
	}

	words := plan.Words
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"word"}, []string{"id", "data"},
		pgx.CopyFromSlice(len(words), func(i int) ([]any, error) {
			return []any{words[i].ID, words[i].Data}, nil
		})); err != nil {
		return dbError("failed to copy words", err)
	}

	links := plan.Links
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"word_definition"}, []string{"id", "definition_id", "word_id"},
		pgx.CopyFromSlice(len(links), func(i int) ([]any, error) {
			return []any{links[i].ID, links[i].DefinitionID, links[i].WordID}, nil
		})); err != nil {
		return dbError("failed to copy word_definition", err)
	}

	// Identity sequences do not advance on explicit ids
	counts := map[string]int{
		"definition":      len(defs),
		"word":            len(words),
		"word_definition": len(links),
	}
	for table, n := range counts {
		if n == 0 {
			continue
		}
		if _, err := tx.Exec(ctx, "SELECT setval(pg_get_serial_sequence($1, 'id'), $2)", table, n); err != nil {
			return dbError(fmt.Sprintf("failed to advance %s sequence", table), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return dbError("failed to commit transaction", err)
	}
	return nil
}
