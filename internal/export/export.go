// Package export writes a LexicalIndex to SQLite, a SQL script, JSON or
// PostgreSQL.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
	"github.com/Aman-CERP/wnexport/internal/wordnet"
)

// Mode selects an output sink.
type Mode string

const (
	ModeDatabase Mode = "database"
	ModeSQL      Mode = "sql"
	ModeJSON     Mode = "json"
	ModePostgres Mode = "postgres"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeDatabase, ModeSQL, ModeJSON, ModePostgres}

// ParseMode parses a mode name. Empty selects ModeDatabase.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeDatabase, nil
	}
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", wnerrors.New(wnerrors.ErrCodeModeUnsupported,
		fmt.Sprintf("unsupported output mode %q", s), nil).
		WithSuggestion("Use one of: database, sql, json, postgres")
}

// FileName returns the output file written by file-based modes.
func (m Mode) FileName() string {
	switch m {
	case ModeDatabase:
		return "dictionary.sqlite3"
	case ModeSQL:
		return "dictionary_dump.sql"
	case ModeJSON:
		return "dictionary.json"
	default:
		return ""
	}
}

// SuccessMessage is printed after a successful export.
func (m Mode) SuccessMessage() string {
	switch m {
	case ModeSQL:
		return "SQL created successfully!"
	case ModeJSON:
		return "JSON created successfully!"
	case ModePostgres:
		return "PostgreSQL schema created successfully!"
	default:
		return "Database created successfully!"
	}
}

// ProgressMessage is shown while the sink is written.
func (m Mode) ProgressMessage() string {
	switch m {
	case ModeSQL:
		return "Creating SQL dump..."
	case ModeJSON:
		return "Creating JSON..."
	case ModePostgres:
		return "Creating PostgreSQL schema..."
	default:
		return "Creating database..."
	}
}

// Result describes a finished export.
type Result struct {
	Mode        Mode
	Location    string
	Words       int
	Definitions int
	Links       int
	Duration    time.Duration
}

// Exporter writes a LexicalIndex to one sink.
type Exporter interface {
	Export(ctx context.Context, idx *wordnet.LexicalIndex) (*Result, error)
}

// Options configures the exporters.
type Options struct {
	// OutputDir receives dictionary.* files.
	OutputDir string

	// Force replaces existing output files or tables.
	Force bool

	// PostgresDSN is required for ModePostgres.
	PostgresDSN string

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	return o
}

// New returns the exporter for mode.
func New(mode Mode, opts Options) (Exporter, error) {
	switch mode {
	case ModeDatabase:
		return NewSQLiteExporter(opts), nil
	case ModeSQL:
		return NewSQLDumpExporter(opts), nil
	case ModeJSON:
		return NewJSONExporter(opts), nil
	case ModePostgres:
		if opts.PostgresDSN == "" {
			return nil, wnerrors.ConfigError("postgres mode requires a DSN", nil).
				WithSuggestion("Pass --dsn or set WNEXPORT_POSTGRES_DSN")
		}
		return NewPostgresExporter(opts), nil
	default:
		return nil, wnerrors.New(wnerrors.ErrCodeModeUnsupported,
			fmt.Sprintf("unsupported output mode %q", mode), nil)
	}
}
