// Package ui provides terminal UI components for export progress.
package ui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Stage represents an export pipeline stage.
type Stage int

const (
	// StageScanning discovers index/data pairs.
	StageScanning Stage = iota
	// StageParsing reads index files and resolves glosses.
	StageParsing
	// StageExporting writes the selected sink.
	StageExporting
	// StageComplete indicates the export finished.
	StageComplete
)

// String returns the stage name shown in the TUI.
func (s Stage) String() string {
	switch s {
	case StageScanning:
		return "Scanning"
	case StageParsing:
		return "Parsing"
	case StageExporting:
		return "Exporting"
	case StageComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// Icon returns the bracketed tag used by the plain renderer.
func (s Stage) Icon() string {
	switch s {
	case StageScanning:
		return "SCAN"
	case StageParsing:
		return "PARSE"
	case StageExporting:
		return "EXPORT"
	case StageComplete:
		return "DONE"
	default:
		return "???"
	}
}

// ProgressEvent reports how far a stage has advanced.
type ProgressEvent struct {
	Stage   Stage
	Current int
	Total   int
	// Item is the file or sink being worked on.
	Item    string
	Message string
}

// ErrorEvent represents an error or warning during the run.
type ErrorEvent struct {
	Item   string
	Err    error
	IsWarn bool
}

// StageTimings tracks duration for each stage.
type StageTimings struct {
	Scan   time.Duration
	Parse  time.Duration
	Export time.Duration
}

// CompletionStats contains the final export summary.
type CompletionStats struct {
	Mode        string
	Location    string
	Pairs       int
	Lines       int
	Words       int
	Definitions int
	Duration    time.Duration
	Errors      int
	Warnings    int
	Stages      StageTimings
}

// Renderer displays export progress.
type Renderer interface {
	// Start begins rendering; ctx cancellation stops it.
	Start(ctx context.Context) error

	// UpdateProgress records a stage update.
	UpdateProgress(event ProgressEvent)

	// AddError records a per-file error or warning.
	AddError(event ErrorEvent)

	// Complete shows the final summary.
	Complete(stats CompletionStats)

	// Stop releases the terminal.
	Stop() error
}

// Config selects and configures a renderer.
type Config struct {
	Output     io.Writer
	ForcePlain bool
	NoColor    bool
	// SourceDir is shown in the TUI header.
	SourceDir string
	// OnInterrupt runs when the user presses ctrl+c inside the TUI, which
	// holds the terminal in raw mode and so never raises SIGINT.
	OnInterrupt func()
}

// ConfigOption adjusts a Config.
type ConfigOption func(*Config)

// WithForcePlain selects the plain renderer even on a terminal.
func WithForcePlain(force bool) ConfigOption {
	return func(c *Config) {
		c.ForcePlain = force
	}
}

// WithNoColor turns off styling.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithSourceDir sets the WordNet directory displayed in the header.
func WithSourceDir(dir string) ConfigOption {
	return func(c *Config) {
		c.SourceDir = dir
	}
}

// WithOnInterrupt sets the ctrl+c callback.
func WithOnInterrupt(fn func()) ConfigOption {
	return func(c *Config) {
		c.OnInterrupt = fn
	}
}

// NewConfig returns a Config writing to output.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{Output: output}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewRenderer returns the TUI renderer on an interactive terminal and the
// plain renderer otherwise (CI, pipes, --no-tui).
func NewRenderer(cfg Config) Renderer {
	if cfg.ForcePlain || !IsTTY(cfg.Output) || DetectCI() {
		return NewPlainRenderer(cfg)
	}

	tui, err := NewTUIRenderer(cfg)
	if err != nil {
		return NewPlainRenderer(cfg)
	}
	return tui
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor reports whether NO_COLOR is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI reports whether a known CI variable is set.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}
