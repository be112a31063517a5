package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wnexport/internal/config"
	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
	"github.com/Aman-CERP/wnexport/internal/export"
	"github.com/Aman-CERP/wnexport/internal/logging"
	"github.com/Aman-CERP/wnexport/internal/output"
	"github.com/Aman-CERP/wnexport/internal/scanner"
	"github.com/Aman-CERP/wnexport/internal/ui"
	"github.com/Aman-CERP/wnexport/internal/wordnet"
)

// exportFlags are the root command's export flags.
type exportFlags struct {
	directory      string
	outputDir      string
	minChars       int
	maxChars       int
	charCounts     string
	keepNumbers    bool
	wholeWordsOnly bool
	mode           string
	dumpSQL        bool
	toJSON         bool
	dsn            string
	keyMode        string
	workers        int
	force          bool
	noTUI          bool
}

func (f *exportFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.directory, "directory", "d", "", "WordNet dict directory containing index.* and data.* files (required)")
	fl.StringVarP(&f.outputDir, "output-directory", "o", "", "Directory for the output file (default: current directory)")
	fl.IntVarP(&f.minChars, "min-chars", "m", wordnet.DefaultMinChars, "Minimum word length in characters")
	fl.IntVarP(&f.maxChars, "max-chars", "M", wordnet.DefaultMaxChars, "Maximum word length in characters")
	fl.StringVarP(&f.charCounts, "char-counts", "c", "", "Comma separated word lengths to keep, e.g. 3,4,5")
	fl.BoolVarP(&f.keepNumbers, "keep-numbers", "k", false, "Keep words containing digits")
	fl.BoolVarP(&f.wholeWordsOnly, "whole-words-only", "W", false, "Drop words containing punctuation or whitespace")
	fl.StringVar(&f.mode, "mode", "", "Output mode: database, sql, json, postgres (default: database)")
	fl.BoolVarP(&f.dumpSQL, "dump-sql", "S", false, "Write a SQL script (same as --mode sql)")
	fl.BoolVarP(&f.toJSON, "to-json", "J", false, "Write a JSON document (same as --mode json)")
	fl.StringVar(&f.dsn, "dsn", "", "PostgreSQL connection string for --mode postgres")
	fl.StringVar(&f.keyMode, "key-mode", "", "Definition keys: scoped (part of speech + offset) or legacy (offset only)")
	fl.IntVar(&f.workers, "workers", 0, "Pairs parsed concurrently (default: min(CPUs, 4))")
	fl.BoolVar(&f.force, "force", false, "Overwrite an existing output file or tables")
	fl.BoolVar(&f.noTUI, "no-tui", false, "Plain text progress even on a terminal")

	_ = cmd.MarkFlagRequired("directory")
	_ = cmd.MarkFlagDirname("directory")
	_ = cmd.MarkFlagDirname("output-directory")
	cmd.MarkFlagsMutuallyExclusive("char-counts", "min-chars")
	cmd.MarkFlagsMutuallyExclusive("char-counts", "max-chars")
	cmd.MarkFlagsMutuallyExclusive("mode", "dump-sql", "to-json")
}

// apply layers the flags the user actually set over cfg.
func (f *exportFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("output-directory") {
		cfg.Output.Directory = f.outputDir
	}

	// An explicit length style on the command line replaces the other style
	// from config files.
	if changed("min-chars") || changed("max-chars") {
		cfg.Filter.CharCounts = nil
		if changed("min-chars") {
			cfg.Filter.MinChars = f.minChars
		}
		if changed("max-chars") {
			cfg.Filter.MaxChars = f.maxChars
		}
	}
	if changed("char-counts") {
		counts, err := config.ParseCharCounts(f.charCounts)
		if err != nil {
			return wnerrors.ValidationError("--char-counts: "+err.Error(), err)
		}
		cfg.Filter.CharCounts = counts
		cfg.Filter.MinChars = wordnet.DefaultMinChars
		cfg.Filter.MaxChars = wordnet.DefaultMaxChars
	}
	if changed("keep-numbers") {
		cfg.Filter.KeepNumbers = f.keepNumbers
	}
	if changed("whole-words-only") {
		cfg.Filter.WholeWordsOnly = f.wholeWordsOnly
	}

	switch {
	case f.dumpSQL:
		cfg.Output.Mode = string(export.ModeSQL)
	case f.toJSON:
		cfg.Output.Mode = string(export.ModeJSON)
	case changed("mode"):
		cfg.Output.Mode = f.mode
	}
	if changed("dsn") {
		cfg.Postgres.DSN = f.dsn
	}
	if changed("key-mode") {
		cfg.Performance.KeyMode = f.keyMode
	}
	if changed("workers") {
		cfg.Performance.Workers = f.workers
	}
	if changed("force") {
		cfg.Output.Force = f.force
	}

	return cfg.Validate()
}

// resolveDirs returns the absolute source and output directories, both
// checked to exist.
func resolveDirs(source, out string, needOutput bool) (string, string, error) {
	absSource, err := filepath.Abs(source)
	if err != nil {
		return "", "", wnerrors.New(wnerrors.ErrCodeInvalidPath, "failed to resolve source directory", err)
	}
	if err := scanner.ValidateDir(absSource); err != nil {
		return "", "", err
	}

	if out == "" {
		out, err = os.Getwd()
		if err != nil {
			return "", "", wnerrors.New(wnerrors.ErrCodeInvalidPath, "failed to get current directory", err)
		}
	}
	absOut, err := filepath.Abs(out)
	if err != nil {
		return "", "", wnerrors.New(wnerrors.ErrCodeInvalidPath, "failed to resolve output directory", err)
	}
	if needOutput {
		if err := scanner.ValidateDir(absOut); err != nil {
			return "", "", err
		}
	}
	return absSource, absOut, nil
}

// setupLogger opens the file logger described by cfg. Logging is not
// critical: on failure the run continues with a discarding logger.
func setupLogger(cfg *config.Config, debug bool) (*slog.Logger, func()) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.MaxSizeMB = cfg.Log.MaxSizeMB
	logCfg.MaxFiles = cfg.Log.MaxFiles
	if debug {
		logCfg = logging.DebugConfig()
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return logging.Discard(), func() {}
	}
	return logger, cleanup
}

func runExport(ctx context.Context, cmd *cobra.Command, flags *exportFlags, debug bool) error {
	start := time.Now()
	stdout := cmd.OutOrStdout()
	out := output.NewColor(stdout, ui.IsTTY(stdout) && !ui.DetectNoColor())

	cwd, err := os.Getwd()
	if err != nil {
		return wnerrors.New(wnerrors.ErrCodeInvalidPath, "failed to get current directory", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}

	mode, err := export.ParseMode(cfg.Output.Mode)
	if err != nil {
		return err
	}
	keyMode, err := wordnet.ParseKeyMode(cfg.Performance.KeyMode)
	if err != nil {
		return wnerrors.ConfigError(err.Error(), err)
	}

	sourceDir, outputDir, err := resolveDirs(flags.directory, cfg.Output.Directory, mode != export.ModePostgres)
	if err != nil {
		return err
	}

	logger, cleanup := setupLogger(cfg, debug)
	defer cleanup()
	logger.Info("export started",
		slog.String("source", sourceDir),
		slog.String("mode", string(mode)),
		slog.String("key_mode", string(keyMode)),
		slog.Int("workers", cfg.Performance.Workers))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	renderer := ui.NewRenderer(ui.NewConfig(stdout,
		ui.WithForcePlain(flags.noTUI),
		ui.WithSourceDir(sourceDir),
		ui.WithOnInterrupt(cancel)))
	_, plain := renderer.(*ui.PlainRenderer)
	if err := renderer.Start(ctx); err != nil {
		logger.Warn("failed to start progress renderer", slog.String("error", err.Error()))
	}
	stopped := false
	stopRenderer := func() {
		if !stopped {
			stopped = true
			_ = renderer.Stop()
		}
	}
	defer stopRenderer()

	// Scan
	var timings ui.StageTimings
	stageStart := time.Now()
	renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageScanning, Message: "Scanning " + sourceDir})

	scan, err := scanner.New(logger).Scan(ctx, &scanner.ScanOptions{RootDir: sourceDir})
	if err != nil {
		logger.Error("scan failed", slog.Any("error", wnerrors.FormatForLog(err)))
		return err
	}
	for _, pair := range scan.Pairs {
		if plain {
			out.Found(filepath.Base(pair.IndexPath))
			out.Found(filepath.Base(pair.DataPath))
		}
	}
	for _, name := range scan.Unpaired {
		renderer.AddError(ui.ErrorEvent{Item: name, Err: fmt.Errorf("no matching %s file", partnerPrefix(name)), IsWarn: true})
	}
	timings.Scan = time.Since(stageStart)

	// Parse
	stageStart = time.Now()
	agg, err := wordnet.NewAggregator(wordnet.Options{
		Policy:  cfg.Policy(),
		KeyMode: keyMode,
		Workers: cfg.Performance.Workers,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	total := len(scan.Pairs)
	renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageParsing, Total: total, Message: fmt.Sprintf("Parsing %d pairs (%s)", total, strings.Join(scan.PartsOfSpeech(), ", "))})
	err = agg.ProcessPairs(ctx, scan.Pairs, func(done int, pair wordnet.Pair) {
		renderer.UpdateProgress(ui.ProgressEvent{
			Stage:   ui.StageParsing,
			Current: done,
			Total:   total,
			Item:    filepath.Base(pair.IndexPath),
		})
	})
	if err != nil {
		logger.Error("parse failed", slog.Any("error", wnerrors.FormatForLog(err)))
		return err
	}
	idx := agg.Index()
	stats := agg.Stats()
	timings.Parse = time.Since(stageStart)
	logStats(logger, stats)

	if idx.Len() == 0 {
		return wnerrors.NoWordsError()
	}

	// Export
	stageStart = time.Now()
	renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageExporting, Message: mode.ProgressMessage()})
	exporter, err := export.New(mode, export.Options{
		OutputDir:   outputDir,
		Force:       cfg.Output.Force,
		PostgresDSN: cfg.Postgres.DSN,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	result, err := exporter.Export(ctx, idx)
	if err != nil {
		logger.Error("export failed", slog.Any("error", wnerrors.FormatForLog(err)))
		return err
	}
	timings.Export = time.Since(stageStart)

	elapsed := time.Since(start)
	renderer.Complete(ui.CompletionStats{
		Mode:        string(mode),
		Location:    result.Location,
		Pairs:       stats.Pairs,
		Lines:       stats.Lines,
		Words:       result.Words,
		Definitions: result.Definitions,
		Duration:    elapsed,
		Warnings:    len(scan.Unpaired),
		Stages:      timings,
	})
	stopRenderer()

	logger.Info("export complete",
		slog.String("location", result.Location),
		slog.Int("words", result.Words),
		slog.Int("definitions", result.Definitions),
		slog.Int("links", result.Links),
		slog.Duration("duration", elapsed))

	out.Newline()
	out.Success(mode.SuccessMessage())
	out.Summary([]output.Field{
		{Label: "Output", Value: result.Location},
		{Label: "Words", Value: result.Words},
		{Label: "Definitions", Value: result.Definitions},
		{Label: "Links", Value: result.Links},
		{Label: "Lines kept", Value: fmt.Sprintf("%d of %d", stats.KeptLines, stats.Lines)},
		{Label: "Duration", Value: elapsed.Round(time.Millisecond)},
	})
	return nil
}

func logStats(logger *slog.Logger, s wordnet.Stats) {
	logger.Info("parse complete",
		slog.Int("pairs", s.Pairs),
		slog.Int("lines", s.Lines),
		slog.Int("header_lines", s.HeaderLines),
		slog.Int("blank_lines", s.BlankLines),
		slog.Int("rejected_digits", s.RejectedDigits),
		slog.Int("rejected_punctuation", s.RejectedPunctuation),
		slog.Int("rejected_length", s.RejectedLength),
		slog.Int("kept_lines", s.KeptLines),
		slog.Int("resolved", s.Resolved),
		slog.Int("cache_hits", s.CacheHits),
		slog.Int("empty_glosses", s.EmptyGlosses))
}

// partnerPrefix names the file kind missing for an unpaired file.
func partnerPrefix(name string) string {
	if strings.HasPrefix(name, scanner.IndexPrefix) {
		return "data.*"
	}
	return "index.*"
}
