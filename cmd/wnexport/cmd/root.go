// Package cmd provides the CLI commands for wnexport.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
	"github.com/Aman-CERP/wnexport/internal/profiling"
	"github.com/Aman-CERP/wnexport/pkg/version"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	debug   bool
	profile profiling.Options
	session *profiling.Session
}

// NewRootCmd creates the root command for the wnexport CLI. Running it
// without a subcommand performs the export.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}
	opts := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "wnexport",
		Short: "Export WordNet index/data files to SQLite, SQL, JSON or PostgreSQL",
		Long: `wnexport reads a Princeton WordNet dict directory, pairs every index.X
with its data.X file, filters the words, resolves each definition through its
byte offset and writes the resulting dictionary.

Modes:
  database   SQLite file dictionary.sqlite3 (default)
  sql        SQL script dictionary_dump.sql
  json       JSON document dictionary.json
  postgres   tables in the database named by --dsn`,
		Example: `  # SQLite database in the current directory
  wnexport -d /usr/share/wordnet

  # Four and five letter words only, as JSON
  wnexport -d ./dict -c 4,5 -W -J -o ./out

  # Load into PostgreSQL
  wnexport -d ./dict --mode postgres --dsn postgres://localhost/wordnet`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), cmd, opts, g.debug)
		},
	}

	cmd.SetVersionTemplate("wnexport version {{.Version}}\n")

	opts.register(cmd)

	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Debug logging, also written to stderr")
	cmd.PersistentFlags().StringVar(&g.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&g.profile.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&g.profile.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = g.startProfiling
	cmd.PersistentPostRunE = g.stopProfiling

	cmd.AddCommand(newPairsCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (g *globalOptions) startProfiling(_ *cobra.Command, _ []string) error {
	if !g.profile.Enabled() {
		return nil
	}
	s, err := profiling.Start(g.profile)
	if err != nil {
		return wnerrors.IOError("failed to start profiling", err)
	}
	g.session = s
	return nil
}

func (g *globalOptions) stopProfiling(_ *cobra.Command, _ []string) error {
	err := g.session.Stop()
	g.session = nil
	if err != nil {
		return wnerrors.New(wnerrors.ErrCodeWriteFailed, "failed to write profile", err)
	}
	return nil
}

// Execute runs the root command, printing any error to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
	}
	return err
}

// printError writes err in the CLI error format. Errors raised by cobra
// itself (bad flags, missing arguments) are reported as invalid input.
func printError(w io.Writer, err error) {
	if errors.Is(err, context.Canceled) {
		_, _ = fmt.Fprintln(w, "Cancelled.")
		return
	}
	if _, ok := wnerrors.As(err); !ok {
		err = wnerrors.ValidationError(err.Error(), err).
			WithSuggestion("Run 'wnexport --help' for usage")
	}
	_, _ = fmt.Fprint(w, wnerrors.FormatForCLI(err))
}
