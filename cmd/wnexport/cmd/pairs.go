package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
	"github.com/Aman-CERP/wnexport/internal/logging"
	"github.com/Aman-CERP/wnexport/internal/output"
	"github.com/Aman-CERP/wnexport/internal/scanner"
)

// pairJSON is one discovered pair in `pairs --json` output.
type pairJSON struct {
	PartOfSpeech string `json:"part_of_speech"`
	Index        string `json:"index"`
	Data         string `json:"data"`
}

type pairsJSON struct {
	Directory string     `json:"directory"`
	Pairs     []pairJSON `json:"pairs"`
	Unpaired  []string   `json:"unpaired,omitempty"`
	Skipped   []string   `json:"skipped,omitempty"`
}

func newPairsCmd() *cobra.Command {
	var (
		directory  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "List the index/data pairs found in a WordNet directory",
		Long: `List every index.X file that has a matching data.X file, in the order they
are exported. Files without a partner and ignored files (index.sense) are
reported separately.`,
		Example: `  wnexport pairs -d /usr/share/wordnet
  wnexport pairs -d ./dict --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPairs(cmd, directory, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", "", "WordNet dict directory (required)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("directory")

	return cmd
}

func runPairs(cmd *cobra.Command, directory string, jsonOutput bool) error {
	abs, err := filepath.Abs(directory)
	if err != nil {
		return err
	}

	logger := slog.Default()
	if jsonOutput {
		logger = logging.Discard()
	}
	result, err := scanner.New(logger).Scan(cmd.Context(), &scanner.ScanOptions{RootDir: abs})
	if err != nil {
		if jsonOutput {
			writeJSONError(cmd, err)
		}
		return err
	}

	if jsonOutput {
		doc := pairsJSON{Directory: abs, Unpaired: result.Unpaired, Skipped: result.Skipped}
		for _, p := range result.Pairs {
			doc.Pairs = append(doc.Pairs, pairJSON{
				PartOfSpeech: p.PartOfSpeech,
				Index:        filepath.Base(p.IndexPath),
				Data:         filepath.Base(p.DataPath),
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	out := output.New(cmd.OutOrStdout())
	out.Statusf("📂", "%s", abs)
	fields := make([]output.Field, 0, len(result.Pairs))
	for _, p := range result.Pairs {
		fields = append(fields, output.Field{
			Label: p.PartOfSpeech,
			Value: fmt.Sprintf("%s + %s", filepath.Base(p.IndexPath), filepath.Base(p.DataPath)),
		})
	}
	out.Summary(fields)

	for _, name := range result.Unpaired {
		out.Warningf("%s has no partner file", name)
	}
	for _, name := range result.Skipped {
		out.Statusf("", "skipped %s", name)
	}
	return nil
}

// writeJSONError prints err as a JSON document on stdout so scripts reading
// --json output see the failure too.
func writeJSONError(cmd *cobra.Command, err error) {
	data, jerr := wnerrors.FormatJSON(err)
	if jerr != nil {
		return
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
}
