package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wnexport/internal/output"
	"github.com/Aman-CERP/wnexport/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var jsonOutput, shortOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the wnexport version, build details and the SQLite and PostgreSQL driver versions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			switch {
			case shortOutput:
				_, err := fmt.Fprintln(w, version.Short())
				return err
			case jsonOutput:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(version.GetInfo())
			}

			info := version.GetInfo()
			if _, err := fmt.Fprintln(w, version.String()); err != nil {
				return err
			}
			fields := []output.Field{{Label: "platform", Value: info.Platform}}
			for _, d := range info.Drivers {
				fields = append(fields, output.Field{Label: d.Module, Value: d.Version})
			}
			output.New(w).Summary(fields)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")
	cmd.Flags().BoolVar(&shortOutput, "short", false, "Output only the version number")
	cmd.MarkFlagsMutuallyExclusive("json", "short")

	return cmd
}
