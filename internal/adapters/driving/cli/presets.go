package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

var presetsJSON bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the analysis modes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		presets := domain.AllPresets()

		out := cmd.OutOrStdout()
		if presetsJSON {
			return writeJSON(out, presets)
		}

		for i, p := range presets {
			fmt.Fprintf(out, "%d. %-13s %s\n", i+1, p.Mode, p.Label)
			if p.Question != "" {
				fmt.Fprintf(out, "   %s\n", p.Question)
			} else {
				fmt.Fprintln(out, "   (your own question, via --question)")
			}
		}
		return nil
	},
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsJSON, "json", false, "output presets as JSON")
	rootCmd.AddCommand(presetsCmd)
}
