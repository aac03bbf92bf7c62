package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Pick a résumé, choose an analysis mode or type your own question, and read
the answer with the passages it was grounded on.

Controls:
  tab      - Next field
  ctrl+r   - Run the analysis
  p        - Toggle retrieved passages
  Esc      - Back / Cancel
  ctrl+c   - Quit`,
	Args:        cobra.MaximumNArgs(1),
	RunE:        runTUI,
	Annotations: map[string]string{checkServicesAnnotation: "true"},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	svc, err := analyzer(cmd, true)
	if err != nil {
		return err
	}
	ports := tui.NewPorts(svc, nil)
	if s, err := settings(); err == nil {
		ports.Settings = s
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	if len(args) == 1 {
		app.WithFile(args[0])
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
