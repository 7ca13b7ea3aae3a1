package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for fatawa.

The TUI signs you in when needed, then lets you search, browse, read and
publish fatawa with keyboard navigation. Signing in or out from another
terminal is picked up while it runs.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Search / Select
  Esc      - Back
  ctrl+c   - Quit`,
	Annotations: map[string]string{annotationWatchSession: "true"},
	RunE:        runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// buildTUIPorts collects the services the TUI needs.
func buildTUIPorts() *tui.Ports {
	return tui.NewPorts(sessionGuard, documentService, authService)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(buildTUIPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
