package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/replink/internal/repl"
)

var peekCmd = &cobra.Command{
	Use:   "peek",
	Short: "Show what is running in the adjacent pane",
	Long: `Resolve the pane to the right of the current one, report the REPL flavor
a send would assume for it, and dump its visible content.

The summary line goes to stderr; stdout carries only the pane content,
so the output stays pipeable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getMultiplexer()
		if err != nil {
			return err
		}

		pane, err := m.AdjacentPane(cmd.Context())
		if err != nil {
			return fmt.Errorf("resolve target pane: %w", err)
		}

		command, _ := m.PaneCommand(cmd.Context(), pane)
		content, err := m.CapturePane(cmd.Context(), pane)
		if err != nil {
			return fmt.Errorf("capture pane %q: %w", pane, err)
		}

		flavor := repl.Detect(command, content)
		fmt.Fprintf(os.Stderr, "pane %s  command %q  repl %s\n", pane, command, flavor)
		fmt.Fprint(os.Stdout, content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(peekCmd)
}
