package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/timvw/replink/internal/repl"
)

var flagFilter string

// Listing colors follow the terminal-dark palette used across the charm
// ecosystem tools this sits next to.
var (
	styleTarget  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5c9cf5")).Width(24)
	styleID      = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).Width(6)
	styleCommand = lipgloss.NewStyle().Foreground(lipgloss.Color("#eeeeee")).Width(16)
	styleRepl    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab283"))
	styleNoRepl  = lipgloss.NewStyle().Foreground(lipgloss.Color("#484848"))
	styleMarker  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7fd88f")).Bold(true)
)

var panesCmd = &cobra.Command{
	Use:   "panes",
	Short: "List panes and the REPL detected in each",
	Long: `List all panes with their targets, commands, and the REPL flavor replink
detects in each. The pane marked with an arrow is the one send would
deliver to from here.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getMultiplexer()
		if err != nil {
			return err
		}

		panes, err := m.ListPanes(cmd.Context(), flagFilter)
		if err != nil {
			return fmt.Errorf("list panes: %w", err)
		}

		// Best effort: outside a pane (e.g. a detached client) there is no
		// adjacent pane to mark.
		target, _ := m.AdjacentPane(cmd.Context())

		for _, p := range panes {
			marker := " "
			if p.ID == target {
				marker = styleMarker.Render("→")
			}
			flavor := repl.DetectCommand(p.Command)
			sniffed := styleNoRepl.Render("-")
			if flavor != repl.Unknown {
				sniffed = styleRepl.Render(string(flavor))
			}
			fmt.Printf("%s %s%s%s%s\n",
				marker,
				styleTarget.Render(p.Target),
				styleID.Render(p.ID),
				styleCommand.Render(p.Command),
				sniffed)
		}
		return nil
	},
}

func init() {
	panesCmd.Flags().StringVar(&flagFilter, "filter", "", "regex pattern to filter by session name")
	rootCmd.AddCommand(panesCmd)
}
