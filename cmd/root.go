package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/timvw/replink/internal/config"
	"github.com/timvw/replink/internal/mux"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	// Global flags.
	flagConfig       string
	flagOTELEndpoint string
)

var rootCmd = &cobra.Command{
	Use:   "replink",
	Short: "Send code from the current pane to the REPL next to it",
	Long: `replink takes indentation-sensitive source code and delivers it to a REPL
running in the adjacent tmux pane.

Blocks are rewritten so a line-oriented REPL accepts them: interior blank
lines go away, selections are dedented, and block terminators are inserted
where the REPL needs them. IPython targets can take the text through
%cpaste instead, byte for byte. Delivery runs over tmux paste buffers,
bracketed when the REPL understands bracketed paste.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		errColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"config file (default: .replink.yaml, then ~/.config/replink/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagOTELEndpoint, "otel-endpoint", "",
		"OTLP HTTP endpoint for traces and metrics")
}

var (
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
)

// warnf prints a non-fatal warning to stderr. Warnings never stop a send.
func warnf(format string, args ...any) {
	warnColor.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// getMultiplexer returns the detected multiplexer.
func getMultiplexer() (mux.Multiplexer, error) {
	return mux.Detect()
}

// loadConfig resolves the layered configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagOTELEndpoint != "" {
		cfg.OTELEndpoint = flagOTELEndpoint
	}
	return cfg, nil
}
