package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/timvw/replink/internal/core"
	"github.com/timvw/replink/internal/deliver"
	"github.com/timvw/replink/internal/language"
	"github.com/timvw/replink/internal/mux"
	telem "github.com/timvw/replink/internal/otel"
	"github.com/timvw/replink/internal/repl"
)

var (
	flagRepl         string
	flagLang         string
	flagNoBracketed  bool
	flagCpaste       bool
	flagNoCpaste     bool
	flagIPythonPause int
	flagDryRun       bool
)

var sendCmd = &cobra.Command{
	Use:   "send [text]",
	Short: "Send code to the REPL in the adjacent pane",
	Long: `Send text to the REPL in the pane right of the current one.

The text comes from the argument, or from stdin when the argument is "-"
or absent. --repl names the REPL family in the target pane and decides
the escaping and paste framing:

  python    block normalization; bracketed paste on 3.13+
  ipython   %cpaste framing for multi-line input
  ptpython  block normalization; bracketed paste

The target pane is never created or focused, only written to.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&flagRepl, "repl", "",
		"REPL family in the target pane: python, ipython, ptpython (required)")
	sendCmd.Flags().StringVar(&flagLang, "lang", "python",
		"language of the text being sent")
	sendCmd.Flags().BoolVar(&flagNoBracketed, "no-bracketed-paste", false,
		"never frame the paste in bracketed-paste markers")
	sendCmd.Flags().BoolVar(&flagCpaste, "cpaste", false,
		"force %cpaste framing (ipython only)")
	sendCmd.Flags().BoolVar(&flagNoCpaste, "no-cpaste", false,
		"disable %cpaste framing for ipython")
	sendCmd.Flags().IntVar(&flagIPythonPause, "ipython-pause", 0,
		"milliseconds to wait after %cpaste before pasting (default 100)")
	sendCmd.Flags().BoolVar(&flagDryRun, "dry-run", false,
		"print the planned pieces instead of sending")
	sendCmd.MarkFlagsMutuallyExclusive("cpaste", "no-cpaste")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	if flagRepl == "" {
		return fmt.Errorf("--repl is required: python, ipython, or ptpython")
	}
	flavor, ok := repl.ParseFlavor(flagRepl)
	if !ok {
		return fmt.Errorf("unknown --repl %q (supported: python, ipython, ptpython)", flagRepl)
	}

	text, err := readInput(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	telem.Version = Version
	tel, err := telem.Init(ctx, telem.Config{Endpoint: cfg.OTELEndpoint, Headers: cfg.OTELHeaders})
	if err != nil {
		warnf("otel init failed: %v", err)
	}
	if tel != nil {
		defer tel.Shutdown(ctx)
	}
	var metrics *telem.Metrics
	if tel != nil {
		metrics = tel.Metrics
	}

	escCfg := language.Config{
		UseIPython:     flavor == repl.IPython,
		UseCpaste:      flavor == repl.IPython && !flagNoCpaste,
		IPythonPauseMS: cfg.IPythonPauseMS,
	}
	if flagIPythonPause > 0 {
		escCfg.IPythonPauseMS = flagIPythonPause
	}
	if flagCpaste {
		if flavor == repl.IPython {
			escCfg.UseCpaste = true
		} else {
			warnf("--cpaste needs an ipython REPL, ignoring it for %s", flavor)
		}
	}

	lang := language.ParseLanguage(flagLang)
	languages := language.NewRegistry()
	if !languages.Known(lang) {
		warnf("no processor for language %q, sending the text unchanged", lang)
	}

	req := core.Request{
		Text:     text,
		Language: lang,
		Escape:   escCfg,
		Repl:     string(flavor),
	}

	if flagDryRun {
		res, err := core.NewSender(languages, nil, metrics).Escape(ctx, req)
		if err != nil {
			return err
		}
		for _, p := range res.Pieces {
			fmt.Println(p)
		}
		return nil
	}

	m, err := getMultiplexer()
	if err != nil {
		return err
	}
	pane, err := m.AdjacentPane(ctx)
	if err != nil {
		return fmt.Errorf("resolve target pane: %w", err)
	}

	sniffed, version := sniffPane(ctx, m, pane)
	if sniffed != repl.Unknown && sniffed != flavor {
		warnf("pane %s looks like %s, sending as %s anyway", pane, sniffed, flavor)
	}

	bracketed := repl.SupportsBracketedPaste(flavor, version)
	if flagNoBracketed {
		bracketed = false
	}
	req.Target = deliver.Target{Pane: pane, BracketedPaste: bracketed}

	d := deliver.New(m)
	d.PromptWaitMS = cfg.PromptWaitMS
	d.Metrics = metrics

	_, err = core.NewSender(languages, d, metrics).Send(ctx, req)
	return err
}

// readInput returns the text argument, or stdin when the argument is "-"
// or absent.
func readInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "reading code from stdin until EOF (Ctrl-D to finish)")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// sniffPane reads the target pane's command and content to identify its
// REPL. Failures degrade to unknown; sniffing must never block a send.
func sniffPane(ctx context.Context, m mux.Multiplexer, pane string) (repl.Flavor, repl.Version) {
	command, err := m.PaneCommand(ctx, pane)
	if err != nil {
		return repl.Unknown, repl.Version{}
	}
	content, _ := m.CapturePane(ctx, pane)
	ver, _ := repl.ExtractVersion(command)
	return repl.Detect(command, content), ver
}
