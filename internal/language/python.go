package language

import (
	"regexp"
	"strings"

	"github.com/timvw/replink/internal/model"
)

// The IPython paste-command pair. -q keeps cpaste from echoing the block.
const (
	cpasteOpen  = "%cpaste -q\n"
	cpasteClose = "--\n"
)

// continuationKeywords open clauses that extend the block above them. A
// blank line must not separate them from that block.
var continuationKeywords = []string{"elif", "else", "except", "finally"}

// inlineCompoundRe matches a one-line compound statement with an inline
// body, e.g. `def f(): return 1`. A REPL needs a blank line to close it.
var inlineCompoundRe = regexp.MustCompile(`^(def|class|if|elif|else|for|while|with|try|except|finally)\b.*:\s*\S`)

// PythonProcessor escapes Python source for line-oriented REPLs.
type PythonProcessor struct{}

// Language returns the registry identifier.
func (PythonProcessor) Language() Language { return Python }

// Escape produces the piece sequence for text. Multi-line sends to IPython
// with cpaste enabled use the %cpaste envelope and carry the input
// byte-for-byte; everything else gets block normalization and is delivered
// as a single text piece.
func (PythonProcessor) Escape(text string, cfg Config) []model.Piece {
	if cfg.UseIPython && cfg.UseCpaste && multiline(text) {
		pause := cfg.IPythonPauseMS
		if pause <= 0 {
			pause = DefaultIPythonPauseMS
		}
		return []model.Piece{
			model.TextPiece(cpasteOpen),
			model.DelayPiece(pause),
			model.TextPiece(text),
			model.TextPiece(cpasteClose),
		}
	}
	return []model.Piece{model.TextPiece(Normalize(text))}
}

func multiline(text string) bool {
	return strings.Contains(strings.TrimRight(text, "\n"), "\n")
}

// Normalize rewrites a Python snippet so a line-oriented REPL accepts it in
// one paste. Interior blank lines are removed because a REPL reads them as
// end-of-block mid-definition. The first line's indentation is stripped from
// the whole snippet so a selection taken from inside a function runs at the
// top level. When the snippet had no interior blanks to begin with, block
// boundaries are made explicit instead: one blank line after each dedent to
// the top level (unless the next line continues the block with
// elif/else/except/finally) and one extra trailing newline when the snippet
// still ends inside a block.
//
// Output always ends with exactly one newline, or two when that final
// block terminator is needed. Empty and whitespace-only input normalizes
// to the empty string.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	// Leading and trailing blank runs are noise. Only blanks between two
	// surviving lines count as removed: those are the ones that change how
	// the REPL would have read the snippet, and they suppress the
	// terminator insertion below.
	kept := make([]string, 0, len(lines))
	removedInterior := false
	blanks := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blanks++
			continue
		}
		if blanks > 0 && len(kept) > 0 {
			removedInterior = true
		}
		blanks = 0
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return ""
	}

	if prefix := leadingWhitespace(kept[0]); prefix != "" {
		for i, line := range kept {
			kept[i] = strings.TrimPrefix(line, prefix)
		}
	}

	if !removedInterior {
		kept = insertBlockTerminators(kept)
	}

	out := strings.Join(kept, "\n") + "\n"
	if !removedInterior && needsTrailingBlank(kept) {
		out += "\n"
	}
	return out
}

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func indented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// insertBlockTerminators adds one blank line after each transition from an
// indented line back to the top level.
func insertBlockTerminators(lines []string) []string {
	out := make([]string, 0, len(lines)+2)
	for i, line := range lines {
		out = append(out, line)
		if i+1 == len(lines) || !indented(line) || indented(lines[i+1]) {
			continue
		}
		if continuesBlock(lines[i+1]) {
			continue
		}
		out = append(out, "")
	}
	return out
}

// continuesBlock is a literal prefix match, not a token match, mirroring
// the editor-plugin behavior this code replaces.
func continuesBlock(line string) bool {
	for _, kw := range continuationKeywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}

func needsTrailingBlank(lines []string) bool {
	if indented(lines[len(lines)-1]) {
		return true
	}
	return len(lines) == 1 && inlineCompoundRe.MatchString(lines[0])
}
