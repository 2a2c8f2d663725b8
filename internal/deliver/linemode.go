package deliver

import (
	"regexp"
	"strings"

	"github.com/timvw/replink/internal/model"
)

// lineModeState names the grouping states of the line-by-line fallback.
type lineModeState int

const (
	stateTopLevel lineModeState = iota
	stateInBlock
	stateInCollection
)

var whitespaceRunRe = regexp.MustCompile(`\s+`)

// LineSteps groups normalized source into the command sequence for REPLs
// without bracketed-paste support. Import lines are hoisted and sent first,
// each waiting for the prompt. A line opening more brackets than it closes
// starts a collection that is flattened to one command once the brackets
// balance. A line ending in a colon starts a compound block: header and
// body stream without waiting and one synthetic empty command closes the
// block once indentation returns to the header's level. Plain statements
// wait for the prompt individually.
func LineSteps(text string) []model.SendingStep {
	var imports, rest []string
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if isImport(line) {
			imports = append(imports, strings.TrimSpace(line))
			continue
		}
		rest = append(rest, line)
	}

	steps := make([]model.SendingStep, 0, len(imports)+len(rest))
	for _, imp := range imports {
		steps = append(steps, model.CommandStep(imp, true))
	}

	state := stateTopLevel
	headerIndent := 0
	depth := 0
	var collected []string

	flushCollection := func() {
		steps = append(steps, model.CommandStep(flatten(collected), true))
		collected = nil
		depth = 0
	}

	i := 0
	for i < len(rest) {
		line := rest[i]
		blank := strings.TrimSpace(line) == ""

		switch state {
		case stateTopLevel:
			delta := bracketDelta(line)
			switch {
			case blank:
			case delta > 0:
				state = stateInCollection
				depth = delta
				collected = append(collected, strings.TrimSpace(line))
			case isBlockHeader(line):
				steps = append(steps, model.CommandStep(line, false))
				state = stateInBlock
				headerIndent = indentWidth(line)
			default:
				steps = append(steps, model.CommandStep(line, true))
			}
			i++

		case stateInBlock:
			if blank || indentWidth(line) <= headerIndent {
				steps = append(steps, model.CommandStep("", true))
				state = stateTopLevel
				if blank {
					i++
				}
				// A dedent line is reprocessed at the top level.
				continue
			}
			steps = append(steps, model.CommandStep(line, false))
			i++

		case stateInCollection:
			if !blank {
				collected = append(collected, strings.TrimSpace(line))
				depth += bracketDelta(line)
				if depth <= 0 {
					flushCollection()
					state = stateTopLevel
				}
			}
			i++
		}
	}

	switch state {
	case stateInBlock:
		steps = append(steps, model.CommandStep("", true))
	case stateInCollection:
		flushCollection()
	}

	return steps
}

func isImport(line string) bool {
	stripped := strings.TrimSpace(line)
	return strings.HasPrefix(stripped, "import ") || strings.HasPrefix(stripped, "from ")
}

func isBlockHeader(line string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), ":")
}

// bracketDelta counts bracket openers minus closers on one line. The scan
// is byte-oriented and does not understand string literals.
func bracketDelta(line string) int {
	delta := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '(', '[', '{':
			delta++
		case ')', ']', '}':
			delta--
		}
	}
	return delta
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// flatten joins collected collection lines into a single command line.
func flatten(lines []string) string {
	joined := strings.Join(lines, " ")
	return strings.TrimSpace(whitespaceRunRe.ReplaceAllString(joined, " "))
}
