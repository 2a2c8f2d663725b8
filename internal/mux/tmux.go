package mux

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/timvw/replink/internal/model"
)

// Tmux implements the Multiplexer interface for tmux.
type Tmux struct {
	// run executes a tmux subcommand. Swapped out in tests.
	run func(ctx context.Context, stdin string, args ...string) (string, error)
}

// NewTmux creates a new tmux multiplexer.
func NewTmux() *Tmux {
	return &Tmux{run: runTmux}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// CurrentPane returns the pane this process runs in. Inside tmux the
// TMUX_PANE variable already holds the stable pane ID; outside it the
// active pane answers.
func (t *Tmux) CurrentPane(ctx context.Context) (string, error) {
	if pane := os.Getenv("TMUX_PANE"); pane != "" {
		return pane, nil
	}
	out, err := t.run(ctx, "", "display-message", "-p", "#{pane_id}")
	if err != nil {
		return "", fmt.Errorf("tmux display-message: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// AdjacentPane resolves the pane to the right of the active pane using the
// {right-of} target token. Resolution is read-only: focus never moves.
func (t *Tmux) AdjacentPane(ctx context.Context) (string, error) {
	out, err := t.run(ctx, "", "display-message", "-p", "-t", "{right-of}", "#{pane_id}")
	if err != nil {
		return "", fmt.Errorf("no pane to the right: %w", err)
	}
	adjacent := strings.TrimSpace(out)
	if adjacent == "" {
		return "", fmt.Errorf("no pane to the right")
	}
	current, err := t.CurrentPane(ctx)
	if err == nil && adjacent == current {
		return "", fmt.Errorf("no pane to the right")
	}
	return adjacent, nil
}

// ListPanes returns all tmux panes, optionally filtered by session name pattern.
func (t *Tmux) ListPanes(ctx context.Context, filter string) ([]model.Pane, error) {
	format := "#{pane_id}\t#{session_name}:#{window_index}.#{pane_index}\t#{pane_current_command}\t#{pane_active}"
	out, err := t.run(ctx, "", "list-panes", "-a", "-F", format)
	if err != nil {
		return nil, fmt.Errorf("tmux list-panes: %w", err)
	}

	var re *regexp.Regexp
	if filter != "" {
		re, err = regexp.Compile(filter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", filter, err)
		}
	}

	var panes []model.Pane
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 4)
		if len(parts) != 4 {
			continue
		}

		pane, err := parseTarget(parts[1])
		if err != nil {
			continue
		}
		pane.ID = parts[0]
		pane.Command = parts[2]
		pane.Active = parts[3] == "1"

		if re != nil && !re.MatchString(pane.Session) {
			continue
		}

		panes = append(panes, pane)
	}

	return panes, nil
}

// CapturePane captures the visible content of a tmux pane.
// Uses -p (stdout) and -J (joined, unwraps lines).
func (t *Tmux) CapturePane(ctx context.Context, target string) (string, error) {
	out, err := t.run(ctx, "", "capture-pane", "-t", target, "-p", "-J")
	if err != nil {
		return "", fmt.Errorf("tmux capture-pane -t %s: %w", target, err)
	}
	return out, nil
}

// PaneCommand returns the command currently running in a pane.
func (t *Tmux) PaneCommand(ctx context.Context, target string) (string, error) {
	out, err := t.run(ctx, "", "display-message", "-p", "-t", target, "#{pane_current_command}")
	if err != nil {
		return "", fmt.Errorf("tmux display-message -t %s: %w", target, err)
	}
	return strings.TrimSpace(out), nil
}

// SendKeys sends keys to a pane. Literal mode types the string as-is; the
// -- guard keeps key-looking content (e.g. "-x") out of flag parsing.
func (t *Tmux) SendKeys(ctx context.Context, target, keys string, literal bool) error {
	args := []string{"send-keys", "-t", target}
	if literal {
		args = append(args, "-l", "--", keys)
	} else {
		args = append(args, keys)
	}
	if _, err := t.run(ctx, "", args...); err != nil {
		return fmt.Errorf("tmux send-keys -t %s: %w", target, err)
	}
	return nil
}

// LoadBuffer stores content in a named paste buffer, streamed over stdin so
// the payload never hits the argument list.
func (t *Tmux) LoadBuffer(ctx context.Context, name, content string) error {
	if _, err := t.run(ctx, content, "load-buffer", "-b", name, "-"); err != nil {
		return fmt.Errorf("tmux load-buffer -b %s: %w", name, err)
	}
	return nil
}

// PasteBuffer pastes a named buffer into a pane. -d deletes the buffer
// after pasting; -p requests bracketed-paste framing.
func (t *Tmux) PasteBuffer(ctx context.Context, target, name string, bracketed bool) error {
	args := []string{"paste-buffer"}
	if bracketed {
		args = append(args, "-p")
	}
	args = append(args, "-d", "-b", name, "-t", target)
	if _, err := t.run(ctx, "", args...); err != nil {
		return fmt.Errorf("tmux paste-buffer -t %s: %w", target, err)
	}
	return nil
}

// runTmux executes a tmux command and returns its stdout.
func runTmux(ctx context.Context, stdin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// parseTarget parses a tmux target string "session:window.pane" into a Pane.
func parseTarget(target string) (model.Pane, error) {
	colonIdx := strings.LastIndex(target, ":")
	if colonIdx < 0 {
		return model.Pane{}, fmt.Errorf("invalid target %q: missing ':'", target)
	}

	session := target[:colonIdx]
	rest := target[colonIdx+1:]

	dotIdx := strings.LastIndex(rest, ".")
	if dotIdx < 0 {
		return model.Pane{}, fmt.Errorf("invalid target %q: missing '.'", target)
	}

	window, err := strconv.Atoi(rest[:dotIdx])
	if err != nil {
		return model.Pane{}, fmt.Errorf("invalid window index in %q: %w", target, err)
	}

	pane, err := strconv.Atoi(rest[dotIdx+1:])
	if err != nil {
		return model.Pane{}, fmt.Errorf("invalid pane index in %q: %w", target, err)
	}

	return model.Pane{
		Target:  target,
		Session: session,
		Window:  window,
		Pane:    pane,
	}, nil
}
