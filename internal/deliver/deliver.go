// Package deliver drives a multiplexer pane through the replink sending
// protocol: cancel whatever input the REPL is holding, move the payload in
// fixed-size paste-buffer chunks or typed command lines, and pace
// prompt-sensitive steps with fixed delays. There is no prompt readback;
// the delays are the only synchronization. Planning is pure and separately
// testable; execution is the only effectful part.
package deliver

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/timvw/replink/internal/model"
	"github.com/timvw/replink/internal/mux"
	"github.com/timvw/replink/internal/otel"
)

const (
	// ChunkSize is the paste-buffer chunk limit, in bytes.
	ChunkSize = 1000
	// DefaultPromptWaitMS is the pause after prompt-sensitive steps.
	DefaultPromptWaitMS = 150

	cancelKey = "C-u"
	enterKey  = "Enter"
)

// Target identifies where a delivery goes and how it may paste.
type Target struct {
	// Pane is the multiplexer pane identifier.
	Pane string
	// BracketedPaste wraps the payload in bracketed-paste markers.
	BracketedPaste bool
}

// Deliverer executes planned steps against a pane.
type Deliverer struct {
	// Mux is the transport.
	Mux mux.Multiplexer
	// Sleep paces the protocol. Swapped out in tests.
	Sleep func(time.Duration)
	// PromptWaitMS overrides DefaultPromptWaitMS when positive.
	PromptWaitMS int
	// Metrics records protocol counters. Optional.
	Metrics *otel.Metrics
}

// New returns a Deliverer bound to a multiplexer.
func New(m mux.Multiplexer) *Deliverer {
	return &Deliverer{Mux: m, Sleep: time.Sleep}
}

// Deliver sends pieces to the target. An empty payload is a successful
// no-op with no multiplexer calls. Anything else starts with a cancel of
// pending input. A failing multiplexer command aborts the remaining steps;
// keystrokes already sent stay sent, so callers must treat failure as
// partially applied.
func (d *Deliverer) Deliver(ctx context.Context, target Target, pieces []model.Piece) error {
	if !hasPayload(pieces) {
		return nil
	}
	steps := Plan(pieces, target.BracketedPaste)

	if err := d.Mux.SendKeys(ctx, target.Pane, cancelKey, false); err != nil {
		return fmt.Errorf("cancel pending input: %w", err)
	}
	for _, step := range steps {
		if err := d.execute(ctx, target.Pane, step); err != nil {
			return err
		}
		d.Metrics.RecordStep(ctx, step.Kind.String())
	}
	return nil
}

func hasPayload(pieces []model.Piece) bool {
	for _, p := range pieces {
		if p.Kind == model.PieceText && p.Text != "" {
			return true
		}
	}
	return false
}

// Plan expands pieces into the executable step sequence. A single text
// piece is the common case: one paste envelope when bracketed paste is on,
// the line-mode sub-protocol otherwise. A multi-piece sequence comes from a
// paste-command envelope: one-line text pieces type as commands, anything
// larger pastes raw, and the final command waits for the prompt to settle.
func Plan(pieces []model.Piece, bracketed bool) []model.SendingStep {
	if len(pieces) == 1 && pieces[0].Kind == model.PieceText {
		if bracketed {
			return []model.SendingStep{
				model.BracketedPasteStep(pieces[0].Text),
				model.KeypressStep(enterKey),
			}
		}
		return LineSteps(pieces[0].Text)
	}

	var steps []model.SendingStep
	lastCommand := -1
	for _, p := range pieces {
		switch p.Kind {
		case model.PieceDelay:
			steps = append(steps, model.DelayStep(p.DelayMS))
		case model.PieceText:
			if line, ok := commandLine(p.Text); ok {
				steps = append(steps, model.CommandStep(line, false))
				lastCommand = len(steps) - 1
			} else if p.Text != "" {
				steps = append(steps, model.TextStep(p.Text))
			}
		}
	}
	if lastCommand >= 0 {
		steps[lastCommand].WaitForPrompt = true
	}
	return steps
}

// commandLine reports whether text is exactly one newline-terminated line,
// the shape REPL control commands ("%cpaste -q\n", "--\n") take.
func commandLine(text string) (string, bool) {
	if !strings.HasSuffix(text, "\n") {
		return "", false
	}
	line := strings.TrimSuffix(text, "\n")
	if strings.Contains(line, "\n") {
		return "", false
	}
	return line, true
}

func (d *Deliverer) execute(ctx context.Context, pane string, step model.SendingStep) error {
	if err := d.perform(ctx, pane, step); err != nil {
		return err
	}
	if step.WaitForPrompt {
		d.sleep(d.promptWait())
	}
	return nil
}

func (d *Deliverer) perform(ctx context.Context, pane string, step model.SendingStep) error {
	switch step.Kind {
	case model.StepCommand:
		if step.Content != "" {
			if err := d.Mux.SendKeys(ctx, pane, step.Content, true); err != nil {
				return fmt.Errorf("send command: %w", err)
			}
		}
		if err := d.Mux.SendKeys(ctx, pane, enterKey, false); err != nil {
			return fmt.Errorf("send enter: %w", err)
		}
		return nil
	case model.StepText:
		return d.pasteChunks(ctx, pane, step.Content, false)
	case model.StepBracketedPaste:
		return d.pasteChunks(ctx, pane, step.Content, true)
	case model.StepKeypress:
		if err := d.Mux.SendKeys(ctx, pane, step.Content, false); err != nil {
			return fmt.Errorf("send %s: %w", step.Content, err)
		}
		return nil
	case model.StepDelay:
		d.sleep(time.Duration(step.DelayMS) * time.Millisecond)
		return nil
	}
	return fmt.Errorf("unhandled step kind %v", step.Kind)
}

// pasteChunks moves content into the pane through the paste buffer, one
// chunk at a time. Every chunk gets a fresh buffer name; -d on the paste
// clears it again.
func (d *Deliverer) pasteChunks(ctx context.Context, pane, content string, bracketed bool) error {
	for _, chunk := range chunkString(content, ChunkSize) {
		name := "replink-" + uuid.NewString()
		if err := d.Mux.LoadBuffer(ctx, name, chunk); err != nil {
			return fmt.Errorf("load paste buffer: %w", err)
		}
		if err := d.Mux.PasteBuffer(ctx, pane, name, bracketed); err != nil {
			return fmt.Errorf("paste buffer: %w", err)
		}
		d.Metrics.RecordChunk(ctx, len(chunk))
	}
	return nil
}

// chunkString splits s into chunks of at most size bytes, never splitting
// a UTF-8 sequence.
func chunkString(s string, size int) []string {
	if s == "" {
		return nil
	}
	var chunks []string
	for len(s) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = size
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	return append(chunks, s)
}

func (d *Deliverer) sleep(dur time.Duration) {
	if d.Sleep != nil {
		d.Sleep(dur)
		return
	}
	time.Sleep(dur)
}

func (d *Deliverer) promptWait() time.Duration {
	if d.PromptWaitMS > 0 {
		return time.Duration(d.PromptWaitMS) * time.Millisecond
	}
	return DefaultPromptWaitMS * time.Millisecond
}
