package model

import "fmt"

// PieceKind discriminates the two kinds of escaped output.
type PieceKind int

const (
	// PieceText is a chunk of text destined for the target pane.
	PieceText PieceKind = iota
	// PieceDelay is a pause between sends, in milliseconds.
	PieceDelay
)

// String returns the lowercase kind name used in logs and metrics.
func (k PieceKind) String() string {
	switch k {
	case PieceText:
		return "text"
	case PieceDelay:
		return "delay"
	}
	return fmt.Sprintf("piece(%d)", int(k))
}

// Piece is one unit of escaped output. Language processors produce a flat
// sequence of pieces; the delivery layer consumes them in order. A piece is
// either text or a delay, never both. Build pieces with TextPiece and
// DelayPiece rather than struct literals.
type Piece struct {
	// Kind selects which payload field is meaningful.
	Kind PieceKind `json:"kind"`
	// Text is the payload for PieceText.
	Text string `json:"text,omitempty"`
	// DelayMS is the pause for PieceDelay, always non-negative.
	DelayMS int `json:"delay_ms,omitempty"`
}

// TextPiece returns a text piece.
func TextPiece(text string) Piece {
	return Piece{Kind: PieceText, Text: text}
}

// DelayPiece returns a delay piece. Negative durations clamp to zero.
func DelayPiece(ms int) Piece {
	if ms < 0 {
		ms = 0
	}
	return Piece{Kind: PieceDelay, DelayMS: ms}
}

// String renders a piece for dry-run output.
func (p Piece) String() string {
	switch p.Kind {
	case PieceText:
		return fmt.Sprintf("text(%q)", p.Text)
	case PieceDelay:
		return fmt.Sprintf("delay(%dms)", p.DelayMS)
	}
	return fmt.Sprintf("piece(%d)", int(p.Kind))
}

// StepKind discriminates the delivery-layer step variants.
type StepKind int

const (
	// StepCommand types its content literally and presses Enter.
	StepCommand StepKind = iota
	// StepText pastes its content without a terminating Enter.
	StepText
	// StepBracketedPaste pastes its content framed in bracketed-paste markers.
	StepBracketedPaste
	// StepKeypress sends a single named key (e.g. "Enter", "C-u").
	StepKeypress
	// StepDelay pauses for DelayMS milliseconds.
	StepDelay
)

// String returns the lowercase kind name used in logs and metrics.
func (k StepKind) String() string {
	switch k {
	case StepCommand:
		return "command"
	case StepText:
		return "text"
	case StepBracketedPaste:
		return "bracketed_paste"
	case StepKeypress:
		return "keypress"
	case StepDelay:
		return "delay"
	}
	return fmt.Sprintf("step(%d)", int(k))
}

// SendingStep is one primitive operation of the delivery protocol. Pieces
// are planned into steps before execution; the executor switches over the
// closed set of kinds. Build steps with the constructor functions.
type SendingStep struct {
	// Kind selects the operation.
	Kind StepKind `json:"kind"`
	// Content is the text or key name for Command, Text, BracketedPaste and
	// Keypress steps.
	Content string `json:"content,omitempty"`
	// DelayMS is the pause for StepDelay, always non-negative.
	DelayMS int `json:"delay_ms,omitempty"`
	// WaitForPrompt pauses after the step long enough for a REPL prompt to
	// come back. There is no prompt readback; the wait is a fixed delay.
	WaitForPrompt bool `json:"wait_for_prompt,omitempty"`
}

// CommandStep returns a step that types content and presses Enter.
func CommandStep(content string, waitForPrompt bool) SendingStep {
	return SendingStep{Kind: StepCommand, Content: content, WaitForPrompt: waitForPrompt}
}

// TextStep returns a step that pastes content with no terminating Enter.
func TextStep(content string) SendingStep {
	return SendingStep{Kind: StepText, Content: content}
}

// BracketedPasteStep returns a step that pastes content inside
// bracketed-paste framing.
func BracketedPasteStep(content string) SendingStep {
	return SendingStep{Kind: StepBracketedPaste, Content: content}
}

// KeypressStep returns a step that sends one named key.
func KeypressStep(key string) SendingStep {
	return SendingStep{Kind: StepKeypress, Content: key}
}

// DelayStep returns a step that pauses. Negative durations clamp to zero.
func DelayStep(ms int) SendingStep {
	if ms < 0 {
		ms = 0
	}
	return SendingStep{Kind: StepDelay, DelayMS: ms}
}

// String renders a step for dry-run output and test failures.
func (s SendingStep) String() string {
	switch s.Kind {
	case StepCommand:
		if s.WaitForPrompt {
			return fmt.Sprintf("command(%q, wait)", s.Content)
		}
		return fmt.Sprintf("command(%q)", s.Content)
	case StepText:
		return fmt.Sprintf("text(%q)", s.Content)
	case StepBracketedPaste:
		return fmt.Sprintf("bracketed_paste(%q)", s.Content)
	case StepKeypress:
		return fmt.Sprintf("keypress(%s)", s.Content)
	case StepDelay:
		return fmt.Sprintf("delay(%dms)", s.DelayMS)
	}
	return fmt.Sprintf("step(%d)", int(s.Kind))
}

// Pane represents a terminal multiplexer pane.
type Pane struct {
	// ID is the stable pane identifier (e.g., "%3").
	ID string `json:"id"`
	// Target is the fully qualified pane identifier (e.g., "session:0.0").
	Target string `json:"target"`
	// Session is the session name.
	Session string `json:"session"`
	// Window is the window index.
	Window int `json:"window"`
	// Pane is the pane index.
	Pane int `json:"pane"`
	// Command is the current command running in the pane (e.g., "python3", "bash").
	Command string `json:"command"`
	// Active reports whether this is the active pane of its window.
	Active bool `json:"active"`
}
