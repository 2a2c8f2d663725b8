// Package mux provides an abstraction over terminal multiplexers.
//
// This package is pure transport: it resolves panes, reads their content,
// and injects keystrokes and paste buffers. What to send and when is decided
// by the delivery layer.
package mux

import (
	"context"

	"github.com/timvw/replink/internal/model"
)

// Multiplexer abstracts the terminal multiplexer operations replink needs.
// tmux is the only implementation.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g., "tmux").
	Name() string

	// CurrentPane returns the stable identifier of the pane this process
	// runs in.
	CurrentPane(ctx context.Context) (string, error)

	// AdjacentPane returns the stable identifier of the pane to the right
	// of the active pane. It fails when no such pane exists.
	AdjacentPane(ctx context.Context) (string, error)

	// ListPanes returns all panes, optionally filtered by a session name
	// regex pattern. An empty filter returns all panes.
	ListPanes(ctx context.Context, filter string) ([]model.Pane, error)

	// CapturePane captures the visible content of a pane.
	CapturePane(ctx context.Context, target string) (string, error)

	// PaneCommand returns the command currently running in a pane
	// (e.g., "python3.12", "ipython", "bash").
	PaneCommand(ctx context.Context, target string) (string, error)

	// SendKeys sends keys to a pane. With literal set the keys are typed
	// as-is; otherwise they are interpreted as a key name ("Enter", "C-u").
	SendKeys(ctx context.Context, target, keys string, literal bool) error

	// LoadBuffer stores content in a named paste buffer.
	LoadBuffer(ctx context.Context, name, content string) error

	// PasteBuffer pastes a named buffer into a pane and deletes the buffer.
	// With bracketed set the content is wrapped in bracketed-paste markers.
	PasteBuffer(ctx context.Context, target, name string, bracketed bool) error
}
