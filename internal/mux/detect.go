package mux

import (
	"fmt"
	"os"
	"os/exec"
)

// Detect returns the active terminal multiplexer. It checks the environment
// first, then falls back to probing for a running tmux server.
func Detect() (Multiplexer, error) {
	if os.Getenv("TMUX") != "" {
		return NewTmux(), nil
	}

	if tmuxPath, err := exec.LookPath("tmux"); err == nil && tmuxPath != "" {
		cmd := exec.Command("tmux", "list-sessions")
		if err := cmd.Run(); err == nil {
			return NewTmux(), nil
		}
	}

	return nil, fmt.Errorf("no terminal multiplexer detected (run inside tmux or start a tmux server)")
}
