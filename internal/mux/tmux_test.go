package mux

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type tmuxCall struct {
	stdin string
	args  []string
}

// recordingTmux returns a Tmux whose runner records every invocation and
// replies with the given output.
func recordingTmux(out string, err error) (*Tmux, *[]tmuxCall) {
	calls := &[]tmuxCall{}
	t := &Tmux{run: func(_ context.Context, stdin string, args ...string) (string, error) {
		*calls = append(*calls, tmuxCall{stdin: stdin, args: args})
		return out, err
	}}
	return t, calls
}

func TestSendKeysLiteral(t *testing.T) {
	tm, calls := recordingTmux("", nil)
	if err := tm.SendKeys(context.Background(), "%1", `print("hi")`, true); err != nil {
		t.Fatalf("SendKeys() error = %v", err)
	}
	want := []string{"send-keys", "-t", "%1", "-l", "--", `print("hi")`}
	if got := (*calls)[0].args; !reflect.DeepEqual(got, want) {
		t.Errorf("SendKeys literal args = %v, want %v", got, want)
	}
}

func TestSendKeysNamed(t *testing.T) {
	tm, calls := recordingTmux("", nil)
	if err := tm.SendKeys(context.Background(), "%1", "Enter", false); err != nil {
		t.Fatalf("SendKeys() error = %v", err)
	}
	want := []string{"send-keys", "-t", "%1", "Enter"}
	if got := (*calls)[0].args; !reflect.DeepEqual(got, want) {
		t.Errorf("SendKeys named args = %v, want %v", got, want)
	}
}

func TestLoadBufferStreamsContentOverStdin(t *testing.T) {
	tm, calls := recordingTmux("", nil)
	if err := tm.LoadBuffer(context.Background(), "replink-1", "x = 1\n"); err != nil {
		t.Fatalf("LoadBuffer() error = %v", err)
	}
	got := (*calls)[0]
	wantArgs := []string{"load-buffer", "-b", "replink-1", "-"}
	if !reflect.DeepEqual(got.args, wantArgs) {
		t.Errorf("LoadBuffer args = %v, want %v", got.args, wantArgs)
	}
	if got.stdin != "x = 1\n" {
		t.Errorf("LoadBuffer stdin = %q, want %q", got.stdin, "x = 1\n")
	}
}

func TestPasteBuffer(t *testing.T) {
	tests := []struct {
		name      string
		bracketed bool
		want      []string
	}{
		{
			name:      "bracketed",
			bracketed: true,
			want:      []string{"paste-buffer", "-p", "-d", "-b", "replink-1", "-t", "%1"},
		},
		{
			name:      "raw",
			bracketed: false,
			want:      []string{"paste-buffer", "-d", "-b", "replink-1", "-t", "%1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, calls := recordingTmux("", nil)
			if err := tm.PasteBuffer(context.Background(), "%1", "replink-1", tt.bracketed); err != nil {
				t.Fatalf("PasteBuffer() error = %v", err)
			}
			if got := (*calls)[0].args; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PasteBuffer args = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurrentPanePrefersEnv(t *testing.T) {
	t.Setenv("TMUX_PANE", "%3")
	tm, calls := recordingTmux("%9\n", nil)
	got, err := tm.CurrentPane(context.Background())
	if err != nil {
		t.Fatalf("CurrentPane() error = %v", err)
	}
	if got != "%3" {
		t.Errorf("CurrentPane() = %q, want %q", got, "%3")
	}
	if len(*calls) != 0 {
		t.Errorf("CurrentPane() ran %d tmux commands, want 0", len(*calls))
	}
}

func TestAdjacentPane(t *testing.T) {
	t.Setenv("TMUX_PANE", "%1")
	tm, calls := recordingTmux("%5\n", nil)
	got, err := tm.AdjacentPane(context.Background())
	if err != nil {
		t.Fatalf("AdjacentPane() error = %v", err)
	}
	if got != "%5" {
		t.Errorf("AdjacentPane() = %q, want %q", got, "%5")
	}
	want := []string{"display-message", "-p", "-t", "{right-of}", "#{pane_id}"}
	if args := (*calls)[0].args; !reflect.DeepEqual(args, want) {
		t.Errorf("AdjacentPane args = %v, want %v", args, want)
	}
}

func TestAdjacentPaneSameAsCurrent(t *testing.T) {
	t.Setenv("TMUX_PANE", "%5")
	tm, _ := recordingTmux("%5\n", nil)
	if _, err := tm.AdjacentPane(context.Background()); err == nil {
		t.Fatal("AdjacentPane() error = nil, want no-pane error")
	}
}

func TestAdjacentPaneResolutionFailure(t *testing.T) {
	tm, _ := recordingTmux("", errors.New("can't find pane: {right-of}"))
	_, err := tm.AdjacentPane(context.Background())
	if err == nil {
		t.Fatal("AdjacentPane() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "no pane to the right") {
		t.Errorf("AdjacentPane() error = %v, want it to mention the missing pane", err)
	}
}

func TestCapturePaneArgs(t *testing.T) {
	tm, calls := recordingTmux(">>> \n", nil)
	out, err := tm.CapturePane(context.Background(), "%2")
	if err != nil {
		t.Fatalf("CapturePane() error = %v", err)
	}
	if out != ">>> \n" {
		t.Errorf("CapturePane() = %q, want %q", out, ">>> \n")
	}
	want := []string{"capture-pane", "-t", "%2", "-p", "-J"}
	if got := (*calls)[0].args; !reflect.DeepEqual(got, want) {
		t.Errorf("CapturePane args = %v, want %v", got, want)
	}
}

func TestPaneCommandTrims(t *testing.T) {
	tm, _ := recordingTmux("python3.12\n", nil)
	got, err := tm.PaneCommand(context.Background(), "%2")
	if err != nil {
		t.Fatalf("PaneCommand() error = %v", err)
	}
	if got != "python3.12" {
		t.Errorf("PaneCommand() = %q, want %q", got, "python3.12")
	}
}

func TestListPanes(t *testing.T) {
	out := "%0\tmain:0.0\tzsh\t0\n" +
		"%1\tmain:0.1\tpython3.12\t1\n" +
		"garbage-line\n" +
		"%2\tscratch:1.0\tipython\t0\n"
	tm, _ := recordingTmux(out, nil)

	panes, err := tm.ListPanes(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPanes() error = %v", err)
	}
	if len(panes) != 3 {
		t.Fatalf("ListPanes() returned %d panes, want 3", len(panes))
	}

	first := panes[0]
	if first.ID != "%0" || first.Session != "main" || first.Window != 0 || first.Pane != 0 || first.Command != "zsh" {
		t.Errorf("panes[0] = %+v, want %%0 main:0.0 zsh", first)
	}
	if !panes[1].Active {
		t.Error("panes[1].Active = false, want true")
	}
	if panes[2].Session != "scratch" {
		t.Errorf("panes[2].Session = %q, want %q", panes[2].Session, "scratch")
	}
}

func TestListPanesFilter(t *testing.T) {
	out := "%0\tmain:0.0\tzsh\t0\n%1\tscratch:0.0\tpython3\t1\n"
	tm, _ := recordingTmux(out, nil)

	panes, err := tm.ListPanes(context.Background(), "^scr")
	if err != nil {
		t.Fatalf("ListPanes() error = %v", err)
	}
	if len(panes) != 1 || panes[0].Session != "scratch" {
		t.Errorf("ListPanes(^scr) = %+v, want only the scratch pane", panes)
	}
}

func TestListPanesBadFilter(t *testing.T) {
	tm, _ := recordingTmux("", nil)
	if _, err := tm.ListPanes(context.Background(), "("); err == nil {
		t.Fatal("ListPanes(() error = nil, want invalid pattern error")
	}
}
