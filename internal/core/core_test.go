package core

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/timvw/replink/internal/deliver"
	"github.com/timvw/replink/internal/language"
	"github.com/timvw/replink/internal/model"
)

type muxOp struct {
	kind    string
	keys    string
	literal bool
	content string
}

type fakeMux struct {
	ops    []muxOp
	failOn string
}

func (f *fakeMux) Name() string { return "fake" }

func (f *fakeMux) CurrentPane(context.Context) (string, error)  { return "%0", nil }
func (f *fakeMux) AdjacentPane(context.Context) (string, error) { return "%1", nil }

func (f *fakeMux) ListPanes(context.Context, string) ([]model.Pane, error) { return nil, nil }
func (f *fakeMux) CapturePane(context.Context, string) (string, error)     { return "", nil }
func (f *fakeMux) PaneCommand(context.Context, string) (string, error)     { return "", nil }

func (f *fakeMux) SendKeys(_ context.Context, _, keys string, literal bool) error {
	if f.failOn == "send-keys" {
		return fmt.Errorf("send-keys failed")
	}
	f.ops = append(f.ops, muxOp{kind: "send-keys", keys: keys, literal: literal})
	return nil
}

func (f *fakeMux) LoadBuffer(_ context.Context, _, content string) error {
	f.ops = append(f.ops, muxOp{kind: "load-buffer", content: content})
	return nil
}

func (f *fakeMux) PasteBuffer(context.Context, string, string, bool) error {
	if f.failOn == "paste-buffer" {
		return fmt.Errorf("paste-buffer failed")
	}
	f.ops = append(f.ops, muxOp{kind: "paste-buffer"})
	return nil
}

func newTestSender(f *fakeMux) *Sender {
	d := deliver.New(f)
	d.Sleep = func(time.Duration) {}
	return NewSender(language.NewRegistry(), d, nil)
}

func TestSendNormalizesAndDelivers(t *testing.T) {
	f := &fakeMux{}
	s := newTestSender(f)

	res, err := s.Send(context.Background(), Request{
		Target:   deliver.Target{Pane: "%1", BracketedPaste: true},
		Text:     "def f():\r\n    pass",
		Language: language.Python,
		Escape:   language.DefaultConfig(),
		Repl:     "python",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(res.Pieces) != 1 {
		t.Fatalf("Send() produced %d pieces, want 1", len(res.Pieces))
	}
	if res.UnknownLanguage {
		t.Error("UnknownLanguage = true for python")
	}

	var loaded string
	for _, op := range f.ops {
		if op.kind == "load-buffer" {
			loaded = op.content
		}
	}
	want := "def f():\n    pass\n\n"
	if loaded != want {
		t.Errorf("delivered payload = %q, want normalized %q", loaded, want)
	}
}

func TestSendUnknownLanguagePassesTextThrough(t *testing.T) {
	f := &fakeMux{}
	s := newTestSender(f)

	res, err := s.Send(context.Background(), Request{
		Target:   deliver.Target{Pane: "%1", BracketedPaste: true},
		Text:     "puts 'hello'\n",
		Language: language.Language("ruby"),
		Escape:   language.Config{},
		Repl:     "python",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !res.UnknownLanguage {
		t.Error("UnknownLanguage = false, want true for ruby")
	}

	var loaded string
	for _, op := range f.ops {
		if op.kind == "load-buffer" {
			loaded = op.content
		}
	}
	if loaded != "puts 'hello'\n" {
		t.Errorf("delivered payload = %q, want the text unmodified", loaded)
	}
}

func TestSendPasteCommandPipeline(t *testing.T) {
	f := &fakeMux{}
	s := newTestSender(f)

	cfg := language.Config{UseIPython: true, UseCpaste: true}
	res, err := s.Send(context.Background(), Request{
		Target:   deliver.Target{Pane: "%1"},
		Text:     "a = 1\nb = 2",
		Language: language.Python,
		Escape:   cfg,
		Repl:     "ipython",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(res.Pieces) != 4 {
		t.Fatalf("Send() produced %d pieces, want 4", len(res.Pieces))
	}

	var firstLiteral string
	for _, op := range f.ops {
		if op.kind == "send-keys" && op.literal {
			firstLiteral = op.keys
			break
		}
	}
	if firstLiteral != "%cpaste -q" {
		t.Errorf("first typed command = %q, want %q", firstLiteral, "%cpaste -q")
	}
}

func TestSendInvalidConfigTouchesNothing(t *testing.T) {
	f := &fakeMux{}
	s := newTestSender(f)

	_, err := s.Send(context.Background(), Request{
		Target:   deliver.Target{Pane: "%1"},
		Text:     "x = 1",
		Language: language.Python,
		Escape:   language.Config{IPythonPauseMS: -5},
	})
	if err == nil {
		t.Fatal("Send() error = nil, want config validation failure")
	}
	if len(f.ops) != 0 {
		t.Errorf("Send() issued %d multiplexer calls on invalid config, want 0", len(f.ops))
	}
}

func TestSendDeliveryFailure(t *testing.T) {
	f := &fakeMux{failOn: "paste-buffer"}
	s := newTestSender(f)

	_, err := s.Send(context.Background(), Request{
		Target:   deliver.Target{Pane: "%1", BracketedPaste: true},
		Text:     "x = 1\n",
		Language: language.Python,
		Escape:   language.DefaultConfig(),
	})
	if err == nil {
		t.Fatal("Send() error = nil, want delivery failure")
	}
	if !strings.Contains(err.Error(), "deliver to pane %1") {
		t.Errorf("Send() error = %v, want it to name the pane", err)
	}
}

func TestEscapeDoesNotDeliver(t *testing.T) {
	f := &fakeMux{}
	s := newTestSender(f)

	res, err := s.Escape(context.Background(), Request{
		Text:     "x = 1",
		Language: language.Python,
		Escape:   language.DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("Escape() error = %v", err)
	}
	if len(res.Pieces) != 1 || res.Pieces[0].Text != "x = 1\n" {
		t.Errorf("Escape() pieces = %v, want one normalized text piece", res.Pieces)
	}
	if len(f.ops) != 0 {
		t.Errorf("Escape() issued %d multiplexer calls, want 0", len(f.ops))
	}
}
