// Package core wires language escaping and pane delivery into one send
// pipeline. The CLI resolves flags and panes; this package owns the order
// of operations and the telemetry around them.
package core

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/timvw/replink/internal/deliver"
	"github.com/timvw/replink/internal/language"
	"github.com/timvw/replink/internal/model"
	replotel "github.com/timvw/replink/internal/otel"
)

var tracer = otel.Tracer("replink")

// Sender runs the escape-then-deliver pipeline.
type Sender struct {
	Languages *language.Registry
	Deliverer *deliver.Deliverer
	Metrics   *replotel.Metrics // OTEL metric counters; nil-safe
}

// NewSender wires a Sender around a deliverer.
func NewSender(languages *language.Registry, d *deliver.Deliverer, m *replotel.Metrics) *Sender {
	return &Sender{Languages: languages, Deliverer: d, Metrics: m}
}

// Request describes one send invocation.
type Request struct {
	Target   deliver.Target
	Text     string
	Language language.Language
	Escape   language.Config
	Repl     string // REPL family name, recorded on metrics only
}

// Result reports what a send produced.
type Result struct {
	Pieces []model.Piece

	// UnknownLanguage is set when no processor claimed the language and the
	// text went through as-is.
	UnknownLanguage bool
}

// Escape runs only the language step. The dry-run path uses this to show
// the planned pieces without touching the multiplexer.
func (s *Sender) Escape(ctx context.Context, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "escape",
		trace.WithAttributes(
			attribute.String("send.language", string(req.Language)),
			attribute.Int("send.bytes", len(req.Text)),
		))
	defer span.End()

	if err := req.Escape.Validate(); err != nil {
		return nil, fmt.Errorf("escape config: %w", err)
	}

	pieces, known := s.Languages.Escape(req.Language, req.Text, req.Escape)
	for _, p := range pieces {
		s.Metrics.RecordPiece(ctx, p.Kind.String())
	}
	span.SetAttributes(
		attribute.Int("escape.pieces", len(pieces)),
		attribute.Bool("escape.known_language", known),
	)
	return &Result{Pieces: pieces, UnknownLanguage: !known}, nil
}

// Send escapes the text and delivers the pieces to the target pane.
func (s *Sender) Send(ctx context.Context, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "send",
		trace.WithAttributes(
			attribute.String("send.language", string(req.Language)),
			attribute.String("send.repl", req.Repl),
			attribute.String("send.pane", req.Target.Pane),
			attribute.Bool("send.bracketed", req.Target.BracketedPaste),
			attribute.Int("send.bytes", len(req.Text)),
		))
	defer span.End()

	start := time.Now()

	res, err := s.Escape(ctx, req)
	if err != nil {
		s.Metrics.RecordSend(ctx, "invalid", string(req.Language), req.Repl, time.Since(start).Seconds())
		span.SetAttributes(attribute.String("error.type", "escape"))
		return nil, err
	}

	if err := s.deliver(ctx, req.Target, res.Pieces); err != nil {
		s.Metrics.RecordSend(ctx, "failure", string(req.Language), req.Repl, time.Since(start).Seconds())
		span.SetAttributes(attribute.String("error.type", "delivery"))
		return nil, fmt.Errorf("deliver to pane %s: %w", req.Target.Pane, err)
	}

	s.Metrics.RecordSend(ctx, "success", string(req.Language), req.Repl, time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("send.pieces", len(res.Pieces)))
	return res, nil
}

func (s *Sender) deliver(ctx context.Context, target deliver.Target, pieces []model.Piece) error {
	ctx, span := tracer.Start(ctx, "deliver",
		trace.WithAttributes(
			attribute.String("send.pane", target.Pane),
			attribute.Bool("send.bracketed", target.BracketedPaste),
		))
	defer span.End()
	return s.Deliverer.Deliver(ctx, target, pieces)
}
