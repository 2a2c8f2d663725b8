package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "replink"

// Metrics holds all OTEL metric instruments for the send pipeline.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Sends counts completed send invocations, partitioned by outcome
	// (success, failure, invalid) plus language and repl attributes.
	Sends metric.Int64Counter
	// SendDuration measures wall-clock seconds for escape + delivery.
	SendDuration metric.Float64Histogram

	// Pieces counts escaped pieces, partitioned by kind (text, delay).
	Pieces metric.Int64Counter
	// Steps counts executed delivery steps, partitioned by kind.
	Steps metric.Int64Counter

	// Chunks counts paste-buffer chunks pushed to the pane.
	Chunks metric.Int64Counter
	// Bytes counts payload bytes pushed through the paste buffer.
	Bytes metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Sends, err = meter.Int64Counter("replink.sends",
		metric.WithDescription("Completed send invocations partitioned by outcome"))
	if err != nil {
		return nil, err
	}

	m.SendDuration, err = meter.Float64Histogram("replink.send.duration",
		metric.WithDescription("Wall-clock duration of escape + delivery"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.Pieces, err = meter.Int64Counter("replink.pieces",
		metric.WithDescription("Escaped pieces produced, partitioned by kind (text, delay)"))
	if err != nil {
		return nil, err
	}

	m.Steps, err = meter.Int64Counter("replink.steps",
		metric.WithDescription("Delivery steps executed, partitioned by kind"))
	if err != nil {
		return nil, err
	}

	m.Chunks, err = meter.Int64Counter("replink.chunks",
		metric.WithDescription("Paste-buffer chunks pushed to the target pane"))
	if err != nil {
		return nil, err
	}

	m.Bytes, err = meter.Int64Counter("replink.bytes",
		metric.WithDescription("Payload bytes pushed through the paste buffer"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSend records one completed send invocation.
func (m *Metrics) RecordSend(ctx context.Context, outcome, language, repl string, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("send.outcome", outcome),
		attribute.String("send.language", language),
		attribute.String("send.repl", repl),
	)
	m.Sends.Add(ctx, 1, attrs)
	m.SendDuration.Record(ctx, seconds, attrs)
}

// RecordPiece records one escaped piece of the given kind.
func (m *Metrics) RecordPiece(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.Pieces.Add(ctx, 1, metric.WithAttributes(attribute.String("piece.kind", kind)))
}

// RecordStep records one executed delivery step of the given kind.
func (m *Metrics) RecordStep(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.Steps.Add(ctx, 1, metric.WithAttributes(attribute.String("step.kind", kind)))
}

// RecordChunk records one pasted chunk and its size.
func (m *Metrics) RecordChunk(ctx context.Context, bytes int) {
	if m == nil {
		return
	}
	m.Chunks.Add(ctx, 1)
	m.Bytes.Add(ctx, int64(bytes))
}
