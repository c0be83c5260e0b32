// pipeline.go: Ring consumer that renders and flushes records to a Sink
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package appender

import (
	"sync/atomic"

	"github.com/gflogger/gflogger/ring"
)

// Stats is a read-only snapshot of pipeline counters for diagnostics.
type Stats struct {
	Published   int64
	Consumed    int64
	Truncated   int64
	FlushCount  int64
	SinkErrors  int64
}

// Pipeline implements ring.Consumer: for each slot it filters by level,
// renders through Layout into a reusable OutputBuffer, and flushes that
// buffer to Sink once immediateFlush, the buffered-IO threshold, or a
// drained batch requires it (§4.6).
type Pipeline struct {
	Sink   Sink
	Layout Layout

	Level Level

	ImmediateFlush      bool
	BufferedIOThreshold int

	// FallbackErrorHandler receives sink failures; nil is treated as a
	// no-op. Sink failures never halt the consumer (§4.6, §7).
	FallbackErrorHandler func(error)

	// ThreadNames resolves a slot's LoggerID to a human-readable thread
	// name for layouts that want one beyond slot.ThreadName.
	ThreadNames func(int32) string

	out *OutputBuffer

	published  atomic.Int64
	consumed   atomic.Int64
	truncated  atomic.Int64
	flushCount atomic.Int64
	sinkErrors atomic.Int64
}

// Level mirrors ring.Level so the pipeline's level threshold is the same
// comparable integer type as a slot's.
type Level = ring.Level

// NewPipeline builds a Pipeline with an output buffer of the given
// capacity.
func NewPipeline(sink Sink, layout Layout, level Level, bufferCapacity int) *Pipeline {
	return &Pipeline{
		Sink:   sink,
		Layout: layout,
		Level:  level,
		out:    NewOutputBuffer(bufferCapacity),
	}
}

// Dispatch implements ring.Consumer.
func (p *Pipeline) Dispatch(seq int64, slot *ring.Slot) error {
	p.published.Add(1)
	if slot.Level < p.Level {
		p.consumed.Add(1)
		return nil
	}
	if err := p.Layout.Write(p.out, slot, p.ThreadNames); err != nil {
		p.truncated.Add(1)
	}
	p.consumed.Add(1)
	if p.ImmediateFlush || (p.BufferedIOThreshold > 0 && p.out.Len() >= p.BufferedIOThreshold) {
		p.flush()
	}
	return nil
}

// EndBatch implements ring.Consumer: any slots rendered this batch that
// haven't yet crossed the threshold are flushed now, since the batch is
// drained (§4.6's "or the batch is drained" clause).
func (p *Pipeline) EndBatch() error {
	if p.out.Len() > 0 {
		p.flush()
	}
	return nil
}

func (p *Pipeline) flush() {
	if p.out.Len() == 0 {
		return
	}
	_, err := p.Sink.Write(p.out.Bytes())
	if err == nil {
		err = p.Sink.Flush()
	}
	if err != nil {
		p.sinkErrors.Add(1)
		if p.FallbackErrorHandler != nil {
			p.FallbackErrorHandler(err)
		}
	}
	p.flushCount.Add(1)
	// Reset regardless of failure: re-emitting partial content on the
	// next flush would corrupt the stream (§4.6's sink failure policy).
	p.out.Reset()
}

// Snapshot returns the current counters.
func (p *Pipeline) Snapshot() Stats {
	return Stats{
		Published:  p.published.Load(),
		Consumed:   p.consumed.Load(),
		Truncated:  p.truncated.Load(),
		FlushCount: p.flushCount.Load(),
		SinkErrors: p.sinkErrors.Load(),
	}
}
