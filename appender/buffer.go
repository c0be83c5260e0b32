// buffer.go: Reusable output buffer for the appender pipeline
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Package appender drains published ring slots, renders them through a
// Layout into a reusable output buffer, and flushes that buffer to a Sink
// under a batching policy (§4.6).
package appender

import "github.com/gflogger/gflogger/gferrors"

// OutputBuffer is the pipeline's reusable byte buffer: sized once at
// construction to bufferedIOThreshold*typicalRecordSize and never grown.
// Unlike format.ByteBuffer it exposes raw append helpers rather than
// primitive-formatting ones, since the pipeline only ever copies
// already-formatted slot payloads and layout header bytes into it.
type OutputBuffer struct {
	data []byte
	pos  int
}

// NewOutputBuffer allocates an output buffer of the given capacity.
func NewOutputBuffer(capacity int) *OutputBuffer {
	return &OutputBuffer{data: make([]byte, capacity)}
}

// Len returns the number of bytes currently buffered.
func (o *OutputBuffer) Len() int { return o.pos }

// Cap returns the buffer's total capacity.
func (o *OutputBuffer) Cap() int { return len(o.data) }

// Bytes returns the buffered portion. The slice aliases the buffer;
// callers must not retain it past the next Reset.
func (o *OutputBuffer) Bytes() []byte { return o.data[:o.pos] }

// Reset rewinds the write position to 0.
func (o *OutputBuffer) Reset() { o.pos = 0 }

// Write appends p, failing with a buffer-overflow error if it would not
// fit. On overflow a truncation marker is appended in place of the
// portion that didn't fit, per spec.md §7's non-fatal overflow handling.
func (o *OutputBuffer) Write(p []byte) (int, error) {
	room := len(o.data) - o.pos
	if room >= len(p) {
		copy(o.data[o.pos:o.pos+len(p)], p)
		o.pos += len(p)
		return len(p), nil
	}
	const marker = "...[truncated]"
	if room > 0 {
		markerLen := len(marker)
		if markerLen > room {
			markerLen = room
		}
		dataLen := room - markerLen
		if dataLen > len(p) {
			dataLen = len(p)
		}
		copy(o.data[o.pos:o.pos+dataLen], p[:dataLen])
		o.pos += dataLen
		copy(o.data[o.pos:o.pos+markerLen], marker[:markerLen])
		o.pos += markerLen
	}
	return len(p), gferrors.New(gferrors.ErrCodeBufferOverflow, "output buffer overflow, record truncated")
}

// WriteByte appends a single raw byte.
func (o *OutputBuffer) WriteByte(c byte) error {
	_, err := o.Write([]byte{c})
	return err
}
