// buffer.go: Fixed-capacity byte and char write cursors
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Package format converts primitive values directly into caller-supplied
// byte or character buffers without producing intermediate heap objects.
//
// Every Append* function advances the buffer's write position and never
// allocates on success. Callers that need to pre-reserve space can call
// NumberOfDigits before AppendLong/AppendInt to know exactly how many
// bytes will be written.
package format

import "github.com/gflogger/gflogger/gferrors"

// ByteBuffer is a fixed-capacity, single-byte-encoding write cursor over a
// caller-owned []byte. It never grows; writing past capacity fails with
// gferrors.ErrCodeBufferOverflow and leaves the position unchanged.
type ByteBuffer struct {
	data []byte
	pos  int
}

// NewByteBuffer wraps buf for writing starting at position 0.
func NewByteBuffer(buf []byte) *ByteBuffer {
	return &ByteBuffer{data: buf}
}

// Reset rewinds the write position to 0 without touching the backing array.
func (b *ByteBuffer) Reset() { b.pos = 0 }

// Len returns the number of bytes written so far.
func (b *ByteBuffer) Len() int { return b.pos }

// Cap returns the total backing capacity.
func (b *ByteBuffer) Cap() int { return len(b.data) }

// Remaining returns the number of bytes that can still be written.
func (b *ByteBuffer) Remaining() int { return len(b.data) - b.pos }

// Bytes returns the written portion of the backing array. The returned
// slice aliases the buffer; callers must not retain it past the next Reset.
func (b *ByteBuffer) Bytes() []byte { return b.data[:b.pos] }

// WriteByte appends a single raw byte, failing on overflow.
func (b *ByteBuffer) WriteByte(c byte) error {
	if b.Remaining() < 1 {
		return gferrors.New(gferrors.ErrCodeBufferOverflow, "byte buffer full")
	}
	b.data[b.pos] = c
	b.pos++
	return nil
}

// reserve claims n bytes starting at the current position without
// advancing it, so callers can write digits back-to-front and then commit.
func (b *ByteBuffer) reserve(n int) (int, error) {
	if b.Remaining() < n {
		return 0, gferrors.New(gferrors.ErrCodeBufferOverflow, "byte buffer overflow")
	}
	start := b.pos
	b.pos += n
	return start, nil
}

// CharBuffer is a fixed-capacity, multi-byte-encoding write cursor over a
// caller-owned []rune. Each code point occupies exactly one unit,
// independent of its UTF-8 width.
type CharBuffer struct {
	data []rune
	pos  int
}

// NewCharBuffer wraps buf for writing starting at position 0.
func NewCharBuffer(buf []rune) *CharBuffer {
	return &CharBuffer{data: buf}
}

// Reset rewinds the write position to 0 without touching the backing array.
func (c *CharBuffer) Reset() { c.pos = 0 }

// Len returns the number of runes written so far.
func (c *CharBuffer) Len() int { return c.pos }

// Cap returns the total backing capacity.
func (c *CharBuffer) Cap() int { return len(c.data) }

// Remaining returns the number of runes that can still be written.
func (c *CharBuffer) Remaining() int { return len(c.data) - c.pos }

// Runes returns the written portion of the backing array.
func (c *CharBuffer) Runes() []rune { return c.data[:c.pos] }

func (c *CharBuffer) reserve(n int) (int, error) {
	if c.Remaining() < n {
		return 0, gferrors.New(gferrors.ErrCodeBufferOverflow, "char buffer overflow")
	}
	start := c.pos
	c.pos += n
	return start, nil
}

// WriteRune appends a single code point, failing on overflow.
func (c *CharBuffer) WriteRune(r rune) error {
	if c.Remaining() < 1 {
		return gferrors.New(gferrors.ErrCodeBufferOverflow, "char buffer full")
	}
	c.data[c.pos] = r
	c.pos++
	return nil
}
