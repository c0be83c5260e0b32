// consolesink.go: Buffered console Sink implementation
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package appender

import (
	"bufio"
	"io"
)

// ConsoleSink writes to an arbitrary io.Writer, typically os.Stdout or
// os.Stderr, through a buffered writer so Flush is a real syscall
// boundary rather than a per-record write(2).
type ConsoleSink struct {
	w *bufio.Writer
}

// NewConsoleSink wraps w (e.g. os.Stdout) as a Sink.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: bufio.NewWriter(w)}
}

func (c *ConsoleSink) Write(p []byte) (int, error) { return c.w.Write(p) }
func (c *ConsoleSink) Flush() error                { return c.w.Flush() }
func (c *ConsoleSink) Close() error                 { return c.w.Flush() }
