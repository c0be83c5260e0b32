// layout.go: Record-to-bytes layout implementations
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package appender

import (
	"github.com/gflogger/gflogger/format"
	"github.com/gflogger/gflogger/ring"
)

// Layout renders a slot's header (timestamp, level, logger, thread) and
// copies its payload into dst. Implementations must not allocate on the
// steady path.
type Layout interface {
	Write(dst *OutputBuffer, slot *ring.Slot, threadNames func(int32) string) error
}

// DefaultLayout renders "<payload>\n": the bare payload and a newline,
// with no level, timestamp or thread header, so records come out as
// plain lines such as "msg-<i>\n". HeaderLayout adds the header.
type DefaultLayout struct{}

func (DefaultLayout) Write(dst *OutputBuffer, slot *ring.Slot, threadNames func(int32) string) error {
	if err := writeLevelAndPayload(dst, slot); err != nil {
		return err
	}
	return dst.WriteByte('\n')
}

func writeLevelAndPayload(dst *OutputBuffer, slot *ring.Slot) error {
	if slot.Multibyte {
		buf := make([]byte, 0, slot.CharBuf.Len())
		for _, r := range slot.CharBuf.Runes() {
			buf = append(buf, byte(r))
		}
		_, err := dst.Write(buf)
		return err
	}
	_, err := dst.Write(slot.ByteBuf.Bytes())
	return err
}

// HeaderLayout renders a fuller header line including level, timestamp
// and thread name, for callers that want more than the bare payload.
type HeaderLayout struct{}

func (HeaderLayout) Write(dst *OutputBuffer, slot *ring.Slot, threadNames func(int32) string) error {
	var scratch [32]byte
	bb := format.NewByteBuffer(scratch[:])

	if err := dst.WriteByte('['); err != nil {
		return err
	}
	if _, err := dst.Write([]byte(slot.Level.String())); err != nil {
		return err
	}
	if _, err := dst.Write([]byte("] ")); err != nil {
		return err
	}

	bb.Reset()
	if err := format.AppendLong(bb, slot.TimestampMillis); err != nil {
		return err
	}
	if _, err := dst.Write(bb.Bytes()); err != nil {
		return err
	}

	thread := slot.ThreadName
	if thread == "" && threadNames != nil {
		thread = threadNames(slot.LoggerID)
	}
	if thread != "" {
		if _, err := dst.Write([]byte(" [" + thread + "]")); err != nil {
			return err
		}
	}
	if err := dst.WriteByte(' '); err != nil {
		return err
	}
	if err := writeLevelAndPayload(dst, slot); err != nil {
		return err
	}
	return dst.WriteByte('\n')
}
