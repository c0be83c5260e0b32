// producer.go: RecordBuilder: the fluent per-record producer API
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package gflogger

import (
	"github.com/gflogger/gflogger/format"
	"github.com/gflogger/gflogger/gferrors"
	"github.com/gflogger/gflogger/ring"
)

// RecordBuilder is the producer façade returned by StartRecord: a
// thread-affine handle on one claimed, not-yet-published slot. Every
// RecordBuilder must terminate with exactly one Commit/CommitLast call
// (§4.2, §6's producer façade contract).
type RecordBuilder struct {
	svc  *LoggerService
	seq  int64
	slot *ring.Slot
	wait ring.WaitStrategy
	done bool
}

// StartRecord claims the next free slot for level and stamps it with the
// current time and loggerID, ready for Append/With calls.
func (s *LoggerService) StartRecord(level ring.Level, loggerID int32) (*RecordBuilder, error) {
	wait := s.dispatcher.Wait()
	seq, err := s.dispatcher.Sequencer().Claim(1, wait, s.dispatcher.Halt())
	if err != nil {
		return nil, err
	}
	slot := s.dispatcher.Slot(seq)
	slot.Reset()
	slot.Level = level
	slot.TimestampMillis = s.timeSource.NowMillis()
	slot.LoggerID = loggerID
	return &RecordBuilder{svc: s, seq: seq, slot: slot, wait: wait}, nil
}

// AppendLong appends v's decimal representation to the record's payload.
func (r *RecordBuilder) AppendLong(v int64) *RecordBuilder {
	r.fail(r.withBuffers(func(bb *format.ByteBuffer, cb *format.CharBuffer) error {
		if bb != nil {
			return format.AppendLong(bb, v)
		}
		return format.AppendLongChars(cb, v)
	}))
	return r
}

// AppendInt appends v's decimal representation to the record's payload.
func (r *RecordBuilder) AppendInt(v int32) *RecordBuilder { return r.AppendLong(int64(v)) }

// AppendFloat appends v with the default relaxed-tolerance precision.
func (r *RecordBuilder) AppendFloat(v float64) *RecordBuilder {
	r.fail(r.withBuffers(func(bb *format.ByteBuffer, cb *format.CharBuffer) error {
		if bb != nil {
			return format.AppendFloat(bb, v)
		}
		// Multibyte float formatting is out of scope for this pass; an
		// appender upstream can still render char-mode records, just
		// not via this particular helper.
		return gferrors.New(gferrors.ErrCodePatternMisuse, "AppendFloat is single-byte-mode only")
	}))
	return r
}

// AppendString appends s verbatim, one byte or rune per character.
func (r *RecordBuilder) AppendString(s string) *RecordBuilder {
	r.fail(r.withBuffers(func(bb *format.ByteBuffer, cb *format.CharBuffer) error {
		if bb != nil {
			for i := 0; i < len(s); i++ {
				if err := bb.WriteByte(s[i]); err != nil {
					return err
				}
			}
			return nil
		}
		for _, rn := range s {
			if err := cb.WriteRune(rn); err != nil {
				return err
			}
		}
		return nil
	}))
	return r
}

// WithPattern arms the record for templated filling against pattern.
func (r *RecordBuilder) WithPattern(pattern *ring.Pattern) *RecordBuilder {
	r.slot.BeginPattern(pattern)
	return r
}

// StartPatternRecord is StartRecord followed by WithPattern(svc's
// configured default pattern), the common case of logging through
// gflogger.pattern rather than a caller-supplied one.
func (s *LoggerService) StartPatternRecord(level ring.Level, loggerID int32) (*RecordBuilder, error) {
	rb, err := s.StartRecord(level, loggerID)
	if err != nil {
		return nil, err
	}
	return rb.WithPattern(s.pattern), nil
}

// With binds the next placeholder in the record's active pattern to v's
// decimal representation (§4.2's pattern expansion rule).
func (r *RecordBuilder) With(v int64) *RecordBuilder {
	r.fail(r.slot.WithValue(func(bb *format.ByteBuffer, cb *format.CharBuffer) error {
		if bb != nil {
			return format.AppendLong(bb, v)
		}
		return format.AppendLongChars(cb, v)
	}))
	return r
}

// WithString binds the next placeholder to s verbatim.
func (r *RecordBuilder) WithString(s string) *RecordBuilder {
	r.fail(r.slot.WithValue(func(bb *format.ByteBuffer, cb *format.CharBuffer) error {
		if bb != nil {
			for i := 0; i < len(s); i++ {
				if err := bb.WriteByte(s[i]); err != nil {
					return err
				}
			}
			return nil
		}
		for _, rn := range s {
			if err := cb.WriteRune(rn); err != nil {
				return err
			}
		}
		return nil
	}))
	return r
}

func (r *RecordBuilder) withBuffers(fn func(bb *format.ByteBuffer, cb *format.CharBuffer) error) error {
	if r.slot.Multibyte {
		return fn(nil, r.slot.CharBuf)
	}
	return fn(r.slot.ByteBuf, nil)
}

func (r *RecordBuilder) fail(err error) {
	if err != nil && r.slot.Err == nil {
		r.slot.Err = err
	}
}

// Commit publishes the record as-is, whether or not a pattern is active.
// Any error recorded by a prior Append/With call is returned here and the
// slot is published anyway so the consumer can still account for its
// sequence number, carrying Err for diagnostics.
func (r *RecordBuilder) Commit() error {
	return r.publish()
}

// CommitLast validates that the record's pattern (if any) has every
// placeholder filled before publishing, per §4.2's withLast contract.
func (r *RecordBuilder) CommitLast() error {
	if r.slot.Pattern != nil {
		if err := r.slot.CommitPattern(); err != nil {
			r.fail(err)
		}
	}
	return r.publish()
}

func (r *RecordBuilder) publish() error {
	if r.done {
		return gferrors.New(gferrors.ErrCodePatternMisuse, "record already committed")
	}
	r.done = true
	r.svc.dispatcher.Sequencer().Publish(r.seq, 1, r.wait)
	return r.slot.Err
}
