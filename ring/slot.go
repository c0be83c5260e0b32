// slot.go: Ring cell payload, levels, and pattern parsing
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ring

import (
	"strings"

	"github.com/gflogger/gflogger/format"
	"github.com/gflogger/gflogger/gferrors"
)

// Level is a log severity, ordered so that numeric comparison implements
// the appender pipeline's level filter (§4.6).
type Level int8

const (
	TRACE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
)

func (l Level) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a configuration string (case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	default:
		return 0, gferrors.WithField(gferrors.ErrCodeInvalidConfig, "unrecognized log level", "level", s)
	}
}

// patternFragment is one literal run of a parsed Pattern, optionally
// followed by a "%s" placeholder.
type patternFragment struct {
	literal        string
	hasPlaceholder bool
}

// Pattern is an immutable, pre-parsed layout template: literal text with
// "%s" placeholders and "%%" escapes for a literal percent sign. Parsing
// happens once at construction so the hot producer path only walks a
// slice of already-split fragments.
type Pattern struct {
	source      string
	fragments   []patternFragment
	placeholders int
}

// ParsePattern splits s into fragments at each "%s" placeholder, resolving
// "%%" escapes to a literal "%". A trailing bare "%" (neither "%s" nor
// "%%") is a malformed pattern.
func ParsePattern(s string) (*Pattern, error) {
	p := &Pattern{source: s}
	var lit strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return nil, gferrors.WithField(gferrors.ErrCodePatternMisuse, "pattern ends with a bare %", "pattern", s)
		}
		switch s[i+1] {
		case 's':
			p.fragments = append(p.fragments, patternFragment{literal: lit.String(), hasPlaceholder: true})
			lit.Reset()
			p.placeholders++
			i++
		case '%':
			lit.WriteByte('%')
			i++
		default:
			return nil, gferrors.WithField(gferrors.ErrCodePatternMisuse, "malformed pattern escape", "pattern", s)
		}
	}
	p.fragments = append(p.fragments, patternFragment{literal: lit.String()})
	return p, nil
}

// NumPlaceholders returns how many "%s" placeholders the pattern has.
func (p *Pattern) NumPlaceholders() int { return p.placeholders }

// Source returns the original, unparsed pattern string.
func (p *Pattern) Source() string { return p.source }

// Slot is one ring cell: a fixed-capacity scratch record owned by exactly
// one in-flight log call at a time (§3). Ownership transitions are visible
// only through sequence publication, never through any field here.
type Slot struct {
	Level           Level
	TimestampMillis int64
	ThreadName      string
	LoggerID        int32

	Multibyte bool
	ByteBuf   *format.ByteBuffer
	CharBuf   *format.CharBuffer

	// Pattern/PatternCursor are set only while the slot is being filled
	// in templated mode via With; PatternCursor counts how many
	// placeholders have been bound so far.
	Pattern       *Pattern
	PatternCursor int

	// Err records the first pattern-misuse (or other producer-side)
	// failure detected while filling the slot; Commit/CommitLast return
	// it to the producer. The slot is still published, and neither the
	// dispatcher nor the appender layouts inspect Err: the payload is
	// rendered as far as it had been written.
	Err error
}

// NewSlot allocates one ring cell's fixed-capacity payload buffer.
// multibyte selects a CharBuffer; otherwise a ByteBuffer is used.
func NewSlot(capacity int, multibyte bool) *Slot {
	s := &Slot{Multibyte: multibyte}
	if multibyte {
		s.CharBuf = format.NewCharBuffer(make([]rune, capacity))
	} else {
		s.ByteBuf = format.NewByteBuffer(make([]byte, capacity))
	}
	return s
}

// Reset clears the slot for reuse by the next producer to claim its
// sequence: payload position rewinds to zero and templating state clears.
// Level/TimestampMillis/ThreadName/LoggerID are overwritten by the next
// claim, not cleared here.
func (s *Slot) Reset() {
	if s.Multibyte {
		s.CharBuf.Reset()
	} else {
		s.ByteBuf.Reset()
	}
	s.Pattern = nil
	s.PatternCursor = 0
	s.Err = nil
}

// BeginPattern arms the slot for templated filling against p.
func (s *Slot) BeginPattern(p *Pattern) {
	s.Pattern = p
	s.PatternCursor = 0
}

// appendLiteral appends one fragment's literal run (the text preceding
// its placeholder, or the trailing literal past the last placeholder).
func (s *Slot) appendLiteral(lit string) error {
	if s.Multibyte {
		for _, r := range lit {
			if err := s.CharBuf.WriteRune(r); err != nil {
				return err
			}
		}
		return nil
	}
	for i := 0; i < len(lit); i++ {
		if err := s.ByteBuf.WriteByte(lit[i]); err != nil {
			return err
		}
	}
	return nil
}

// WithValue appends fragment PatternCursor's leading literal run and then
// a caller-rendered placeholder value, per the pattern expansion rule in
// §4.2: render(value) happens via fn, invoked with the slot's active
// buffer handles.
func (s *Slot) WithValue(fn func(bb *format.ByteBuffer, cb *format.CharBuffer) error) error {
	if s.Pattern == nil {
		return gferrors.New(gferrors.ErrCodePatternMisuse, "with called without an active pattern")
	}
	if s.PatternCursor >= len(s.Pattern.fragments)-1 {
		return gferrors.WithField(gferrors.ErrCodePatternMisuse, "with called more times than the pattern has placeholders", "pattern", s.Pattern.source)
	}
	frag := s.Pattern.fragments[s.PatternCursor]
	if err := s.appendLiteral(frag.literal); err != nil {
		return err
	}
	if err := fn(s.ByteBuf, s.CharBuf); err != nil {
		return err
	}
	s.PatternCursor++
	return nil
}

// CommitPattern validates that every placeholder was bound and appends
// the pattern's trailing literal run (the text after the last "%s").
func (s *Slot) CommitPattern() error {
	if s.Pattern == nil {
		return gferrors.New(gferrors.ErrCodePatternMisuse, "commit called without an active pattern")
	}
	if s.PatternCursor != s.Pattern.placeholders {
		return gferrors.WithField(gferrors.ErrCodePatternMisuse, "commit called before all placeholders were bound", "pattern", s.Pattern.source)
	}
	return s.appendLiteral(s.Pattern.fragments[len(s.Pattern.fragments)-1].literal)
}
