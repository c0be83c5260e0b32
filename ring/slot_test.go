package ring

import (
	"testing"

	"github.com/gflogger/gflogger/format"
)

func TestLevelStringAndParse(t *testing.T) {
	levels := []Level{TRACE, DEBUG, INFO, WARN, ERROR, FATAL}
	for _, l := range levels {
		got, err := ParseLevel(l.String())
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", l.String(), err)
		}
		if got != l {
			t.Errorf("ParseLevel(%q) = %v, want %v", l.String(), got, l)
		}
	}
	if _, err := ParseLevel("nonsense"); err == nil {
		t.Fatal("expected error for unrecognized level")
	}
	if l, err := ParseLevel("warning"); err != nil || l != WARN {
		t.Errorf("ParseLevel(warning) = %v, %v, want WARN, nil", l, err)
	}
}

func TestParsePatternPlaceholdersAndEscapes(t *testing.T) {
	p, err := ParsePattern("a=%s, b=%s%%done")
	if err != nil {
		t.Fatal(err)
	}
	if p.NumPlaceholders() != 2 {
		t.Fatalf("NumPlaceholders() = %d, want 2", p.NumPlaceholders())
	}
}

func TestParsePatternMalformed(t *testing.T) {
	if _, err := ParsePattern("trailing percent %"); err == nil {
		t.Fatal("expected error for trailing bare %")
	}
	if _, err := ParsePattern("bad escape %x"); err == nil {
		t.Fatal("expected error for unknown escape")
	}
}

func TestSlotPatternFillAndCommit(t *testing.T) {
	slot := NewSlot(64, false)
	pattern, err := ParsePattern("a=%s, b=%s")
	if err != nil {
		t.Fatal(err)
	}
	slot.BeginPattern(pattern)

	write := func(v int64) error {
		return slot.WithValue(func(bb *format.ByteBuffer, cb *format.CharBuffer) error {
			return format.AppendLong(bb, v)
		})
	}
	if err := write(1); err != nil {
		t.Fatal(err)
	}
	if err := write(2); err != nil {
		t.Fatal(err)
	}
	if err := slot.CommitPattern(); err != nil {
		t.Fatal(err)
	}
	if got := string(slot.ByteBuf.Bytes()); got != "a=1, b=2" {
		t.Errorf("payload = %q, want %q", got, "a=1, b=2")
	}
}

func TestSlotPatternMisuseTooFewValues(t *testing.T) {
	slot := NewSlot(64, false)
	pattern, _ := ParsePattern("a=%s, b=%s")
	slot.BeginPattern(pattern)
	_ = slot.WithValue(func(bb *format.ByteBuffer, cb *format.CharBuffer) error {
		return format.AppendLong(bb, 1)
	})
	if err := slot.CommitPattern(); err == nil {
		t.Fatal("expected pattern-misuse error for too few values")
	}
}

func TestSlotPatternMisuseTooManyValues(t *testing.T) {
	slot := NewSlot(64, false)
	pattern, _ := ParsePattern("a=%s")
	slot.BeginPattern(pattern)
	write := func(v int64) error {
		return slot.WithValue(func(bb *format.ByteBuffer, cb *format.CharBuffer) error {
			return format.AppendLong(bb, v)
		})
	}
	if err := write(1); err != nil {
		t.Fatal(err)
	}
	if err := write(2); err == nil {
		t.Fatal("expected pattern-misuse error for too many values")
	}
}

func TestSlotResetClearsPatternState(t *testing.T) {
	slot := NewSlot(16, false)
	pattern, _ := ParsePattern("%s")
	slot.BeginPattern(pattern)
	slot.Err = errFake
	slot.Reset()
	if slot.Pattern != nil || slot.PatternCursor != 0 || slot.Err != nil {
		t.Fatal("Reset did not clear pattern state")
	}
}

var errFake = &testError{"fake"}

type testError struct{ s string }

func (e *testError) Error() string { return e.s }
