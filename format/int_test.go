package format

import (
	"strconv"
	"testing"
)

func TestAppendLongRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 9, -9, 10, 99, 100, 123456789,
		-123456789, 1<<31 - 1, -(1 << 31), 1<<63 - 1, -(1 << 63)}
	for _, v := range values {
		buf := NewByteBuffer(make([]byte, 32))
		if err := AppendLong(buf, v); err != nil {
			t.Fatalf("AppendLong(%d): %v", v, err)
		}
		got := string(buf.Bytes())
		want := strconv.FormatInt(v, 10)
		if got != want {
			t.Errorf("AppendLong(%d) = %q, want %q", v, got, want)
		}
		if n := NumberOfDigits(v); n != len(want) {
			t.Errorf("NumberOfDigits(%d) = %d, want %d", v, n, len(want))
		}
	}
}

func TestAppendLongMinInt64(t *testing.T) {
	buf := NewByteBuffer(make([]byte, 32))
	if err := AppendLong(buf, -9223372036854775808); err != nil {
		t.Fatalf("AppendLong(MinInt64): %v", err)
	}
	if got := string(buf.Bytes()); got != "-9223372036854775808" {
		t.Errorf("AppendLong(MinInt64) = %q", got)
	}
}

func TestAppendLongOverflow(t *testing.T) {
	buf := NewByteBuffer(make([]byte, 2))
	if err := AppendLong(buf, 123456); err == nil {
		t.Fatal("expected overflow error for undersized buffer")
	}
}

func TestAppendIntAgreesWithAppendLong(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 1<<31 - 1, -(1 << 31)} {
		a := NewByteBuffer(make([]byte, 16))
		b := NewByteBuffer(make([]byte, 16))
		if err := AppendInt(a, v); err != nil {
			t.Fatal(err)
		}
		if err := AppendLong(b, int64(v)); err != nil {
			t.Fatal(err)
		}
		if string(a.Bytes()) != string(b.Bytes()) {
			t.Errorf("AppendInt(%d)=%q, AppendLong(int64(%d))=%q", v, a.Bytes(), v, b.Bytes())
		}
		if NumberOfDigitsInt(v) != NumberOfDigits(int64(v)) {
			t.Errorf("NumberOfDigitsInt/NumberOfDigits disagree for %d", v)
		}
	}
}

func TestAppendCharRoundTrip(t *testing.T) {
	buf := NewByteBuffer(make([]byte, 1))
	for c := rune(0); c <= 127; c++ {
		buf.Reset()
		if err := AppendChar(buf, c); err != nil {
			t.Fatalf("AppendChar(%d): %v", c, err)
		}
		if buf.Bytes()[0] != byte(c) {
			t.Errorf("AppendChar(%d) wrote %d", c, buf.Bytes()[0])
		}
	}
}

func TestAppendLongChars(t *testing.T) {
	cbuf := NewCharBuffer(make([]rune, 32))
	if err := AppendLongChars(cbuf, -12345); err != nil {
		t.Fatal(err)
	}
	if got := string(cbuf.Runes()); got != "-12345" {
		t.Errorf("AppendLongChars(-12345) = %q", got)
	}
}
