package format

import (
	"math"
	"strconv"
	"testing"
)

func tolerance(v float64) float64 {
	av := math.Abs(v)
	if av < 1 {
		return 1e-15
	}
	return 1e-15 * av
}

func roundTrip(t *testing.T, v float64) float64 {
	t.Helper()
	buf := NewByteBuffer(make([]byte, 400))
	if err := AppendFloat(buf, v); err != nil {
		t.Fatalf("AppendFloat(%v): %v", v, err)
	}
	s := string(buf.Bytes())
	got, err := strconv.ParseFloat(s, 64)
	if err != nil {
		t.Fatalf("reparsing %q: %v", s, err)
	}
	return got
}

func TestAppendFloatRoundTrip(t *testing.T) {
	seed := []float64{0, -0.0, 1, -1, 1.0 / 3, 1.0 / 7, 123.456, -123.456,
		math.SmallestNonzeroFloat64, -math.SmallestNonzeroFloat64,
		math.MaxFloat64, -math.MaxFloat64,
		1.0 - math.Nextafter(1, 0), 1.0 + (math.Nextafter(1, 2) - 1),
		-1.0000000000000010e15,
	}
	for k := -20; k <= 20; k += 10 {
		seed = append(seed, 1.0*math.Pow(10, float64(k)))
	}
	for _, v := range seed {
		got := roundTrip(t, v)
		if diff := math.Abs(got - v); diff > tolerance(v) {
			t.Errorf("AppendFloat(%v) round-trips to %v, diff %v exceeds tolerance %v", v, got, diff, tolerance(v))
		}
	}
}

func TestAppendFloatSpecialValues(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, c := range cases {
		buf := NewByteBuffer(make([]byte, 16))
		if err := AppendFloat(buf, c.v); err != nil {
			t.Fatal(err)
		}
		if got := string(buf.Bytes()); got != c.want {
			t.Errorf("AppendFloat(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestAppendFloatNegativeZero(t *testing.T) {
	buf := NewByteBuffer(make([]byte, 16))
	negZero := math.Copysign(0, -1)
	if err := AppendFloat(buf, negZero); err != nil {
		t.Fatal(err)
	}
	if got := string(buf.Bytes()); got != "-0.0" {
		t.Errorf("AppendFloat(-0.0) = %q, want -0.0", got)
	}
}

func TestAppendFloatPrecision(t *testing.T) {
	for _, digits := range []int{0, 1, 2, 3, 10, 16, 19, 20} {
		for _, v := range []float64{
			1.0 / 3, 123.456, -9.87654321,
			1000.5, -1000.5, 1.0 / 3 * 1e6, 1.0 / 3 * 1e9, -1.0 / 3 * 1e12,
			1.0 / 3 * 1e15, 1.0 / 3 * 1e18,
		} {
			buf := NewByteBuffer(make([]byte, 64))
			if err := AppendFloatPrecision(buf, v, digits); err != nil {
				t.Fatalf("AppendFloatPrecision(%v, %d): %v", v, digits, err)
			}
			s := string(buf.Bytes())
			got, err := strconv.ParseFloat(s, 64)
			if err != nil {
				t.Fatalf("reparsing %q: %v", s, err)
			}
			clamped := digits
			if clamped > 16 {
				clamped = 16
			}
			tol := 2 * math.Pow(10, -float64(clamped))
			if diff := math.Abs(got - v); diff > tol {
				t.Errorf("AppendFloatPrecision(%v, %d) = %q, diff %v exceeds %v", v, digits, s, diff, tol)
			}
		}
	}
}

func TestAppendFloatNeverUsesExponentNotation(t *testing.T) {
	for _, v := range []float64{1e20, 1e-20, math.MaxFloat64} {
		buf := NewByteBuffer(make([]byte, 400))
		if err := AppendFloat(buf, v); err != nil {
			t.Fatal(err)
		}
		s := string(buf.Bytes())
		for _, c := range s {
			if c == 'e' || c == 'E' {
				t.Errorf("AppendFloat(%v) = %q contains exponent notation", v, s)
			}
		}
	}
}
