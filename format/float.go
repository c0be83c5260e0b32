// float.go: Garbage-free double-to-decimal formatting
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package format

import "math"

const (
	// maxFixedDigits is the internal clamp on fractional digits: a
	// double carries at most ~15.95 significant decimal digits, so
	// anything requested beyond 16 cannot add real precision.
	maxFixedDigits = 16
)

// AppendFloat writes v with enough fractional digits that re-parsing the
// result yields a value within an absolute tolerance of ~1e-15 when
// |v|<1, or a relative tolerance of ~1e-15 when |v|>=1. Special values
// are written as NaN, Infinity, -Infinity; -0.0 round-trips to "-0.0".
// Output never uses exponent notation.
func AppendFloat(buf *ByteBuffer, v float64) error {
	if special, err := appendSpecial(buf, v); special {
		return err
	}
	digits := defaultDigits(v)
	return appendFixed(buf, v, digits)
}

// AppendFloatPrecision writes v with exactly digits fractional digits
// (clamped internally to at most 16). Re-parsing the result is
// guaranteed within 2*10^-min(digits,16) of v.
func AppendFloatPrecision(buf *ByteBuffer, v float64, digits int) error {
	if special, err := appendSpecial(buf, v); special {
		return err
	}
	if digits > maxFixedDigits {
		digits = maxFixedDigits
	}
	if digits < 0 {
		digits = 0
	}
	return appendFixed(buf, v, digits)
}

// appendSpecial handles NaN/+Inf/-Inf; -0.0 is not special here and
// keeps its sign through appendFixed's math.Signbit check. The first
// return value reports whether v was a special case; the caller only
// inspects the error when it is.
func appendSpecial(buf *ByteBuffer, v float64) (bool, error) {
	switch {
	case math.IsNaN(v):
		return true, writeASCII(buf, "NaN")
	case math.IsInf(v, 1):
		return true, writeASCII(buf, "Infinity")
	case math.IsInf(v, -1):
		return true, writeASCII(buf, "-Infinity")
	}
	return false, nil
}

func writeASCII(buf *ByteBuffer, s string) error {
	start, err := buf.reserve(len(s))
	if err != nil {
		return err
	}
	copy(buf.data[start:start+len(s)], s)
	return nil
}

// defaultDigits picks a fractional-digit count for AppendFloat that
// holds ~17 significant decimal digits in total, which satisfies the
// absolute/relative tolerance contract above for every finite double.
func defaultDigits(v float64) int {
	av := math.Abs(v)
	if av == 0 {
		return 1
	}
	if av < 1 {
		return maxFixedDigits
	}
	// Converting av straight to uint64 is only well-defined up to
	// ~1.8e19 (math.MaxUint64); magnitudes at or beyond 10^18 already
	// clamp digits to 0 below, so skip the conversion entirely for them.
	if av >= 1e18 {
		return 0
	}
	intDigits := udigits(uint64(av))
	digits := 17 - intDigits
	if digits < 0 {
		digits = 0
	}
	if digits > maxFixedDigits {
		digits = maxFixedDigits
	}
	return digits
}

// maxUint64Float is 2^64 as a float64, the exclusive upper bound past
// which converting a float64 to uint64 is no longer well-defined.
const maxUint64Float = 1.8446744073709552e19

// appendFixed writes v with exactly `digits` fractional digits. The
// whole and fractional parts are split with math.Trunc *before* any
// scaling multiply, so the fractional extraction (frac*10^digits, which
// never exceeds 10^16) never depends on the magnitude of the whole
// part -- a moderate value like 1000.5 keeps its fraction even though
// 1000.5*10^16 would overflow int64. Only the whole part's own
// formatting has a magnitude-dependent path (appendHugeWhole), since
// that's the one piece that can legitimately outgrow uint64.
func appendFixed(buf *ByteBuffer, v float64, digits int) error {
	neg := math.Signbit(v)
	av := math.Abs(v)

	whole := math.Trunc(av)
	frac := av - whole

	scale := pow10[digits]
	fracInt := uint64(math.Round(frac * float64(scale)))
	if fracInt >= scale {
		// Rounding carried into the whole part, e.g. 0.9999...-> 1.000...
		fracInt -= scale
		whole++
	}

	if whole < maxUint64Float {
		return appendFixedParts(buf, neg, uint64(whole), fracInt, digits)
	}
	return appendHugeWhole(buf, neg, whole, fracInt, digits)
}

// appendFixedParts writes sign, whole and a zero-padded fractional part
// of exactly `digits` digits, for a whole part that fits a uint64.
func appendFixedParts(buf *ByteBuffer, neg bool, whole, frac uint64, digits int) error {
	wholeDigits := udigits(whole)
	total := wholeDigits
	if neg {
		total++
	}
	if digits > 0 {
		total += 1 + digits // '.' + fractional digits
	}
	start, err := buf.reserve(total)
	if err != nil {
		return err
	}
	dst := buf.data[start : start+total]
	i := 0
	if neg {
		dst[0] = '-'
		i = 1
	}
	writeUDigits(dst[i:i+wholeDigits], whole)
	i += wholeDigits
	if digits > 0 {
		dst[i] = '.'
		i++
		writeZeroPadded(dst[i:i+digits], frac, digits)
	}
	return nil
}

// writeZeroPadded writes v into dst (exactly width bytes) with leading
// zero padding, e.g. v=7, width=3 -> "007".
func writeZeroPadded(dst []byte, v uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		dst[i] = digitChars[v%10]
		v /= 10
	}
}

// appendHugeWhole handles a whole part too large to fit a uint64: it is
// written in chunks of 18 digits at a time (chunkScale), most
// significant chunk first. frac is always well within uint64 range
// regardless of the whole part's magnitude (it is at most 10^digits-1),
// so the fractional digits are written exactly like the normal path --
// nothing is zeroed out here.
func appendHugeWhole(buf *ByteBuffer, neg bool, whole float64, frac uint64, digits int) error {
	const chunkScale = 1e18
	var chunks [20]uint64
	n := 0
	av := whole
	for av >= 1 && n < len(chunks) {
		chunks[n] = uint64(math.Mod(av, chunkScale))
		av = math.Floor(av / chunkScale)
		n++
	}
	if n == 0 {
		chunks[0] = 0
		n = 1
	}

	if neg {
		if err := buf.WriteByte('-'); err != nil {
			return err
		}
	}
	// Most-significant chunk first, without leading zero padding.
	if err := AppendLong(buf, int64(chunks[n-1])); err != nil {
		return err
	}
	for i := n - 2; i >= 0; i-- {
		start, err := buf.reserve(18)
		if err != nil {
			return err
		}
		writeZeroPadded(buf.data[start:start+18], chunks[i], 18)
	}

	if digits == 0 {
		return nil
	}
	if err := buf.WriteByte('.'); err != nil {
		return err
	}
	start, err := buf.reserve(digits)
	if err != nil {
		return err
	}
	writeZeroPadded(buf.data[start:start+digits], frac, digits)
	return nil
}
