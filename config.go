// config.go: Recognized configuration keys and validation
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package gflogger

import (
	"strconv"
	"strings"
	"time"

	"github.com/gflogger/gflogger/gferrors"
	"github.com/gflogger/gflogger/ring"
)

// Config holds every recognized configuration key from §6. Field names
// are Go-idiomatic; json tags match the dotted key names used by the
// argus-backed hot-reload file format.
type Config struct {
	BufferSize          int64         `json:"gflogger.buffer.size"`
	Multibyte           bool          `json:"gflogger.multibyte"`
	LogLevel            string        `json:"gflogger.loglevel"`
	TimeZoneID          string        `json:"gflogger.timeZoneId"`
	Language            string        `json:"gflogger.language"`
	Pattern             string        `json:"gflogger.pattern"`
	ImmediateFlush      bool          `json:"gflogger.immediateFlush"`
	BufferedIOThreshold int64         `json:"gflogger.bufferedIOThreshold"`
	AwaitTimeout        time.Duration `json:"gflogger.awaitTimeout"`

	RingSize      int64  `json:"gflogger.ring.size"`
	WaitStrategy  string `json:"gflogger.wait.strategy"`
	Multiproducer bool   `json:"gflogger.multiproducer"`
}

// WithDefaults returns a copy of c with every unset field filled in, the
// same copy-then-patch shape as the teacher's withDefaults().
func (c Config) WithDefaults() Config {
	out := c
	if out.BufferSize == 0 {
		out.BufferSize = 1 << 20 // 1 MiB, per §6
	}
	if out.LogLevel == "" {
		out.LogLevel = "INFO"
	}
	if out.TimeZoneID == "" {
		out.TimeZoneID = "UTC"
	}
	if out.Pattern == "" {
		out.Pattern = "%s"
	}
	if out.BufferedIOThreshold == 0 {
		out.BufferedIOThreshold = 64 * 1024
	}
	if out.AwaitTimeout == 0 {
		out.AwaitTimeout = time.Second
	}
	if out.RingSize == 0 {
		out.RingSize = 1 << 12
	}
	if out.WaitStrategy == "" {
		out.WaitStrategy = "busy-spin"
	}
	return out
}

// Validate rejects a non-power-of-two ring size, an unknown wait
// strategy or log level name, a malformed pattern, and a
// bufferedIOThreshold larger than the ring's total payload capacity.
func (c Config) Validate() error {
	if c.RingSize <= 0 || c.RingSize&(c.RingSize-1) != 0 {
		return gferrors.WithField(gferrors.ErrCodeInvalidConfig, "ring size must be a power of two", "gflogger.ring.size", strconv.FormatInt(c.RingSize, 10))
	}
	if c.BufferSize <= 0 {
		return gferrors.WithField(gferrors.ErrCodeInvalidConfig, "buffer size must be positive", "gflogger.buffer.size", strconv.FormatInt(c.BufferSize, 10))
	}
	if _, err := ring.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := ring.NewWaitStrategy(c.WaitStrategy); err != nil {
		return err
	}
	if c.BufferedIOThreshold > 0 && c.BufferedIOThreshold > c.BufferSize*c.RingSize {
		return gferrors.WithField(gferrors.ErrCodeInvalidConfig, "bufferedIOThreshold exceeds total ring payload capacity", "gflogger.bufferedIOThreshold", strconv.FormatInt(c.BufferedIOThreshold, 10))
	}
	if _, err := ring.ParsePattern(c.Pattern); err != nil {
		return err
	}
	return nil
}

// ParseSize converts size strings like "100MB", "1GB" to bytes. Supports
// case-insensitive input and single-letter units (K, M, G, T).
func ParseSize(s string) (int64, error) {
	if s == "" {
		return 0, gferrors.New(gferrors.ErrCodeInvalidConfig, "empty size string")
	}
	if val, err := strconv.ParseInt(s, 10, 64); err == nil {
		return val, nil
	}
	up := strings.ToUpper(s)
	var multiplier int64
	var numStr string
	switch {
	case strings.HasSuffix(up, "KB"):
		multiplier, numStr = 1024, up[:len(up)-2]
	case strings.HasSuffix(up, "MB"):
		multiplier, numStr = 1024*1024, up[:len(up)-2]
	case strings.HasSuffix(up, "GB"):
		multiplier, numStr = 1024*1024*1024, up[:len(up)-2]
	case strings.HasSuffix(up, "TB"):
		multiplier, numStr = 1024*1024*1024*1024, up[:len(up)-2]
	case strings.HasSuffix(up, "K"):
		multiplier, numStr = 1024, up[:len(up)-1]
	case strings.HasSuffix(up, "M"):
		multiplier, numStr = 1024*1024, up[:len(up)-1]
	case strings.HasSuffix(up, "G"):
		multiplier, numStr = 1024*1024*1024, up[:len(up)-1]
	case strings.HasSuffix(up, "T"):
		multiplier, numStr = 1024*1024*1024*1024, up[:len(up)-1]
	default:
		return 0, gferrors.WithField(gferrors.ErrCodeInvalidConfig, "unknown size suffix (supported: KB/K, MB/M, GB/G, TB/T)", "value", s)
	}
	val, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, gferrors.WithField(gferrors.ErrCodeInvalidConfig, "invalid size number", "value", s)
	}
	result := val * multiplier
	if result < 0 {
		return 0, gferrors.WithField(gferrors.ErrCodeInvalidConfig, "size too large", "value", s)
	}
	return result, nil
}

// ParseDuration converts duration strings like "7d", "24h", "2w" to a
// time.Duration, falling back to the standard library for everything
// time.ParseDuration already understands.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, gferrors.New(gferrors.ErrCodeInvalidConfig, "empty duration string")
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	lower := strings.ToLower(s)
	var multiplier time.Duration
	var numStr string
	switch {
	case strings.HasSuffix(lower, "d"):
		multiplier, numStr = 24*time.Hour, lower[:len(lower)-1]
	case strings.HasSuffix(lower, "w"):
		multiplier, numStr = 7*24*time.Hour, lower[:len(lower)-1]
	case strings.HasSuffix(lower, "y"):
		multiplier, numStr = 365*24*time.Hour, lower[:len(lower)-1]
	default:
		return 0, gferrors.WithField(gferrors.ErrCodeInvalidConfig, "unknown duration suffix", "value", s)
	}
	val, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, gferrors.WithField(gferrors.ErrCodeInvalidConfig, "invalid duration number", "value", s)
	}
	return time.Duration(val) * multiplier, nil
}
