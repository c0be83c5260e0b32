package gflogger

import (
	"testing"
	"time"
)

func TestConfigWithDefaultsFillsUnsetFieldsOnly(t *testing.T) {
	cfg := Config{LogLevel: "DEBUG"}.WithDefaults()
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("LogLevel = %q, want DEBUG to survive WithDefaults", cfg.LogLevel)
	}
	if cfg.BufferSize != 1<<20 {
		t.Errorf("BufferSize = %d, want default 1MiB", cfg.BufferSize)
	}
	if cfg.RingSize != 1<<12 {
		t.Errorf("RingSize = %d, want default 4096", cfg.RingSize)
	}
	if cfg.WaitStrategy != "busy-spin" {
		t.Errorf("WaitStrategy = %q, want busy-spin", cfg.WaitStrategy)
	}
	if cfg.Pattern != "%s" {
		t.Errorf("Pattern = %q, want %%s", cfg.Pattern)
	}
	if cfg.AwaitTimeout != time.Second {
		t.Errorf("AwaitTimeout = %v, want 1s", cfg.AwaitTimeout)
	}
}

func TestConfigValidateAcceptsDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate cleanly: %v", err)
	}
}

func TestConfigValidateRejectsNonPowerOfTwoRingSize(t *testing.T) {
	cfg := Config{}.WithDefaults()
	cfg.RingSize = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-power-of-two ring size")
	}
}

func TestConfigValidateRejectsUnknownLevel(t *testing.T) {
	cfg := Config{}.WithDefaults()
	cfg.LogLevel = "VERBOSE"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestConfigValidateRejectsUnknownWaitStrategy(t *testing.T) {
	cfg := Config{}.WithDefaults()
	cfg.WaitStrategy = "spinlock"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown wait strategy")
	}
}

func TestConfigValidateRejectsMalformedPattern(t *testing.T) {
	cfg := Config{}.WithDefaults()
	cfg.Pattern = "trailing %"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}

func TestConfigValidateRejectsOversizedThreshold(t *testing.T) {
	cfg := Config{}.WithDefaults()
	cfg.BufferSize = 16
	cfg.RingSize = 4
	cfg.BufferedIOThreshold = 1 << 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for threshold exceeding total ring payload capacity")
	}
}

func TestParseSizeUnitsAndBareNumber(t *testing.T) {
	cases := map[string]int64{
		"100":  100,
		"1KB":  1024,
		"1K":   1024,
		"2MB":  2 * 1024 * 1024,
		"1GB":  1024 * 1024 * 1024,
		"1TB":  1024 * 1024 * 1024 * 1024,
		"1gb":  1024 * 1024 * 1024,
	}
	for s, want := range cases {
		got, err := ParseSize(s)
		if err != nil {
			t.Errorf("ParseSize(%q): %v", s, err)
			continue
		}
		if got != want {
			t.Errorf("ParseSize(%q) = %d, want %d", s, got, want)
		}
	}
}

func TestParseSizeRejectsInvalidInput(t *testing.T) {
	for _, s := range []string{"", "abc", "12XB", "KB"} {
		if _, err := ParseSize(s); err == nil {
			t.Errorf("ParseSize(%q): expected error", s)
		}
	}
}

func TestParseDurationSuffixesAndStdlibFallback(t *testing.T) {
	cases := map[string]time.Duration{
		"24h": 24 * time.Hour,
		"1d":  24 * time.Hour,
		"2w":  14 * 24 * time.Hour,
		"1y":  365 * 24 * time.Hour,
	}
	for s, want := range cases {
		got, err := ParseDuration(s)
		if err != nil {
			t.Errorf("ParseDuration(%q): %v", s, err)
			continue
		}
		if got != want {
			t.Errorf("ParseDuration(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseDurationRejectsInvalidInput(t *testing.T) {
	for _, s := range []string{"", "abc", "5x"} {
		if _, err := ParseDuration(s); err == nil {
			t.Errorf("ParseDuration(%q): expected error", s)
		}
	}
}
