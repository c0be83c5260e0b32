// timesource.go: Cached wall-clock time source
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package gflogger

import (
	"time"

	"github.com/agilira/go-timecache"
)

// TimeSource supplies the current wall-clock time in milliseconds
// (§6's time source contract). LoggerService holds one in an unexported
// field; NewWithConfig always installs NewTimeSource() and takes no
// TimeSource argument, so code outside this package cannot supply a
// different clock.
type TimeSource interface {
	NowMillis() int64
}

// cachedTimeSource wraps go-timecache the way the teacher's Logger wires
// its timeCache field in lethe.go: a single background-refreshed clock
// shared by every claim on the hot path instead of a syscall per record.
type cachedTimeSource struct {
	cache *timecache.TimeCache
}

// NewTimeSource returns the default TimeSource, backed by a
// millisecond-resolution timecache.TimeCache.
func NewTimeSource() TimeSource {
	return &cachedTimeSource{cache: timecache.NewWithResolution(time.Millisecond)}
}

func (t *cachedTimeSource) NowMillis() int64 {
	return t.cache.CachedTime().UnixMilli()
}

// Stop releases the background refresh goroutine backing this time
// source. Called from LoggerService.Close.
func (t *cachedTimeSource) Stop() { t.cache.Stop() }

// fakeTimeSource is a deterministic TimeSource for tests.
type fakeTimeSource struct {
	millis int64
}

func newFakeTimeSource(start int64) *fakeTimeSource { return &fakeTimeSource{millis: start} }

func (f *fakeTimeSource) NowMillis() int64 { return f.millis }

func (f *fakeTimeSource) set(millis int64) { f.millis = millis }
