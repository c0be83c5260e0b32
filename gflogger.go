// gflogger.go: LoggerService: the producer-facing facade
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package gflogger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gflogger/gflogger/appender"
	"github.com/gflogger/gflogger/gferrors"
	"github.com/gflogger/gflogger/ring"
)

// LoggerService owns one ring, its dispatcher, and the appender pipeline
// that drains it -- the producer-facing façade that ties components
// B through G together for one logger instance.
type LoggerService struct {
	cfg Config

	dispatcher *ring.Dispatcher
	pipeline   *appender.Pipeline
	timeSource TimeSource
	pattern    *ring.Pattern

	nextLoggerID atomic.Int32
	threadNames  sync.Map // int32 -> string

	ErrorCallback func(operation string, err error) `json:"-"`

	closeOnce sync.Once
}

// New is the minimal constructor: a filename sink, sensible defaults for
// everything else. Mirrors the teacher's three-argument New(filename,
// size, backups) shape, generalized to gflogger's own recognized keys.
func New(filename string, bufferSize int, ringSize int64) (*LoggerService, error) {
	if filename == "" {
		return nil, gferrors.New(gferrors.ErrCodeInvalidConfig, "filename cannot be empty")
	}
	cfg := Config{BufferSize: int64(bufferSize), RingSize: ringSize}
	return NewWithConfig(cfg, func() (appender.Sink, error) {
		return appender.NewFileSink(appender.FileSinkConfig{Filename: filename})
	})
}

// NewSimple creates a LoggerService with string-based size configuration,
// the modern recommended entry point for file-backed loggers.
func NewSimple(filename, bufferSize string, ringSize int64) (*LoggerService, error) {
	size, err := ParseSize(bufferSize)
	if err != nil {
		return nil, err
	}
	return New(filename, int(size), ringSize)
}

// NewWithDefaults creates a LoggerService with production defaults: 1 MiB
// slots, a 4096-entry ring, adaptive wait strategy, writing to filename
// with size-based rotation and compression enabled.
func NewWithDefaults(filename string) (*LoggerService, error) {
	cfg := Config{
		RingSize:     1 << 12,
		WaitStrategy: "sleeping",
	}
	return NewWithConfig(cfg, func() (appender.Sink, error) {
		return appender.NewFileSink(appender.FileSinkConfig{
			Filename:   filename,
			MaxSize:    100 * 1024 * 1024,
			MaxBackups: 10,
			Compress:   true,
		})
	})
}

// NewDevelopment creates a LoggerService that writes immediately-flushed,
// human-readable records to stderr -- useful for local runs where a
// buffered consumer loop would hide the most recent lines.
func NewDevelopment() (*LoggerService, error) {
	cfg := Config{
		RingSize:       1 << 8,
		WaitStrategy:   "yielding",
		ImmediateFlush: true,
		LogLevel:       "DEBUG",
	}
	return NewWithConfig(cfg, func() (appender.Sink, error) {
		return appender.NewConsoleSink(os.Stderr), nil
	})
}

// sinkFactory builds the Sink a LoggerService writes to; constructors
// close over their own flavor of it so NewWithConfig stays the single
// place that wires ring, dispatcher and pipeline together.
type sinkFactory func() (appender.Sink, error)

// NewWithConfig is the full constructor every other constructor in this
// file delegates to: it validates cfg, allocates the ring, sequencer,
// wait strategy, dispatcher and pipeline, and starts the consumer
// goroutine.
func NewWithConfig(cfg Config, newSink sinkFactory) (*LoggerService, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sink, err := newSink()
	if err != nil {
		return nil, gferrors.Wrap(err, gferrors.ErrCodeSinkIO, "constructing sink")
	}

	wait, err := ring.NewWaitStrategy(cfg.WaitStrategy)
	if err != nil {
		return nil, err
	}

	var sequencer ring.Sequencer
	if cfg.Multiproducer {
		sequencer, err = ring.NewMultiProducerSequencer(cfg.RingSize)
	} else {
		sequencer, err = ring.NewSingleProducerSequencer(cfg.RingSize)
	}
	if err != nil {
		return nil, err
	}

	level, err := ring.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	pattern, err := ring.ParsePattern(cfg.Pattern)
	if err != nil {
		return nil, err
	}

	pipeline := appender.NewPipeline(sink, appender.DefaultLayout{}, level, int(cfg.BufferedIOThreshold))
	pipeline.ImmediateFlush = cfg.ImmediateFlush
	pipeline.BufferedIOThreshold = int(cfg.BufferedIOThreshold)

	svc := &LoggerService{cfg: cfg, pipeline: pipeline, timeSource: NewTimeSource(), pattern: pattern}
	pipeline.FallbackErrorHandler = func(err error) { svc.reportError("sink", err) }
	pipeline.ThreadNames = svc.threadName

	dispatcher, err := ring.NewDispatcher(int(cfg.RingSize), cfg.Multibyte, int(cfg.BufferSize), sequencer, wait, pipeline)
	if err != nil {
		return nil, err
	}
	svc.dispatcher = dispatcher

	go dispatcher.Run()
	return svc, nil
}

func (s *LoggerService) threadName(loggerID int32) string {
	if v, ok := s.threadNames.Load(loggerID); ok {
		return v.(string)
	}
	return ""
}

// RegisterThreadName associates a human-readable name with loggerID for
// layouts that render it; callers typically do this once per goroutine.
func (s *LoggerService) RegisterThreadName(loggerID int32, name string) {
	s.threadNames.Store(loggerID, name)
}

// NextLoggerID hands out a fresh opaque logger id (§3's loggerId field).
func (s *LoggerService) NextLoggerID() int32 { return s.nextLoggerID.Add(1) }

func (s *LoggerService) reportError(operation string, err error) {
	if s.ErrorCallback != nil {
		s.ErrorCallback(operation, err)
		return
	}
	fmt.Fprintf(os.Stderr, "gflogger: %s: %v\n", operation, err)
}

// setLogLevel applies a live level change (§4.7 safe-reload keys).
func (s *LoggerService) setLogLevel(level string) {
	l, err := ring.ParseLevel(level)
	if err != nil {
		s.reportError("config-reload", err)
		return
	}
	s.pipeline.Level = l
	s.cfg.LogLevel = level
}

func (s *LoggerService) setImmediateFlush(v bool) {
	s.pipeline.ImmediateFlush = v
	s.cfg.ImmediateFlush = v
}

func (s *LoggerService) setBufferedIOThreshold(v int64) {
	s.pipeline.BufferedIOThreshold = int(v)
	s.cfg.BufferedIOThreshold = v
}

// Stats returns the current appender pipeline counters.
func (s *LoggerService) Stats() appender.Stats { return s.pipeline.Snapshot() }

// Stop waits up to timeout for the consumer to complete its final drain
// after halt, matching spec.md §5's LoggerService.stop(timeout) contract.
func (s *LoggerService) Stop(timeout time.Duration) error {
	var err error
	s.closeOnce.Do(func() {
		done := make(chan struct{})
		go func() {
			s.dispatcher.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(timeout):
			s.reportError("shutdown", gferrors.WrapWithStacktrace(context.DeadlineExceeded, gferrors.ErrCodeShutdown, "consumer drain timed out, unflushed tail discarded"))
		}
		if cerr := s.pipeline.Sink.Close(); cerr != nil {
			err = cerr
		}
		if cts, ok := s.timeSource.(*cachedTimeSource); ok {
			cts.Stop()
		}
	})
	return err
}

// Close is Stop with a generous default timeout, for callers that don't
// need fine control over shutdown -- e.g. a defer right after New.
func (s *LoggerService) Close() error { return s.Stop(5 * time.Second) }
