// main.go: Throughput benchmark CLI for gflogger
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Command gflogger-bench fires a configurable number of log records from
// a configurable number of producer goroutines at a gflogger
// LoggerService and prints the resulting Stats snapshot, for manual
// throughput/latency checks against the ring and appender pipeline.
package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	flashflags "github.com/agilira/flash-flags"

	"github.com/gflogger/gflogger"
	"github.com/gflogger/gflogger/appender"
	"github.com/gflogger/gflogger/ring"
)

func discardSink() (appender.Sink, error) {
	return appender.NewConsoleSink(io.Discard), nil
}

func main() {
	fs := flashflags.New("gflogger-bench")
	bufferSize := fs.String("buffer-size", "1KB", "per-slot payload size, e.g. 1KB")
	multibyte := fs.Bool("multibyte", false, "use character buffers instead of byte buffers")
	loglevel := fs.String("loglevel", "INFO", "minimum level that reaches the sink")
	pattern := fs.String("pattern", "msg-%s", "default layout pattern")
	immediateFlush := fs.Bool("immediate-flush", false, "flush the output buffer on every record")
	bufferedIOThreshold := fs.String("buffered-io-threshold", "64KB", "byte count that forces a flush")
	awaitTimeout := fs.String("await-timeout", "1s", "consumer drain timeout on shutdown")
	producers := fs.Int("producers", 1, "number of concurrent producer goroutines")
	records := fs.Int("records", 100000, "records published per producer")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "gflogger-bench:", err)
		os.Exit(2)
	}

	bufSize, err := gflogger.ParseSize(*bufferSize)
	must(err)
	ioThreshold, err := gflogger.ParseSize(*bufferedIOThreshold)
	must(err)
	timeout, err := gflogger.ParseDuration(*awaitTimeout)
	must(err)

	cfg := gflogger.Config{
		BufferSize:          bufSize,
		Multibyte:           *multibyte,
		LogLevel:            *loglevel,
		Pattern:             *pattern,
		ImmediateFlush:      *immediateFlush,
		BufferedIOThreshold: ioThreshold,
		AwaitTimeout:        timeout,
		RingSize:            1 << 14,
		Multiproducer:       *producers > 1,
		WaitStrategy:        "sleeping",
	}

	svc, err := gflogger.NewWithConfig(cfg, discardSink)
	must(err)

	start := time.Now()
	var wg sync.WaitGroup
	for p := 0; p < *producers; p++ {
		wg.Add(1)
		go func(id int32) {
			defer wg.Done()
			for i := 0; i < *records; i++ {
				rb, err := svc.StartPatternRecord(ring.INFO, id)
				if err != nil {
					continue
				}
				rb.With(int64(i)).CommitLast()
			}
		}(int32(p))
	}
	wg.Wait()
	elapsed := time.Since(start)

	must(svc.Stop(timeout))

	stats := svc.Stats()
	total := *producers * *records
	fmt.Printf("published=%d consumed=%d truncated=%d flushes=%d sinkErrors=%d\n",
		stats.Published, stats.Consumed, stats.Truncated, stats.FlushCount, stats.SinkErrors)
	fmt.Printf("%d records in %s (%.0f records/sec)\n", total, elapsed, float64(total)/elapsed.Seconds())
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "gflogger-bench:", err)
		os.Exit(1)
	}
}
