// doc.go: Package documentation and quick start examples
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Package gflogger is a garbage-free, low-latency application logging
// library. Producers claim a slot on a lock-free ring, fill it with
// primitive Append/With calls that never allocate, and publish; one
// dedicated consumer goroutine per logger drains published slots through
// an appender pipeline onto a sink.
//
// # Quick Start
//
//	svc, err := gflogger.NewWithDefaults("app.log")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer svc.Close()
//
//	rb, _ := svc.StartRecord(ring.INFO, svc.NextLoggerID())
//	rb.AppendString("hello ").AppendLong(42)
//	rb.CommitLast()
//
// # Constructor Functions
//
//	// Minimal: a file sink, sensible ring/buffer defaults.
//	svc, err := gflogger.New("app.log", 1<<20, 1<<12)
//
//	// String-sized buffer, e.g. "1MB".
//	svc, err := gflogger.NewSimple("app.log", "1MB", 1<<12)
//
//	// Production defaults: rotating file sink, sleeping wait strategy.
//	svc, err := gflogger.NewWithDefaults("app.log")
//
//	// Development: stderr sink, immediate flush, DEBUG level.
//	svc, err := gflogger.NewDevelopment()
//
//	// Full control over every recognized key.
//	svc, err := gflogger.NewWithConfig(cfg, sinkFactory)
//
// # Thread Safety
//
// LoggerService is safe for concurrent use by multiple producer
// goroutines only when Config.Multiproducer is true; the single-producer
// sequencer assumes exactly one caller claims slots at a time. A
// RecordBuilder itself is not safe for concurrent use -- it is owned by
// whichever goroutine called StartRecord until Commit/CommitLast returns.
package gflogger
