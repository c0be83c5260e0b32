// errors.go: Structured error codes for gflogger
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Package gferrors defines the structured error codes used throughout
// gflogger, built on github.com/agilira/go-errors the way agilira/iris
// tags its own LoggerError values (see iris.go's
// ErrCodeBufferCreation/ErrCodeWriteFailure constants) and wraps
// construction failures through errors.Wrap (iris.go:284). Only
// errors.ErrorCode, errors.Wrap and errors.CaptureStacktrace appear
// anywhere in the retrieval pack's actual usage of go-errors; every
// constructor below routes through one of those three rather than
// guessing at the rest of the package's surface.
package gferrors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// ErrorCode values, one per error kind named in the design's error
// handling section. These never change meaning once shipped; treat them
// as part of the public API.
const (
	// ErrCodeBufferOverflow: formatter, slot payload or output buffer ran
	// out of room. Non-fatal. The appender's OutputBuffer truncates and
	// appends a marker; the format and slot writers append no marker,
	// they stop at the overflow and return this error, which
	// RecordBuilder records on the slot.
	ErrCodeBufferOverflow goerrors.ErrorCode = "GFLOG_BUFFER_OVERFLOW"

	// ErrCodePatternMisuse: a RecordBuilder received too few, too many,
	// or mismatched With() calls against its pattern.
	ErrCodePatternMisuse goerrors.ErrorCode = "GFLOG_PATTERN_MISUSE"

	// ErrCodeRingFull: claim() could not reserve a slot under a
	// non-blocking wait strategy with try-claim semantics.
	ErrCodeRingFull goerrors.ErrorCode = "GFLOG_RING_FULL"

	// ErrCodeSinkIO: a sink write/flush/close failed.
	ErrCodeSinkIO goerrors.ErrorCode = "GFLOG_SINK_IO"

	// ErrCodeShutdown: claim() or waitFor() observed the halt flag.
	ErrCodeShutdown goerrors.ErrorCode = "GFLOG_SHUTDOWN"

	// ErrCodeInvalidConfig: a Config value failed validation.
	ErrCodeInvalidConfig goerrors.ErrorCode = "GFLOG_INVALID_CONFIG"
)

// New builds a go-errors value tagged with code. The pack's one
// grounded non-Wrap entry point into go-errors is errors.CaptureStacktrace,
// not a bare "construct without a cause" constructor, so New manufactures
// a minimal stdlib cause and routes it through the same errors.Wrap call
// iris.go uses -- every gflogger error, with or without a real
// underlying cause, ends up as an actual *goerrors.Error rather than a
// parallel local type.
func New(code goerrors.ErrorCode, message string) error {
	return goerrors.Wrap(stderrors.New(message), code, message)
}

// Newf is New with a formatted message.
func Newf(code goerrors.ErrorCode, format string, args ...any) error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches code and message to an existing error without discarding
// it, exactly the call shape iris.go uses to tag Zephyros ring buffer
// construction failures.
func Wrap(err error, code goerrors.ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, code, message)
}

// WithField is New plus one key/value pair of diagnostic context folded
// into the message, mirroring the *WithField helpers agilira/iris layers
// on top of go-errors for its own config validation errors.
func WithField(code goerrors.ErrorCode, message, field, value string) error {
	return New(code, fmt.Sprintf("%s (%s=%s)", message, field, value))
}

// WrapWithStacktrace is Wrap plus a captured stacktrace folded into the
// message, the same qualifying-event capture iris.go performs via
// errors.CaptureStacktrace before emitting a log entry at or above its
// configured stack-trace level (iris.go:388-392).
func WrapWithStacktrace(err error, code goerrors.ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	if stack := goerrors.CaptureStacktrace(1); stack != nil {
		message = message + "\n" + stack.String()
	}
	return goerrors.Wrap(err, code, message)
}
