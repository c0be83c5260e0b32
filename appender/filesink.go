// filesink.go: Size-rotating file Sink implementation
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package appender

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gflogger/gflogger/gferrors"
)

// FileSinkConfig controls size-based rotation of a FileSink, adapted from
// the file-rotating appender concerns any production logging library
// needs (filename, rotation threshold, backup retention, compression).
type FileSinkConfig struct {
	Filename   string
	MaxSize    int64 // bytes; 0 disables rotation
	MaxBackups int   // 0 keeps every backup
	Compress   bool
	FileMode   os.FileMode
	RetryCount int
	RetryDelay time.Duration
}

func (c FileSinkConfig) withDefaults() FileSinkConfig {
	out := c
	if out.FileMode == 0 {
		out.FileMode = 0644
	}
	if out.RetryCount <= 0 {
		out.RetryCount = 3
	}
	if out.RetryDelay <= 0 {
		out.RetryDelay = 10 * time.Millisecond
	}
	return out
}

// FileSink is a Sink that writes to a rotating log file: once the
// current file reaches MaxSize it is renamed with a timestamp suffix
// (optionally gzip-compressed in the background) and a fresh file is
// opened in its place.
type FileSink struct {
	cfg FileSinkConfig

	mu      sync.Mutex
	file    *os.File
	written int64
}

// NewFileSink opens (or creates) cfg.Filename for append and returns a
// ready-to-use Sink.
func NewFileSink(cfg FileSinkConfig) (*FileSink, error) {
	cfg = cfg.withDefaults()
	f := &FileSink{cfg: cfg}
	if err := f.openCurrent(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FileSink) openCurrent() error {
	if err := os.MkdirAll(filepath.Dir(f.cfg.Filename), 0755); err != nil {
		return gferrors.Wrap(err, gferrors.ErrCodeSinkIO, "creating log directory")
	}
	var file *os.File
	err := retry(f.cfg.RetryCount, f.cfg.RetryDelay, func() error {
		var openErr error
		file, openErr = os.OpenFile(f.cfg.Filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, f.cfg.FileMode)
		return openErr
	})
	if err != nil {
		return gferrors.Wrap(err, gferrors.ErrCodeSinkIO, "opening log file")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return gferrors.Wrap(err, gferrors.ErrCodeSinkIO, "statting log file")
	}
	f.file = file
	f.written = info.Size()
	return nil
}

// Write appends p, rotating first if it would push the file past MaxSize.
func (f *FileSink) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cfg.MaxSize > 0 && f.written+int64(len(p)) > f.cfg.MaxSize && f.written > 0 {
		if err := f.rotateLocked(); err != nil {
			return 0, err
		}
	}
	n, err := f.file.Write(p)
	f.written += int64(n)
	if err != nil {
		return n, gferrors.Wrap(err, gferrors.ErrCodeSinkIO, "writing log file")
	}
	return n, nil
}

func (f *FileSink) rotateLocked() error {
	backup := f.cfg.Filename + "." + time.Now().UTC().Format("20060102T150405.000000000Z")
	if err := f.file.Close(); err != nil {
		return gferrors.Wrap(err, gferrors.ErrCodeSinkIO, "closing log file before rotation")
	}
	if err := os.Rename(f.cfg.Filename, backup); err != nil {
		return gferrors.Wrap(err, gferrors.ErrCodeSinkIO, "renaming rotated log file")
	}
	if f.cfg.Compress {
		go compressAndRemove(backup)
	}
	go f.pruneBackups()
	return f.openCurrent()
}

func compressAndRemove(path string) {
	src, err := os.Open(path)
	if err != nil {
		return
	}
	defer src.Close()
	dst, err := os.Create(path + ".gz")
	if err != nil {
		return
	}
	defer dst.Close()
	gw := gzip.NewWriter(dst)
	if _, err := io.Copy(gw, src); err != nil {
		gw.Close()
		return
	}
	if err := gw.Close(); err != nil {
		return
	}
	os.Remove(path)
}

func (f *FileSink) pruneBackups() {
	if f.cfg.MaxBackups <= 0 {
		return
	}
	dir := filepath.Dir(f.cfg.Filename)
	base := filepath.Base(f.cfg.Filename)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	type backup struct {
		path string
		mod  time.Time
	}
	var backups []backup
	for _, e := range entries {
		if e.IsDir() || e.Name() == base || len(e.Name()) <= len(base) || e.Name()[:len(base)+1] != base+"." {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{path: filepath.Join(dir, e.Name()), mod: info.ModTime()})
	}
	if len(backups) <= f.cfg.MaxBackups {
		return
	}
	for i := 0; i < len(backups); i++ {
		for j := i + 1; j < len(backups); j++ {
			if backups[j].mod.Before(backups[i].mod) {
				backups[i], backups[j] = backups[j], backups[i]
			}
		}
	}
	for _, b := range backups[:len(backups)-f.cfg.MaxBackups] {
		os.Remove(b.path)
	}
}

// Flush forces any OS-buffered bytes for the current file to stable
// storage.
func (f *FileSink) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.file.Sync(); err != nil {
		return gferrors.Wrap(err, gferrors.ErrCodeSinkIO, "syncing log file")
	}
	return nil
}

// Close closes the current file. Writes go straight to the OS file, so
// no in-process buffer is left to flush; Close does not Sync the file
// to stable storage first.
func (f *FileSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.file.Close(); err != nil {
		return gferrors.Wrap(err, gferrors.ErrCodeSinkIO, "closing log file")
	}
	return nil
}

// retry runs operation up to count times with delay between attempts,
// the same conservative reliability pattern used against transient
// antivirus/network-filesystem file-locking failures.
func retry(count int, delay time.Duration, operation func() error) error {
	var lastErr error
	for i := 0; i < count; i++ {
		if err := operation(); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if i < count-1 {
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("operation failed after %d attempts: %w", count, lastErr)
}
