// configwatcher.go: Live config file watcher for safe-reload keys
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package gflogger

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/agilira/argus"

	"github.com/gflogger/gflogger/gferrors"
	"github.com/gflogger/gflogger/ring"
)

// safeReloadKeys are the only Config fields a ConfigWatcher is allowed to
// apply live: everything else (buffer size, multibyte mode, pattern,
// ring size, wait strategy) is construction-time only because changing
// it means reallocating the slot array or sequencer (§4.7).
type safeReloadKeys struct {
	LogLevel            string `json:"gflogger.loglevel"`
	ImmediateFlush      bool   `json:"gflogger.immediateFlush"`
	BufferedIOThreshold int64  `json:"gflogger.bufferedIOThreshold"`
}

// ConfigWatcher watches a JSON config file for gflogger.* key changes and
// applies the safe-to-change-live subset to a running LoggerService
// without restarting its ring, the way argus watches a file and fires a
// callback on change.
type ConfigWatcher struct {
	path    string
	service *LoggerService
	watcher *argus.Watcher

	mu       sync.Mutex
	lastSafe safeReloadKeys
}

// WatchConfig starts watching path for changes and applies safe key
// updates to service as they land. Unsafe key changes (buffer size,
// multibyte, pattern) are detected and reported through service's
// fallback error handler rather than applied, per §4.7.
func WatchConfig(path string, service *LoggerService) (*ConfigWatcher, error) {
	cw := &ConfigWatcher{path: path, service: service}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, gferrors.Wrap(err, gferrors.ErrCodeInvalidConfig, "reading config file")
	}
	var full Config
	if err := json.Unmarshal(raw, &full); err != nil {
		return nil, gferrors.Wrap(err, gferrors.ErrCodeInvalidConfig, "parsing config file")
	}
	cw.lastSafe = safeReloadKeys{
		LogLevel:            full.LogLevel,
		ImmediateFlush:      full.ImmediateFlush,
		BufferedIOThreshold: full.BufferedIOThreshold,
	}

	w, err := argus.Watch(path, cw.onChange)
	if err != nil {
		return nil, gferrors.Wrap(err, gferrors.ErrCodeInvalidConfig, "starting config watcher")
	}
	cw.watcher = w
	return cw, nil
}

func (cw *ConfigWatcher) onChange(event argus.ChangeEvent) {
	raw, err := os.ReadFile(cw.path)
	if err != nil {
		cw.service.reportError("config-reload", gferrors.Wrap(err, gferrors.ErrCodeInvalidConfig, "re-reading config file on change"))
		return
	}
	var full Config
	if err := json.Unmarshal(raw, &full); err != nil {
		cw.service.reportError("config-reload", gferrors.Wrap(err, gferrors.ErrCodeInvalidConfig, "re-parsing config file on change"))
		return
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()

	if level, err := func() (string, error) {
		if full.LogLevel != cw.lastSafe.LogLevel {
			if _, err := ring.ParseLevel(full.LogLevel); err != nil {
				return "", err
			}
			return full.LogLevel, nil
		}
		return cw.lastSafe.LogLevel, nil
	}(); err == nil && level != "" {
		cw.service.setLogLevel(level)
		cw.lastSafe.LogLevel = level
	}

	if full.ImmediateFlush != cw.lastSafe.ImmediateFlush {
		cw.service.setImmediateFlush(full.ImmediateFlush)
		cw.lastSafe.ImmediateFlush = full.ImmediateFlush
	}
	if full.BufferedIOThreshold != cw.lastSafe.BufferedIOThreshold && full.BufferedIOThreshold > 0 {
		cw.service.setBufferedIOThreshold(full.BufferedIOThreshold)
		cw.lastSafe.BufferedIOThreshold = full.BufferedIOThreshold
	}

	if full.BufferSize != cw.service.cfg.BufferSize || full.Multibyte != cw.service.cfg.Multibyte || full.Pattern != cw.service.cfg.Pattern {
		cw.service.reportError("config-reload", gferrors.New(gferrors.ErrCodeInvalidConfig, "ignoring live change to a construction-time-only key (buffer size, multibyte, or pattern)"))
	}
}

// Stop releases the underlying file watch.
func (cw *ConfigWatcher) Stop() {
	if cw.watcher != nil {
		cw.watcher.Stop()
	}
}
