// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package spline

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record and reports all levels as disabled, so
// callers never format messages while logging is off.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

var silent = slog.New(discard{})

var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent) }

// SetLogger sets the logger shared by spline, dynbuf and geometry.
// Device buffers use it too unless gpu.SetLogger overrides it. Nothing is
// logged until a logger is set; nil switches logging off again.
//
// Levels: [slog.LevelDebug] for buffer growth and expiry of debug lines,
// [slog.LevelInfo] when a GPU device is opened or borrowed.
//
//	spline.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
//
// SetLogger may be called while other goroutines log.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger { return current.Load() }
