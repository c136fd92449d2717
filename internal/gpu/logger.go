// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/spline"
)

// override replaces spline.Logger for device buffers when set.
var override atomic.Pointer[slog.Logger]

func slogger() *slog.Logger {
	if l := override.Load(); l != nil {
		return l
	}
	return spline.Logger()
}

// SetLogger sets a logger for device buffers only. With nil, device
// buffers log through spline.Logger again.
func SetLogger(l *slog.Logger) { override.Store(l) }

// Logger returns the logger device buffers currently use.
func Logger() *slog.Logger { return slogger() }
