// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"log/slog"

	gpuimpl "github.com/gogpu/spline/internal/gpu"
)

// SetLogger gives device buffers their own logger. Until it is called, or
// after it is called with nil, they log through spline.Logger.
//
// Log levels:
//   - [slog.LevelDebug]: buffer creation and device copies
//   - [slog.LevelInfo]: device opened or borrowed
//   - [slog.LevelWarn]: failures while tearing down a device
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	gpuimpl.SetLogger(l)
}

// Logger returns the logger used for device buffers.
func Logger() *slog.Logger {
	return gpuimpl.Logger()
}
