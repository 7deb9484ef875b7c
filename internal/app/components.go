package app

import (
	"context"

	"go.trai.ch/modcss/internal/core/ports"
)

// LogControl switches the logger between output modes at runtime.
type LogControl interface {
	SetVerbose(verbose bool)
	SetJSON(enabled bool)
}

// Flusher flushes and releases telemetry on exit.
type Flusher interface {
	Shutdown(ctx context.Context) error
}

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App        *App
	Logger     ports.Logger
	LogControl LogControl
	Telemetry  Flusher
}
