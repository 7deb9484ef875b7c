// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/modcss/internal/adapters/artifacts"
	_ "go.trai.ch/modcss/internal/adapters/config"
	_ "go.trai.ch/modcss/internal/adapters/fs"
	_ "go.trai.ch/modcss/internal/adapters/logger"
	_ "go.trai.ch/modcss/internal/adapters/telemetry"
	_ "go.trai.ch/modcss/internal/adapters/transform"
	_ "go.trai.ch/modcss/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/modcss/internal/app"
)
