// Package handler provides the HTTP handlers and routing for the operational API surface.
package handler

import (
	"mysterynum/internal/app/game"
	"mysterynum/internal/app/monitor"
	"mysterynum/internal/configs"
)

// AppDeps bundles the shared dependencies injected into every handler.
type AppDeps struct {
	Registry *game.Registry
	Hub      *monitor.Hub
	Config   *configs.AppConfig
}
