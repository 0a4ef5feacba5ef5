/*
Package handler provides the HTTP handlers and routing for the operational API surface.

This file contains the monitor WebSocket handler, which upgrades the connection
and attaches the observer to the event hub.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"mysterynum/internal/pkg/logx"
)

// HandleMonitor upgrades the request and attaches the observer to the monitor
// hub. The feed is read-only; inbound frames are discarded.
func HandleMonitor(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade monitor connection to WebSocket")
			return
		}

		logx.Info("Monitor observer connected", "remote_addr", r.RemoteAddr)

		deps.Hub.Attach(conn)
	}
}
