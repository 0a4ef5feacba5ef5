/*
Package main is the entry point for the Mystery Number server.

It is responsible for loading configuration, initializing the global logging
system, starting the UDP chat relay, the operational HTTP server, and the TCP
game server, and gracefully handling operating system interrupt signals
(SIGINT, SIGTERM) to ensure a smooth shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mysterynum/internal/app/chat"
	"mysterynum/internal/app/game"
	"mysterynum/internal/app/monitor"
	"mysterynum/internal/configs"
	"mysterynum/internal/handler"
	"mysterynum/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Str("host", cfg.Host).
		Int("game_port", cfg.GamePort).
		Int("chat_port", cfg.ChatPort).
		Int("http_port", cfg.HTTPPort).
		Int("max_players_per_room", cfg.MaxPlayersPerRoom).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Monitor hub and room registry, with the default room
	hub := monitor.NewHub()
	registry := game.NewRegistry(cfg.MaxPlayersPerRoom, hub)
	registry.Create(cfg.DefaultRoomName, "system")

	// UDP chat relay
	relay := chat.NewRelay()
	if err := relay.Listen(cfg.Host, cfg.ChatPort); err != nil {
		logx.Fatal(err, "Chat relay failed to start")
	}
	go relay.Run()

	// Operational HTTP server
	deps := &handler.AppDeps{
		Registry: registry,
		Hub:      hub,
		Config:   cfg,
	}
	router := handler.Router(deps)

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:         httpAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Operational API starting on http://localhost%s", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "HTTP server failed to start")
		}
	}()

	// TCP game server
	gameServer := game.NewServer(registry, cfg.RoundDelay, cfg.ChatPort)
	if err := gameServer.Listen(cfg.Host, cfg.GamePort); err != nil {
		logx.Fatal(err, "Game server failed to start")
	}

	go func() {
		if err := gameServer.Serve(); err != nil {
			logx.Error(err, "Game server accept loop ended with error")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := gameServer.Shutdown(5 * time.Second); err != nil {
		logx.Error(err, "Game server forced to shutdown")
	}

	relay.Close()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "HTTP server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
