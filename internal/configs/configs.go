/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures the server from environment variables: the running environment,
the bind host, the TCP game port, the UDP chat port, the operational HTTP port,
CORS allowed origins, room capacity, and the post-win announcement delay.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Host        string
	GamePort    int
	ChatPort    int
	HTTPPort    int

	// Security Settings
	AllowedOrigins []string

	// Game Settings
	MaxPlayersPerRoom int
	RoundDelay        time.Duration
	DefaultRoomName   string
}

// LoadConfig reads and parses the application configuration from environment
// variables, applying development defaults and validating each value.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.Host = os.Getenv("HOST")
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}

	gamePort, err := portFromEnv("GAME_PORT", 5555)
	if err != nil {
		return nil, err
	}
	cfg.GamePort = gamePort

	chatPort, err := portFromEnv("CHAT_PORT", 5556)
	if err != nil {
		return nil, err
	}
	cfg.ChatPort = chatPort

	httpPort, err := portFromEnv("HTTP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.HTTPPort = httpPort

	if cfg.GamePort == cfg.ChatPort {
		return nil, fmt.Errorf("GAME_PORT and CHAT_PORT must differ, both are %d", cfg.GamePort)
	}

	// --- Security Settings ---
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Game Settings ---
	maxPlayersStr := os.Getenv("MAX_PLAYERS_PER_ROOM")
	if maxPlayersStr == "" {
		maxPlayersStr = "10"
	}
	maxPlayers, err := strconv.Atoi(maxPlayersStr)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_PLAYERS_PER_ROOM environment variable: %w", err)
	}
	if maxPlayers < 1 {
		return nil, fmt.Errorf("MAX_PLAYERS_PER_ROOM must be at least 1, got %d", maxPlayers)
	}
	cfg.MaxPlayersPerRoom = maxPlayers

	roundDelayStr := os.Getenv("ROUND_DELAY_SECONDS")
	if roundDelayStr == "" {
		roundDelayStr = "3"
	}
	roundDelaySec, err := strconv.Atoi(roundDelayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ROUND_DELAY_SECONDS environment variable: %w", err)
	}
	if roundDelaySec < 0 {
		return nil, fmt.Errorf("ROUND_DELAY_SECONDS must not be negative, got %d", roundDelaySec)
	}
	cfg.RoundDelay = time.Duration(roundDelaySec) * time.Second

	cfg.DefaultRoomName = os.Getenv("DEFAULT_ROOM_NAME")
	if cfg.DefaultRoomName == "" {
		cfg.DefaultRoomName = "Main Room"
	}

	return cfg, nil
}

// portFromEnv parses a port number from the named environment variable,
// falling back to def when unset.
func portFromEnv(name string, def int) (int, error) {
	portStr := os.Getenv(name)
	if portStr == "" {
		return def, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}

	if port < 1024 || port > 65535 {
		return 0, fmt.Errorf("port number %d for %s is outside the recommended range (%d-%d) to avoid privileged ports", port, name, 1024, 65535)
	}

	return port, nil
}
