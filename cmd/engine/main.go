package main

import (
	"context"
	"log"
	"os"

	"github.com/rawblock/carcassonne-engine/internal/api"
	"github.com/rawblock/carcassonne-engine/internal/queue"
	"github.com/rawblock/carcassonne-engine/internal/rescan"
	"github.com/rawblock/carcassonne-engine/internal/store"
)

func main() {
	log.Println("Starting Carcassonne Region Engine...")

	// ─── Required Environment Variables ─────────────────────────────────
	// All credentials MUST come from environment variables. No fallback
	// defaults for security-sensitive values.
	// ────────────────────────────────────────────────────────────────────

	dbUrl := requireEnv("DATABASE_URL")

	gameStore, err := store.Connect(dbUrl)
	if err != nil {
		log.Printf("Warning: Failed to connect to PostgreSQL, continuing without persisting game state. Error: %v", err)
	} else {
		defer gameStore.Close()
		if err := gameStore.InitSchema(); err != nil {
			log.Printf("Warning: DB schema init failed: %v", err)
		}
	}

	// Setup WebSocket Hub
	wsHub := api.NewHub()
	go wsHub.Run()

	// Setup and start the move-closure Poller + backfill Scanner
	// GUARD: only start if gameStore is non-nil to avoid a runtime panic
	var rescanner *rescan.Scanner
	if gameStore != nil {
		poller := queue.NewPoller(gameStore, wsHub)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go poller.Run(ctx)

		rescanner = rescan.NewScanner(gameStore)
	} else {
		log.Println("WARNING: PostgreSQL unavailable — engine running in stateless mode (no poller/rescanner)")
	}

	// Setup the Gin Router
	r := api.SetupRouter(gameStore, wsHub, rescanner)

	port := getEnvOrDefault("PORT", "5339")

	// Start the server
	log.Printf("Engine running on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// requireEnv reads a required environment variable and exits if it is not set.
// This prevents the binary from starting with missing critical configuration.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set.", key)
	}
	return val
}

// getEnvOrDefault returns the env var value or a safe default for non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
