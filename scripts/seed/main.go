// Script to seed the remote store with a demo athlete and report history.
// Usage: go run scripts/seed/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/blaisecz/athlete-readiness/internal/config"
	"github.com/blaisecz/athlete-readiness/internal/logging"
	"github.com/blaisecz/athlete-readiness/internal/seed"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, os.Stderr)

	db, err := config.NewDatabase(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := seed.Run(context.Background(), db); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}

	fmt.Println("\nDemo athlete for testing:")
	fmt.Printf("  %s\n", seed.DemoAthleteID)
}
