// Package main implements the entry point for the transit API server, which
// manages stations and stored-value cards over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/transit-api/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (env vars override it)")
	migrateOnly := flag.Bool("migrate-only", false, "prepare the storage schema and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *migrateOnly); err != nil {
		log.Printf("transit-api: %v", err)
		os.Exit(1)
	}
}

// run loads configuration and either prepares the schema or serves until ctx is done.
func run(ctx context.Context, configPath string, migrateOnly bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if migrateOnly {
		return runMigrations(ctx, cfg)
	}

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}
