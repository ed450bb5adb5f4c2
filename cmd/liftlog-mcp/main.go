// Command liftlog-mcp serves the workout core to MCP clients over stdio.
// It shares the storage configuration of the main server, so a client can
// point at the same local store or remote database.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/config"
	liftlogmcp "github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/storage/local"
	"github.com/claude/liftlog/internal/storage/postgres"
	"github.com/claude/liftlog/internal/workout"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	user := flag.String("user", "default", "user id to scope all data access to")
	flag.Parse()

	// Logs go to stderr; stdout belongs to the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	localStore, err := local.Open(cfg.Local.Dir)
	if err != nil {
		log.Error("failed to open local store", "error", err)
		os.Exit(1)
	}
	defer localStore.Close()

	var store storage.Store = localStore
	if cfg.Database.Enabled() {
		db, err := postgres.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Warn("remote store unreachable, running on local store only", "error", err)
		} else {
			defer db.Close()
			store = storage.NewFallback(db, localStore, log)
		}
	}

	svc := workout.New(store, localStore, log)
	s := liftlogmcp.New(svc, Version, log)

	err = server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return liftlogmcp.WithUserID(ctx, *user)
	}))
	if err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
