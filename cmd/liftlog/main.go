package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/server"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/storage/local"
	"github.com/claude/liftlog/internal/storage/postgres"
	"github.com/claude/liftlog/internal/workout"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("LiftLog starting", "version", Version)

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

	// The remote store is optional at boot: if it is unconfigured or
	// unreachable, the server runs on the local store alone. When it is
	// available, the fallback decorator still catches per-call outages.
	ctx := context.Background()
	var store storage.Store = localStore
	if cfg.Database.Enabled() {
		dsn := cfg.Database.DSN()
		if err := postgres.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		db, err := postgres.New(ctx, dsn)
		if err != nil {
			log.Warn("remote store unreachable, running on local store only", "error", err)
		} else {
			defer db.Close()
			store = storage.NewFallback(db, localStore, log)
			log.Info("database connected")
		}
	} else {
		log.Info("no remote store configured, running on local store only")
	}

	svc := workout.New(store, localStore, log)
	srv := server.New(svc, cfg.Auth.APIKey, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
