package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/claude/strengthlog-mcp/internal/config"
	slmcp "github.com/claude/strengthlog-mcp/internal/mcp"
	"github.com/claude/strengthlog-mcp/internal/server"
	"github.com/claude/strengthlog-mcp/internal/state"
	"github.com/claude/strengthlog-mcp/internal/strengthlog"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Credentials commonly live in a .env next to the binary.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Logs go to stderr: in stdio mode, stdout is the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.Log.Level)}))
	log.Info("strengthlog-mcp starting", "version", Version, "mode", cfg.Server.Mode)

	client := strengthlog.NewClient(log)

	// Restore a persisted session so restarts don't re-login.
	var sessions slmcp.SessionStore
	store, err := state.Open(cfg.Auth.StateDir)
	if err != nil {
		log.Warn("session store unavailable, continuing without persistence", "error", err)
	} else {
		defer store.Close()
		sessions = store

		st, err := store.Load()
		switch {
		case errors.Is(err, state.ErrNoSession):
			log.Debug("no persisted session")
		case err != nil:
			log.Warn("loading persisted session failed", "error", err)
		default:
			client.RestoreAuthState(st)
			log.Info("session restored", "user_id", client.UserID())
		}
	}

	creds := slmcp.Credentials{Email: cfg.Auth.Email, Password: cfg.Auth.Password}
	mcpSrv := slmcp.New(client, creds, sessions, Version, log)

	if cfg.Server.Mode == "stdio" {
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			log.Error("stdio server error", "error", err)
			os.Exit(1)
		}
		return
	}

	serveHTTP(cfg, mcpSrv, log)
}

func serveHTTP(cfg *config.Config, mcpSrv *mcpserver.MCPServer, log *slog.Logger) {
	srv := server.New(mcpSrv, cfg.Server.APIKey, log)

	var listener net.Listener
	var err error

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		listener, err = net.Listen("tcp", cfg.Server.Addr)
		if err != nil {
			log.Error("listen failed", "addr", cfg.Server.Addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", cfg.Server.Addr)
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

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
